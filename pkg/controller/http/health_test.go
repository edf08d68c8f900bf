package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/yatagai/antenna/pkg/controller/http"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/infra/memory"
)

func TestHealthEndpoint(t *testing.T) {
	ctx := context.Background()

	server := gt.R1(controller.NewServer(
		ctx,
		&stubRunner{},
		memory.NewRunRepository(10),
		controller.WithAddr("localhost:0"),
	)).NoError(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.Value(t, status.Status).Equal("healthy")
	gt.Value(t, status.Service).Equal("antenna")
	gt.String(t, status.Version).NotEqual("")
}

func TestMetricsEndpoint(t *testing.T) {
	ctx := context.Background()

	server := gt.R1(controller.NewServer(
		ctx,
		&stubRunner{},
		memory.NewRunRepository(10),
	)).NoError(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)
}
