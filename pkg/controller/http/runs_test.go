package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	controller "github.com/yatagai/antenna/pkg/controller/http"
	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/infra/memory"
)

// stubRunner is a Runner stub recording executions.
type stubRunner struct {
	mu       sync.Mutex
	busy     bool
	executed int
	done     chan struct{}
}

func (r *stubRunner) Execute(ctx context.Context, trigger model.RunTrigger) (*model.RunRecord, error) {
	r.mu.Lock()
	r.executed++
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return &model.RunRecord{
		ID:      "run-1",
		Trigger: trigger,
		Status:  model.RunStatusSucceeded,
	}, nil
}

func (r *stubRunner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

func (r *stubRunner) executions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executed
}

func newTestServer(t *testing.T, runner *stubRunner, opts ...controller.Option) *controller.Server {
	t.Helper()
	return gt.R1(controller.NewServer(
		context.Background(),
		runner,
		seededRepo(t),
		opts...,
	)).NoError(t)
}

func seededRepo(t *testing.T) interfaces.RunRepository {
	t.Helper()
	repo := memory.NewRunRepository(10)
	gt.NoError(t, repo.Save(context.Background(), &model.RunRecord{
		ID:        "run-old",
		Trigger:   model.TriggerSchedule,
		Status:    model.RunStatusSucceeded,
		StartedAt: time.Now().Add(-time.Hour),
	}))
	return repo
}

func TestRunsTrigger(t *testing.T) {
	t.Run("accepts and dispatches a manual run", func(t *testing.T) {
		runner := &stubRunner{done: make(chan struct{})}
		server := newTestServer(t, runner)

		req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)

		gt.Value(t, w.Code).Equal(http.StatusAccepted)

		select {
		case <-runner.done:
		case <-time.After(time.Second):
			t.Fatal("run was not dispatched")
		}
		gt.Number(t, runner.executions()).Equal(1)
	})

	t.Run("returns 409 while a run is in flight", func(t *testing.T) {
		runner := &stubRunner{busy: true}
		server := newTestServer(t, runner)

		req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)

		gt.Value(t, w.Code).Equal(http.StatusConflict)
		gt.Number(t, runner.executions()).Equal(0)
	})
}

func TestRunsList(t *testing.T) {
	runner := &stubRunner{}
	server := newTestServer(t, runner)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)

	var body struct {
		Runs []*model.RunRecord `json:"runs"`
	}
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	gt.Number(t, len(body.Runs)).Equal(1)
	gt.Value(t, body.Runs[0].ID).Equal("run-old")
}

func TestRunsList_InvalidLimit(t *testing.T) {
	server := newTestServer(t, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=zero", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestBearerAuth(t *testing.T) {
	runner := &stubRunner{}
	server := newTestServer(t, runner, controller.WithAPIToken("sesame"))

	t.Run("rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("accepts the configured token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		req.Header.Set("Authorization", "Bearer sesame")
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusOK)
	})

	t.Run("health stays open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusOK)
	})
}
