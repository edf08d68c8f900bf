package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/domain/types"
	"github.com/yatagai/antenna/pkg/utils/async"
)

const defaultListLimit = 20

// RunsHandler exposes the run API: manual trigger and run history.
type RunsHandler struct {
	runner  interfaces.Runner
	runRepo interfaces.RunRepository
}

// NewRunsHandler creates a RunsHandler.
func NewRunsHandler(runner interfaces.Runner, runRepo interfaces.RunRepository) *RunsHandler {
	return &RunsHandler{
		runner:  runner,
		runRepo: runRepo,
	}
}

// Trigger starts a manual run. The run executes asynchronously; the
// response acknowledges with 202. A run already in flight yields 409.
func (h *RunsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	if h.runner.Busy() {
		writeError(w, types.ErrRunInFlight, http.StatusConflict)
		return
	}

	logger.Info("Manual run triggered")

	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := h.runner.Execute(ctx, model.TriggerManual)
		if errors.Is(err, types.ErrRunInFlight) {
			// Raced with a schedule tick; the skip is already recorded.
			return nil
		}
		return err
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "accepted",
	}); err != nil {
		logger.Error("Failed to encode trigger response", "error", err)
	}
}

// List returns recent run records, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, goerr.New("invalid limit parameter"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.runRepo.List(ctx, limit)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*model.RunRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"runs": records,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode runs response", "error", err)
	}
}
