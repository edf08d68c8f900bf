package model

import "time"

// RunStatus represents the lifecycle state of a single automation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
	RunStatusTimeout   RunStatus = "timeout"
	RunStatusSkipped   RunStatus = "skipped"
)

// RunTrigger represents how a run was started.
type RunTrigger string

const (
	TriggerSchedule RunTrigger = "schedule"
	TriggerManual   RunTrigger = "manual"
)

// RunRecord is the persisted record of one automation run.
type RunRecord struct {
	ID         string     `json:"id" firestore:"id"`
	Trigger    RunTrigger `json:"trigger" firestore:"trigger"`
	Status     RunStatus  `json:"status" firestore:"status"`
	StartedAt  time.Time  `json:"started_at" firestore:"started_at"`
	FinishedAt time.Time  `json:"finished_at,omitzero" firestore:"finished_at"`

	// Error holds the failure message for failed/timeout runs.
	Error string `json:"error,omitempty" firestore:"error,omitempty"`

	// ChannelCount is the number of channels the built-in collector kept.
	// Zero for external tasks that do not report it.
	ChannelCount int `json:"channel_count" firestore:"channel_count"`

	// ArtifactFiles lists the files bundled after the task finished.
	ArtifactFiles []string `json:"artifact_files,omitempty" firestore:"artifact_files,omitempty"`

	// CommitMessage is set when the run produced a commit.
	CommitMessage string `json:"commit_message,omitempty" firestore:"commit_message,omitempty"`
}

// Duration returns the wall-clock time of the run, or zero when the run is
// still in flight.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// IsFinished reports whether the run reached a terminal status.
func (r *RunRecord) IsFinished() bool {
	switch r.Status {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimeout, RunStatusSkipped:
		return true
	default:
		return false
	}
}
