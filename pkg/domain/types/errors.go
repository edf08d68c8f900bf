package types

import "github.com/m-mizutani/goerr/v2"

// Error tags for classifying run failures. The runner maps these onto the
// recorded run status.
var (
	ErrTagTask     = goerr.NewTag("task")
	ErrTagTimeout  = goerr.NewTag("timeout")
	ErrTagGit      = goerr.NewTag("git")
	ErrTagArtifact = goerr.NewTag("artifact")
	ErrTagConfig   = goerr.NewTag("config")
)

// ErrRunInFlight is returned when a trigger arrives while another run still
// holds the run lock. Overlapping runs are skipped, not queued.
var ErrRunInFlight = goerr.New("another run is already in flight")
