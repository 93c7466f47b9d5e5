package domain

import "time"

// RunStatus is the outcome of an updater run
type RunStatus string

const (
	RunStatusOK        RunStatus = "ok"
	RunStatusExhausted RunStatus = "exhausted"
)

// Run is a history record of a single updater run
type Run struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`
	KeyIndex   int       `json:"key_index"` // 1-based index of the credential that produced output, 0 if none did
	Attempts   int       `json:"attempts"`
	Status     RunStatus `json:"status"`
	Added      int       `json:"added"`
	Total      int       `json:"total"`
	Error      string    `json:"error,omitempty"`
}
