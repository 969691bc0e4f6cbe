// Package runway provides an HTTP client for the Runway video generation API.
// It covers both the standard text-to-video endpoint (with clip extension)
// and the long-form endpoint used for durations beyond the chaining ceiling.
package runway

// TaskState represents the state of a Runway generation task.
type TaskState string

// Task states aligned with the Runway task lifecycle.
const (
	StatePending   TaskState = "PENDING"
	StateThrottled TaskState = "THROTTLED"
	StateRunning   TaskState = "RUNNING"
	StateSucceeded TaskState = "SUCCEEDED"
	StateFailed    TaskState = "FAILED"
	StateCancelled TaskState = "CANCELLED"
)

// IsTerminal returns true if the state is a terminal state.
func (s TaskState) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// SubmitOptions contains parameters for submitting a generation task.
type SubmitOptions struct {
	// PromptText is the full generation instruction.
	PromptText string
	// ExtendFrom is an asset reference of a previously generated clip; when
	// set, the task continues that clip instead of starting a new shot.
	ExtendFrom string
	// DurationSec is the requested clip length in seconds.
	DurationSec int
	// Ratio is the output frame ratio, e.g. "16:9".
	Ratio string
	// LongForm routes the task to the long-form endpoint, which synthesizes
	// the full duration in a single task and does not accept ExtendFrom.
	LongForm bool
}

// taskRequest is the request body for POST /v1/generations.
type taskRequest struct {
	PromptText string `json:"prompt_text"`
	ExtendFrom string `json:"extend_from,omitempty"`
	Duration   int    `json:"duration"`
	Ratio      string `json:"ratio,omitempty"`
	Seed       *int   `json:"seed,omitempty"`
}

// taskResponse is the response body from the task creation endpoints.
type taskResponse struct {
	ID    string `json:"id"`
	State string `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

// taskStatusResponse is the response body from GET /v1/generations/{id}.
type taskStatusResponse struct {
	ID     string   `json:"id"`
	State  string   `json:"state"`
	Output []string `json:"output,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// TaskResult contains the normalized result of checking a task.
type TaskResult struct {
	State TaskState
	// OutputURL is the artifact download URL (only set when State is StateSucceeded).
	OutputURL string
	// Error is the failure message (only set when State is StateFailed).
	Error string
}
