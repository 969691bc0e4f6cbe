// Package heygen provides an HTTP client for the HeyGen avatar video API.
// Avatar videos render a presenter speaking a script; the video length is
// driven by the script, so no clip chaining happens inside this tier.
package heygen

// VideoStatus represents the status of a HeyGen video job.
type VideoStatus string

// Video statuses as reported by the HeyGen API.
const (
	StatusWaiting    VideoStatus = "waiting"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// IsTerminal returns true if the status is a terminal state.
func (s VideoStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SubmitOptions contains parameters for submitting an avatar video.
type SubmitOptions struct {
	// Script is the text the avatar speaks.
	Script string
	// AvatarID selects the presenter; empty uses the account default.
	AvatarID string
	// Language is the voice language hint, e.g. "en".
	Language string
	// AspectRatio is the output frame ratio, e.g. "9:16".
	AspectRatio string
	// ContinueFrom is the URL of a previously rendered segment; when set,
	// the new segment keeps the same presenter, framing, and background.
	ContinueFrom string
}

// videoRequest is the request body for POST /v2/videos.
type videoRequest struct {
	Script       string `json:"script"`
	AvatarID     string `json:"avatar_id,omitempty"`
	Language     string `json:"language,omitempty"`
	AspectRatio  string `json:"aspect_ratio,omitempty"`
	ContinueFrom string `json:"continue_from,omitempty"`
}

// videoResponse is the response body from POST /v2/videos.
type videoResponse struct {
	VideoID string `json:"video_id"`
	Error   string `json:"error,omitempty"`
}

// videoStatusResponse is the response body from GET /v2/videos/{id}.
type videoStatusResponse struct {
	VideoID  string `json:"video_id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// VideoResult contains the normalized result of checking a video job.
type VideoResult struct {
	Status VideoStatus
	// VideoURL is the artifact download URL (only set when Status is StatusCompleted).
	VideoURL string
	// Error is the failure message (only set when Status is StatusFailed).
	Error string
}
