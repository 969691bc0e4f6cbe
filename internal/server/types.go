// Package server provides the HTTP surface for the video generation
// orchestrator. It includes handlers, middleware, routes, and DTOs
// separated from domain types.
package server

// CreateGenerationRequest is the HTTP request body for starting a generation.
type CreateGenerationRequest struct {
	// Mode selects faceless or avatar generation.
	Mode string `json:"mode" validate:"required,oneof=faceless avatar"`
	// TargetDurationSec is the requested total video length in seconds.
	TargetDurationSec int `json:"target_duration_sec" validate:"required,min=1,max=900"`
	// Prompt is the base prompt (faceless), spoken script (avatar), or
	// topic brief (avatar with auto_script).
	Prompt string `json:"prompt" validate:"required"`
	// AutoScript expands the prompt into a spoken script for avatar mode.
	AutoScript bool `json:"auto_script"`
	// AspectRatio is the target frame ratio.
	AspectRatio string `json:"aspect_ratio" validate:"omitempty,oneof=16:9 9:16 1:1"`
	// Language is the script/voice language hint, e.g. "en".
	Language string `json:"language" validate:"omitempty,bcp47_language_tag"`
	// Publish uploads the final artifact to the hosting backend.
	Publish bool `json:"publish"`
}

// CreateGenerationResponse is the HTTP response after starting a generation.
type CreateGenerationResponse struct {
	// ID is the unique identifier for the created generation.
	ID string `json:"id"`
	// Status is the initial generation status.
	Status string `json:"status"`
}

// SceneOutcome is the per-scene progress entry in a generation response.
type SceneOutcome struct {
	// SceneOrdinal is the scene's position in the chain, starting at 0.
	SceneOrdinal int `json:"scene_ordinal"`
	// State is the scene's terminal state.
	State string `json:"state"`
	// Provider is the provider that produced the terminal state.
	Provider string `json:"provider,omitempty"`
	// ProvidersAttempted lists every provider tried for the scene in order.
	ProvidersAttempted []string `json:"providers_attempted,omitempty"`
	// DurationSec is the scene's declared clip length.
	DurationSec int `json:"duration_sec"`
	// Error is the failure message, if any.
	Error string `json:"error,omitempty"`
}

// GenerationResponse is the HTTP response for getting generation details.
type GenerationResponse struct {
	// ID is the unique identifier for the generation.
	ID string `json:"id"`
	// Status is the current generation status.
	Status string `json:"status"`
	// Progress is the percentage of planned scenes completed (0-100).
	Progress int `json:"progress"`
	// ScenesPlanned is the number of scenes in the plan.
	ScenesPlanned int `json:"scenes_planned"`
	// Scenes holds per-scene outcomes ordered by scene ordinal.
	Scenes []SceneOutcome `json:"scenes,omitempty"`
	// TotalDurationSec is the summed length of completed scenes.
	TotalDurationSec int `json:"total_duration_sec"`
	// ArtifactRef is the provider-native reference of the final asset.
	ArtifactRef string `json:"artifact_ref,omitempty"`
	// HostedURL is the durable URL after publishing.
	HostedURL string `json:"hosted_url,omitempty"`
	// Error contains any error message if the generation failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
