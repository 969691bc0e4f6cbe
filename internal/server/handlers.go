package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/promoforge/videochain-api/internal/generation"
	"github.com/promoforge/videochain-api/internal/planner"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service        *generation.Service
	validator      *validator.Validate
	logger         *slog.Logger
	enableAsyncRun bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncRun enables or disables background chain execution.
// When disabled, CreateGeneration only creates the generation and returns
// immediately without running it; tests use this to drive runs explicitly.
func WithAsyncRun(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncRun = enabled
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *generation.Service, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:        service,
		validator:      validator.New(),
		logger:         logger,
		enableAsyncRun: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateGeneration handles POST /generations requests.
func (h *Handlers) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	var req CreateGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	input := generation.Request{
		Mode:              planner.Mode(req.Mode),
		TargetDurationSec: req.TargetDurationSec,
		Prompt:            req.Prompt,
		AutoScript:        req.AutoScript,
		AspectRatio:       req.AspectRatio,
		Language:          req.Language,
		Publish:           req.Publish,
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidDuration) || errors.Is(err, planner.ErrInvalidMode) {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
			return
		}
		h.logger.Error("failed to create generation",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create generation", "GENERATION_CREATE_FAILED")
		return
	}

	// Run the chain in the background with a detached context so the
	// request ending does not cancel the chain.
	if h.enableAsyncRun {
		go func(ctx context.Context, id string) {
			if _, runErr := h.service.Run(ctx, id); runErr != nil {
				h.logger.Error("background generation failed",
					slog.String("generation_id", id),
					slog.String("error", runErr.Error()),
				)
			}
		}(context.WithoutCancel(r.Context()), created.ID)
	}

	h.logger.Info("generation accepted",
		slog.String("generation_id", created.ID),
		slog.String("mode", req.Mode),
		slog.Int("target_sec", req.TargetDurationSec),
	)

	writeJSON(w, http.StatusAccepted, CreateGenerationResponse{
		ID:     created.ID,
		Status: string(created.Status),
	})
}

// GetGeneration handles GET /generations/{id} requests.
func (h *Handlers) GetGeneration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "generation ID is required", "MISSING_GENERATION_ID")
		return
	}

	gen, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, generation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "generation not found", "GENERATION_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get generation",
			slog.String("generation_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get generation", "GENERATION_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResponse(gen))
}

// CancelGeneration handles DELETE /generations/{id} requests. It aborts a
// running chain; the generation settles as CANCELLED with the outcomes
// gathered so far.
func (h *Handlers) CancelGeneration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "generation ID is required", "MISSING_GENERATION_ID")
		return
	}

	if _, err := h.service.Get(r.Context(), id); err != nil {
		if errors.Is(err, generation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "generation not found", "GENERATION_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get generation", "GENERATION_FETCH_FAILED")
		return
	}

	if !h.service.Cancel(id) {
		writeError(w, http.StatusConflict, "generation is not running", "GENERATION_NOT_RUNNING")
		return
	}

	h.logger.Info("generation cancelled",
		slog.String("generation_id", id),
	)
	w.WriteHeader(http.StatusAccepted)
}

// toGenerationResponse maps the aggregate to its HTTP representation.
func toGenerationResponse(gen *generation.Generation) GenerationResponse {
	resp := GenerationResponse{
		ID:               gen.ID,
		Status:           string(gen.Status),
		Progress:         gen.Progress,
		ScenesPlanned:    gen.ScenesPlanned,
		TotalDurationSec: gen.TotalDurationSec,
		ArtifactRef:      gen.FinalArtifactRef,
		HostedURL:        gen.HostedURL,
		Error:            gen.Error,
	}
	for _, s := range gen.Scenes {
		resp.Scenes = append(resp.Scenes, SceneOutcome{
			SceneOrdinal:       s.SceneOrdinal,
			State:              string(s.State),
			Provider:           s.Provider,
			ProvidersAttempted: s.ProvidersAttempted,
			DurationSec:        s.DurationSec,
			Error:              s.Error,
		})
	}
	return resp
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
