// Package planner turns a generation request into an ordered list of scene
// descriptors. The first scene establishes the shot; every following scene
// extends the previous one, so instruction text and time ranges are fixed
// up front while continuity inputs are resolved at execution time.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/promoforge/videochain-api/internal/provider"
	"github.com/promoforge/videochain-api/internal/scriptgen"
)

// Clip-length constants for the short-form tier. The base clip and each
// extension clip have fixed provider-side lengths; durations above the
// chaining ceiling go to the extended tier as a single scene.
const (
	// BaseClipSec is the fixed length of the first (base) clip.
	BaseClipSec = 8
	// ExtensionClipSec is the fixed length of every extension clip.
	ExtensionClipSec = 7
	// MaxExtensions caps the number of extension clips per chain.
	MaxExtensions = 20
	// MaxChainedSec is the longest duration the chained short-form tier
	// can produce: 8 + 20*7.
	MaxChainedSec = BaseClipSec + MaxExtensions*ExtensionClipSec
	// WordsPerSecond estimates spoken pace for partitioning scripts
	// across scenes.
	WordsPerSecond = 2.2
)

// Mode selects between faceless b-roll style generation and an avatar
// presenter speaking a script.
type Mode string

const (
	ModeFaceless Mode = "faceless"
	ModeAvatar   Mode = "avatar"
)

// IsValid returns true if the mode is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeFaceless || m == ModeAvatar
}

// Static errors for planning.
var (
	// ErrInvalidDuration is returned for a non-positive target duration.
	ErrInvalidDuration = errors.New("planner: target duration must be positive")
	// ErrInvalidMode is returned for an unknown generation mode.
	ErrInvalidMode = errors.New("planner: unknown mode")
	// ErrScriptRequired is returned when an avatar request needs an
	// auto-generated script but no script generator is configured.
	ErrScriptRequired = errors.New("planner: avatar mode needs a script and no script generator is configured")
)

// Request is the read-only input to planning.
type Request struct {
	// Mode selects faceless or avatar generation.
	Mode Mode
	// TargetDurationSec is the requested total video length.
	TargetDurationSec int
	// Prompt is the caller's base prompt (faceless) or spoken script
	// (avatar). For avatar requests with AutoScript set it is treated as a
	// topic brief and expanded into a script.
	Prompt string
	// AutoScript asks the planner to write the avatar script from the
	// prompt via the text-generation collaborator.
	AutoScript bool
	// AspectRatio is the target frame ratio, e.g. "9:16".
	AspectRatio string
	// Language is the script/voice language hint.
	Language string
}

// SceneDescriptor is one fixed-length unit of the planned video.
// Ordinals are contiguous from 0; only ordinal 0 is a base scene.
type SceneDescriptor struct {
	Ordinal     int
	StartSec    int
	EndSec      int
	Instruction string
	IsBase      bool
	Tier        provider.Tier
}

// DurationSec returns the declared clip length of the scene.
func (s SceneDescriptor) DurationSec() int {
	return s.EndSec - s.StartSec
}

// Planner builds scene plans.
type Planner struct {
	scripts scriptgen.Generator
	logger  *slog.Logger
}

// New creates a Planner. scripts may be nil when avatar auto-scripting is
// not needed.
func New(scripts scriptgen.Generator, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{scripts: scripts, logger: logger}
}

// Plan turns a request into an ordered, immutable list of scene descriptors.
//
// Durations up to BaseClipSec produce a single base scene. Longer durations
// produce a base clip plus ceil((d-8)/7) extensions, capped at MaxExtensions.
// Anything beyond MaxChainedSec becomes a single extended-tier scene whose
// provider handles long-form synthesis internally.
func (p *Planner) Plan(ctx context.Context, req Request) ([]SceneDescriptor, error) {
	if req.TargetDurationSec <= 0 {
		return nil, ErrInvalidDuration
	}
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}

	script := req.Prompt
	if req.Mode == ModeAvatar && req.AutoScript {
		generated, err := p.generateScript(ctx, req)
		if err != nil {
			return nil, err
		}
		script = generated
	}

	if req.TargetDurationSec > MaxChainedSec {
		p.logger.Info("duration above chaining ceiling, using extended tier",
			slog.Int("target_sec", req.TargetDurationSec),
			slog.Int("ceiling_sec", MaxChainedSec),
		)
		return []SceneDescriptor{{
			Ordinal:     0,
			StartSec:    0,
			EndSec:      req.TargetDurationSec,
			Instruction: baseInstruction(req.Mode, script),
			IsBase:      true,
			Tier:        provider.TierExtended,
		}}, nil
	}

	tier := provider.TierShortForm
	if req.Mode == ModeAvatar {
		tier = provider.TierAvatar
	}

	if req.TargetDurationSec <= BaseClipSec {
		return []SceneDescriptor{{
			Ordinal:     0,
			StartSec:    0,
			EndSec:      req.TargetDurationSec,
			Instruction: baseInstruction(req.Mode, script),
			IsBase:      true,
			Tier:        tier,
		}}, nil
	}

	extensions := int(math.Ceil(float64(req.TargetDurationSec-BaseClipSec) / float64(ExtensionClipSec)))
	if extensions > MaxExtensions {
		extensions = MaxExtensions
	}

	var slices []string
	if req.Mode == ModeAvatar {
		slices = partitionScript(script, extensions)
	}

	scenes := make([]SceneDescriptor, 0, 1+extensions)

	base := SceneDescriptor{
		Ordinal:  0,
		StartSec: 0,
		EndSec:   BaseClipSec,
		IsBase:   true,
		Tier:     tier,
	}
	if req.Mode == ModeAvatar {
		base.Instruction = baseInstruction(req.Mode, slices[0])
	} else {
		base.Instruction = baseInstruction(req.Mode, script)
	}
	scenes = append(scenes, base)

	for i := 1; i <= extensions; i++ {
		start := BaseClipSec + (i-1)*ExtensionClipSec
		scene := SceneDescriptor{
			Ordinal:  i,
			StartSec: start,
			EndSec:   start + ExtensionClipSec,
			Tier:     tier,
		}
		var slice string
		if req.Mode == ModeAvatar {
			slice = slices[i]
		}
		scene.Instruction = extensionInstruction(req.Mode, i, scene.StartSec, scene.EndSec, slice)
		scenes = append(scenes, scene)
	}

	p.logger.Info("scene plan built",
		slog.String("mode", string(req.Mode)),
		slog.Int("target_sec", req.TargetDurationSec),
		slog.Int("scenes", len(scenes)),
	)

	return scenes, nil
}

// generateScript asks the text-generation collaborator for a spoken script
// sized to the target duration.
func (p *Planner) generateScript(ctx context.Context, req Request) (string, error) {
	if p.scripts == nil {
		return "", ErrScriptRequired
	}

	targetWords := int(math.Round(float64(req.TargetDurationSec) * WordsPerSecond))
	script, err := p.scripts.Script(ctx, scriptgen.Brief{
		Topic:       req.Prompt,
		Language:    req.Language,
		TargetWords: targetWords,
	})
	if err != nil {
		return "", fmt.Errorf("planner: generate script: %w", err)
	}

	p.logger.Info("avatar script generated",
		slog.Int("target_words", targetWords),
		slog.Int("actual_words", len(strings.Fields(script))),
	)
	return script, nil
}
