// Package scriptgen generates spoken video scripts from a content brief.
// It is used by the scene planner when an avatar request arrives with a
// topic instead of a finished script.
package scriptgen

import (
	"context"
	"errors"
	"fmt"
)

// Static errors for script generation.
var (
	// ErrEmptyTopic is returned when the brief has no topic to write about.
	ErrEmptyTopic = errors.New("scriptgen: topic is required")
	// ErrNoBackends is returned when no generation backend is configured.
	ErrNoBackends = errors.New("scriptgen: no backends configured")
	// ErrEmptyScript is returned when a backend produced no usable text.
	ErrEmptyScript = errors.New("scriptgen: backend returned empty script")
)

// Brief describes the script to write.
type Brief struct {
	// Topic is what the video is about, in the caller's words.
	Topic string
	// Language is the language the script should be written in, e.g. "en".
	Language string
	// TargetWords sizes the script to the planned video duration.
	TargetWords int
}

// Generator writes a spoken script from a brief.
type Generator interface {
	Script(ctx context.Context, brief Brief) (string, error)
}

// prompt renders the brief into the instruction sent to a model.
func prompt(brief Brief) string {
	lang := brief.Language
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf(
		"Write a spoken marketing video script about the following topic. "+
			"Target length: about %d words. Language: %s. "+
			"Plain spoken sentences only, no stage directions, no headings, "+
			"no emojis.\n\nTopic: %s",
		brief.TargetWords, lang, brief.Topic,
	)
}

const systemInstruction = "You are a marketing video script writer. Write natural spoken-word scripts that fit the requested length. Output only the script text."
