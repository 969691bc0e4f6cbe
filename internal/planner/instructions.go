package planner

import (
	"fmt"
	"strings"
)

// Fixed style boilerplate appended to the base scene instruction.
const (
	facelessStyle = "Cinematic product-style footage, smooth camera motion, " +
		"natural lighting, high detail, commercial color grade. " +
		"Hard constraint: no people, faces, or humans."
	avatarStyle = "A single presenter speaking directly to camera in a clean, " +
		"well-lit studio setting, steady eye contact, natural gestures."
)

// noHumans is restated on every faceless scene, base and extensions alike.
const noHumans = "Hard constraint: no people, faces, or humans."

// Camera/composition variation phrases, applied round-robin to extensions
// so consecutive clips do not repeat the same motion. Order matters: the
// phrase for extension i is list[(i-1) mod len].
var facelessVariations = []string{
	"slow dolly-in toward the subject",
	"gentle pan left revealing more of the setting",
	"low angle drifting upward",
	"close-up on a key detail",
	"orbit right around the focal point",
	"pull back to a wide establishing view",
}

var avatarVariations = []string{
	"cut to a slightly tighter framing of the speaker",
	"slow push-in on the speaker",
	"subtle angle change a few degrees to the left",
	"wider framing showing more of the studio",
	"gentle push-out returning to a medium shot",
}

// variationFor returns the deterministic camera variation for an extension
// ordinal.
func variationFor(mode Mode, ordinal int) string {
	list := facelessVariations
	if mode == ModeAvatar {
		list = avatarVariations
	}
	return list[(ordinal-1)%len(list)]
}

// baseInstruction builds the instruction for the base scene (and for the
// single extended-tier scene) from the caller's prompt or script.
func baseInstruction(mode Mode, promptOrScript string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(promptOrScript))
	b.WriteString("\n\n")
	if mode == ModeAvatar {
		b.WriteString(avatarStyle)
	} else {
		b.WriteString(facelessStyle)
	}
	return b.String()
}

// extensionInstruction builds the instruction for extension scene i.
// scriptSlice is empty for faceless mode.
func extensionInstruction(mode Mode, ordinal, startSec, endSec int, scriptSlice string) string {
	var b strings.Builder

	b.WriteString("Continuation of the same shot and subject as the previous clip. ")
	fmt.Fprintf(&b, "This segment covers seconds %d to %d of the video. ", startSec, endSec)

	if mode == ModeAvatar && scriptSlice != "" {
		fmt.Fprintf(&b, "The presenter says: %q ", scriptSlice)
	}

	fmt.Fprintf(&b, "Camera: %s.", variationFor(mode, ordinal))

	if mode == ModeFaceless {
		b.WriteString(" ")
		b.WriteString(noHumans)
	}

	return b.String()
}
