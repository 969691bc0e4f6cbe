package planner

import (
	"math"
	"strings"
)

// Words allotted per scene at the estimated spoken pace.
var (
	baseSliceWords      = int(math.Round(BaseClipSec * WordsPerSecond))
	extensionSliceWords = int(math.Round(ExtensionClipSec * WordsPerSecond))
)

// partitionScript splits a script into 1+extensions slices in original word
// order: the base slice covers the base clip's speaking time, each extension
// slice covers one extension clip. The final extension absorbs any leftover
// words so nothing the caller wrote is dropped; a short script yields empty
// trailing slices.
func partitionScript(script string, extensions int) []string {
	words := strings.Fields(script)
	slices := make([]string, 0, 1+extensions)

	pos := 0
	take := func(n int) string {
		if pos >= len(words) {
			return ""
		}
		end := pos + n
		if end > len(words) {
			end = len(words)
		}
		slice := strings.Join(words[pos:end], " ")
		pos = end
		return slice
	}

	slices = append(slices, take(baseSliceWords))
	for i := 1; i <= extensions; i++ {
		if i == extensions {
			// Remainder goes to the last extension.
			slices = append(slices, take(len(words)-pos))
			break
		}
		slices = append(slices, take(extensionSliceWords))
	}

	return slices
}
