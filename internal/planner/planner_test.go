package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoforge/videochain-api/internal/provider"
	"github.com/promoforge/videochain-api/internal/scriptgen"
)

// stubGenerator returns a fixed script.
type stubGenerator struct {
	script string
	err    error
	brief  scriptgen.Brief
}

func (s *stubGenerator) Script(_ context.Context, brief scriptgen.Brief) (string, error) {
	s.brief = brief
	return s.script, s.err
}

func TestPlan_InvalidDuration(t *testing.T) {
	p := New(nil, nil)

	for _, d := range []int{0, -1, -100} {
		_, err := p.Plan(context.Background(), Request{Mode: ModeFaceless, TargetDurationSec: d})
		assert.ErrorIs(t, err, ErrInvalidDuration, "duration %d", d)
	}
}

func TestPlan_InvalidMode(t *testing.T) {
	p := New(nil, nil)

	_, err := p.Plan(context.Background(), Request{Mode: "cinematic", TargetDurationSec: 10})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestPlan_SingleBaseScene(t *testing.T) {
	p := New(nil, nil)

	for _, d := range []int{1, 4, 8} {
		t.Run(fmt.Sprintf("%ds", d), func(t *testing.T) {
			scenes, err := p.Plan(context.Background(), Request{
				Mode:              ModeFaceless,
				TargetDurationSec: d,
				Prompt:            "a forest stream",
			})
			require.NoError(t, err)
			require.Len(t, scenes, 1)
			assert.Equal(t, 0, scenes[0].Ordinal)
			assert.Equal(t, 0, scenes[0].StartSec)
			assert.Equal(t, d, scenes[0].EndSec)
			assert.True(t, scenes[0].IsBase)
			assert.Equal(t, provider.TierShortForm, scenes[0].Tier)
		})
	}
}

func TestPlan_SceneCounts(t *testing.T) {
	p := New(nil, nil)

	tests := []struct {
		targetSec int
		scenes    int
	}{
		{9, 2},    // base + 1 extension
		{15, 2},   // 8 + 7 exactly
		{16, 3},   // 8 + 7 + partial second extension
		{22, 3},   // 8 + 7 + 7 exactly
		{60, 9},   // base + ceil(52/7) = 8 extensions
		{148, 21}, // base + 20 extensions, the chaining ceiling
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%ds", tt.targetSec), func(t *testing.T) {
			scenes, err := p.Plan(context.Background(), Request{
				Mode:              ModeFaceless,
				TargetDurationSec: tt.targetSec,
				Prompt:            "a forest stream",
			})
			require.NoError(t, err)
			assert.Len(t, scenes, tt.scenes)
		})
	}
}

func TestPlan_SceneTimeRanges(t *testing.T) {
	p := New(nil, nil)

	scenes, err := p.Plan(context.Background(), Request{
		Mode:              ModeFaceless,
		TargetDurationSec: 22,
		Prompt:            "a forest stream",
	})
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	assert.Equal(t, 0, scenes[0].StartSec)
	assert.Equal(t, 8, scenes[0].EndSec)
	assert.Equal(t, 8, scenes[1].StartSec)
	assert.Equal(t, 15, scenes[1].EndSec)
	assert.Equal(t, 15, scenes[2].StartSec)
	assert.Equal(t, 22, scenes[2].EndSec)

	// Ordinals contiguous from 0, only ordinal 0 is base.
	for i, s := range scenes {
		assert.Equal(t, i, s.Ordinal)
		assert.Equal(t, i == 0, s.IsBase)
	}
}

func TestPlan_AboveCeilingUsesExtendedTier(t *testing.T) {
	p := New(nil, nil)

	for _, d := range []int{149, 300, 900} {
		t.Run(fmt.Sprintf("%ds", d), func(t *testing.T) {
			scenes, err := p.Plan(context.Background(), Request{
				Mode:              ModeFaceless,
				TargetDurationSec: d,
				Prompt:            "a brand story",
			})
			require.NoError(t, err)
			require.Len(t, scenes, 1)
			assert.Equal(t, provider.TierExtended, scenes[0].Tier)
			assert.Equal(t, d, scenes[0].EndSec)
			assert.True(t, scenes[0].IsBase)
		})
	}
}

func TestPlan_CeilingBoundary(t *testing.T) {
	p := New(nil, nil)

	// Exactly at the ceiling the chained tier still applies.
	scenes, err := p.Plan(context.Background(), Request{
		Mode:              ModeFaceless,
		TargetDurationSec: MaxChainedSec,
		Prompt:            "a forest stream",
	})
	require.NoError(t, err)
	assert.Len(t, scenes, 1+MaxExtensions)
	assert.Equal(t, provider.TierShortForm, scenes[0].Tier)
}

func TestPlan_FacelessInstructions(t *testing.T) {
	p := New(nil, nil)

	scenes, err := p.Plan(context.Background(), Request{
		Mode:              ModeFaceless,
		TargetDurationSec: 22,
		Prompt:            "a mechanical watch being assembled",
	})
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	// Base carries the caller's prompt and the style boilerplate with the
	// no-humans constraint.
	assert.Contains(t, scenes[0].Instruction, "a mechanical watch being assembled")
	assert.Contains(t, scenes[0].Instruction, "no people, faces, or humans")

	// Extensions restate continuity, the time range, and the no-humans
	// constraint.
	for _, s := range scenes[1:] {
		assert.Contains(t, s.Instruction, "Continuation of the same shot")
		assert.Contains(t, s.Instruction,
			fmt.Sprintf("seconds %d to %d", s.StartSec, s.EndSec))
		assert.Contains(t, s.Instruction, "no people, faces, or humans")
	}
}

func TestPlan_CameraVariationsRotate(t *testing.T) {
	p := New(nil, nil)

	// 148s gives 20 extensions, enough to wrap the variation list.
	scenes, err := p.Plan(context.Background(), Request{
		Mode:              ModeFaceless,
		TargetDurationSec: 148,
		Prompt:            "a city timelapse",
	})
	require.NoError(t, err)
	require.Len(t, scenes, 21)

	n := len(facelessVariations)
	for i := 1; i < len(scenes); i++ {
		want := facelessVariations[(i-1)%n]
		assert.Contains(t, scenes[i].Instruction, want, "extension %d", i)
	}

	// Consecutive extensions never repeat the same variation.
	for i := 2; i < len(scenes); i++ {
		assert.NotEqual(t,
			variationFor(ModeFaceless, i-1),
			variationFor(ModeFaceless, i),
		)
	}
}

func TestPlan_AvatarScriptPartition(t *testing.T) {
	p := New(nil, nil)

	words := make([]string, 60)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	script := strings.Join(words, " ")

	// 22s avatar: base + 2 extensions.
	scenes, err := p.Plan(context.Background(), Request{
		Mode:              ModeAvatar,
		TargetDurationSec: 22,
		Prompt:            script,
	})
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	for _, s := range scenes {
		assert.Equal(t, provider.TierAvatar, s.Tier)
	}

	// The base scene speaks the first 18 words (8s at 2.2 words/sec).
	assert.Contains(t, scenes[0].Instruction, "w0")
	assert.Contains(t, scenes[0].Instruction, "w17")
	assert.NotContains(t, scenes[0].Instruction, "w18 ")

	// The first extension speaks the next 15 words.
	assert.Contains(t, scenes[1].Instruction, "w18")
	assert.Contains(t, scenes[1].Instruction, "w32")

	// The last extension absorbs the remainder.
	assert.Contains(t, scenes[2].Instruction, "w33")
	assert.Contains(t, scenes[2].Instruction, "w59")
}

func TestPlan_AvatarAutoScript(t *testing.T) {
	gen := &stubGenerator{script: "This is the generated spoken script for the video."}
	p := New(gen, nil)

	scenes, err := p.Plan(context.Background(), Request{
		Mode:              ModeAvatar,
		TargetDurationSec: 8,
		Prompt:            "the history of espresso",
		AutoScript:        true,
		Language:          "en",
	})
	require.NoError(t, err)
	require.Len(t, scenes, 1)

	assert.Contains(t, scenes[0].Instruction, "generated spoken script")
	assert.Equal(t, "the history of espresso", gen.brief.Topic)
	assert.Equal(t, "en", gen.brief.Language)
	// 8s at 2.2 words/sec rounds to 18 words.
	assert.Equal(t, 18, gen.brief.TargetWords)
}

func TestPlan_AvatarAutoScript_NoGenerator(t *testing.T) {
	p := New(nil, nil)

	_, err := p.Plan(context.Background(), Request{
		Mode:              ModeAvatar,
		TargetDurationSec: 8,
		Prompt:            "the history of espresso",
		AutoScript:        true,
	})
	assert.ErrorIs(t, err, ErrScriptRequired)
}

func TestPlan_AvatarAutoScript_GeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("all backends failed")}
	p := New(gen, nil)

	_, err := p.Plan(context.Background(), Request{
		Mode:              ModeAvatar,
		TargetDurationSec: 8,
		Prompt:            "the history of espresso",
		AutoScript:        true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all backends failed")
}

func TestSceneDescriptor_DurationSec(t *testing.T) {
	s := SceneDescriptor{StartSec: 8, EndSec: 15}
	assert.Equal(t, 7, s.DurationSec())
}

func TestMode_IsValid(t *testing.T) {
	assert.True(t, ModeFaceless.IsValid())
	assert.True(t, ModeAvatar.IsValid())
	assert.False(t, Mode("").IsValid())
	assert.False(t, Mode("cinematic").IsValid())
}
