package chain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoforge/videochain-api/internal/planner"
	"github.com/promoforge/videochain-api/internal/poller"
	"github.com/promoforge/videochain-api/internal/provider"
)

func testExecutor() *Executor {
	return NewExecutor(testCoordinator(), nil)
}

func threeScenes() []planner.SceneDescriptor {
	return []planner.SceneDescriptor{
		{Ordinal: 0, StartSec: 0, EndSec: 8, Instruction: "base", IsBase: true, Tier: provider.TierShortForm},
		{Ordinal: 1, StartSec: 8, EndSec: 15, Instruction: "ext 1", Tier: provider.TierShortForm},
		{Ordinal: 2, StartSec: 15, EndSec: 22, Instruction: "ext 2", Tier: provider.TierShortForm},
	}
}

// sequenceClient completes each submission with a ref derived from the scene
// ordinal so continuity threading is observable.
type sequenceClient struct {
	fakeClient
	failOrdinal int
}

func newSequenceClient(failOrdinal int) *sequenceClient {
	return &sequenceClient{
		fakeClient:  fakeClient{name: "seq"},
		failOrdinal: failOrdinal,
	}
}

func (s *sequenceClient) Submit(ctx context.Context, req provider.SubmitRequest) (string, error) {
	s.submits = append(s.submits, req)
	return "job", nil
}

func (s *sequenceClient) Status(context.Context, string) (provider.StatusResult, error) {
	ordinal := len(s.submits) - 1
	if s.failOrdinal >= 0 && ordinal == s.failOrdinal {
		return provider.StatusResult{Status: provider.StatusFailed, Error: "render crashed"}, nil
	}
	ref := refFor(ordinal)
	return provider.StatusResult{Status: provider.StatusCompleted, ArtifactRef: ref}, nil
}

func refFor(ordinal int) string {
	return map[int]string{
		0: "https://cdn.example.com/scene0.mp4",
		1: "https://cdn.example.com/scene1.mp4",
		2: "https://cdn.example.com/scene2.mp4",
	}[ordinal]
}

func TestRun_AllScenesComplete(t *testing.T) {
	e := testExecutor()
	client := newSequenceClient(-1)

	result := e.Run(context.Background(), threeScenes(), RunOptions{
		Clients: []provider.Client{client},
	})

	assert.Equal(t, ChainCompleted, result.Status)
	assert.Equal(t, 3, result.ScenesCompleted)
	assert.Equal(t, 0, result.ScenesFailed)
	assert.Equal(t, 22, result.TotalDurationSec)
	assert.Equal(t, refFor(2), result.FinalArtifactRef)
	assert.False(t, result.Cancelled)
	require.Len(t, result.PerSceneOutcomes, 3)
}

func TestRun_ContinuityThreading(t *testing.T) {
	e := testExecutor()
	client := newSequenceClient(-1)

	e.Run(context.Background(), threeScenes(), RunOptions{
		Clients: []provider.Client{client},
	})

	require.Len(t, client.submits, 3)
	// Base scene has no continuity input.
	assert.Empty(t, client.submits[0].ContinuityRef)
	// Each extension continues from the previous scene's artifact.
	assert.Equal(t, refFor(0), client.submits[1].ContinuityRef)
	assert.Equal(t, refFor(1), client.submits[2].ContinuityRef)
}

func TestRun_ShortCircuitsOnFailure(t *testing.T) {
	e := testExecutor()
	client := newSequenceClient(1) // scene 1 fails after scene 0 completes

	result := e.Run(context.Background(), threeScenes(), RunOptions{
		Clients: []provider.Client{client},
	})

	assert.Equal(t, ChainPartial, result.Status)
	assert.Equal(t, 1, result.ScenesCompleted)
	assert.Equal(t, 1, result.ScenesFailed)
	assert.Equal(t, 8, result.TotalDurationSec)
	// The last good artifact survives the failure.
	assert.Equal(t, refFor(0), result.FinalArtifactRef)
	// Scene 2 was never attempted.
	require.Len(t, result.PerSceneOutcomes, 2)
	assert.Len(t, client.submits, 2)
}

func TestRun_BaseSceneFails(t *testing.T) {
	e := testExecutor()
	client := newSequenceClient(0)

	result := e.Run(context.Background(), threeScenes(), RunOptions{
		Clients: []provider.Client{client},
	})

	assert.Equal(t, ChainPartial, result.Status)
	assert.Equal(t, 0, result.ScenesCompleted)
	assert.Empty(t, result.FinalArtifactRef)
	require.Len(t, result.PerSceneOutcomes, 1)
}

func TestRun_Cancelled(t *testing.T) {
	e := testExecutor()
	client := newSequenceClient(-1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Run(ctx, threeScenes(), RunOptions{
		Clients: []provider.Client{client},
	})

	assert.Equal(t, ChainPartial, result.Status)
	assert.True(t, result.Cancelled)
	assert.Equal(t, 0, result.ScenesCompleted)
}

// holdClient completes its first scene, then keeps every later scene
// pending so a run can be cancelled while polling.
type holdClient struct {
	mu           sync.Mutex
	submits      []provider.SubmitRequest
	sceneStarted chan int
}

func (h *holdClient) Name() string        { return "hold" }
func (h *holdClient) Tier() provider.Tier { return provider.TierShortForm }

func (h *holdClient) Submit(_ context.Context, req provider.SubmitRequest) (string, error) {
	h.mu.Lock()
	ordinal := len(h.submits)
	h.submits = append(h.submits, req)
	h.mu.Unlock()
	h.sceneStarted <- ordinal
	return "job", nil
}

func (h *holdClient) Status(context.Context, string) (provider.StatusResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.submits) == 1 {
		return provider.StatusResult{Status: provider.StatusCompleted, ArtifactRef: refFor(0)}, nil
	}
	return provider.StatusResult{Status: provider.StatusPending}, nil
}

func TestRun_CancelMidChain(t *testing.T) {
	budgets := func(provider.Tier) poller.Budget {
		return poller.Budget{Interval: 5 * time.Millisecond, MaxAttempts: 10000}
	}
	e := NewExecutor(NewCoordinator(poller.New(nil), budgets, nil), nil)
	client := &holdClient{sceneStarted: make(chan int, 4)}

	scenes := []planner.SceneDescriptor{
		{Ordinal: 0, StartSec: 0, EndSec: 8, Instruction: "base", IsBase: true, Tier: provider.TierShortForm},
		{Ordinal: 1, StartSec: 8, EndSec: 15, Instruction: "ext 1", Tier: provider.TierShortForm},
		{Ordinal: 2, StartSec: 15, EndSec: 22, Instruction: "ext 2", Tier: provider.TierShortForm},
		{Ordinal: 3, StartSec: 22, EndSec: 29, Instruction: "ext 3", Tier: provider.TierShortForm},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan ChainResult, 1)
	go func() {
		done <- e.Run(ctx, scenes, RunOptions{Clients: []provider.Client{client}})
	}()

	// Scene 0 completes; scene 1 submits and stalls in polling.
	require.Equal(t, 0, <-client.sceneStarted)
	require.Equal(t, 1, <-client.sceneStarted)
	cancel()

	var result ChainResult
	select {
	case result = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	assert.Equal(t, ChainPartial, result.Status)
	assert.True(t, result.Cancelled)
	assert.Equal(t, 1, result.ScenesCompleted)
	require.Len(t, result.PerSceneOutcomes, 2)
	assert.Equal(t, StateCompleted, result.PerSceneOutcomes[0].State)
	assert.Equal(t, StateCancelled, result.PerSceneOutcomes[1].State)
	// Scenes 2 and 3 were never submitted.
	assert.Len(t, client.submits, 2)
}

func TestRun_NoScenes(t *testing.T) {
	e := testExecutor()

	result := e.Run(context.Background(), nil, RunOptions{
		Clients: []provider.Client{newSequenceClient(-1)},
	})

	assert.Equal(t, ChainPartial, result.Status)
	assert.Equal(t, 0, result.ScenesCompleted)
	assert.Empty(t, result.FinalArtifactRef)
}

func TestRun_ProgressEvents(t *testing.T) {
	e := testExecutor()
	client := newSequenceClient(-1)

	var events []ProgressEvent
	result := e.Run(context.Background(), threeScenes(), RunOptions{
		Clients: []provider.Client{client},
		OnProgress: func(ev ProgressEvent) {
			events = append(events, ev)
		},
	})

	assert.Equal(t, ChainCompleted, result.Status)
	// One submitted and one completed event per scene.
	require.Len(t, events, 6)
	assert.Equal(t, StateSubmitted, events[0].State)
	assert.Equal(t, StateCompleted, events[1].State)
	assert.Equal(t, 0, events[0].SceneOrdinal)
	assert.Equal(t, 2, events[5].SceneOrdinal)
}

func TestRun_FallbackVisibleInOutcome(t *testing.T) {
	e := testExecutor()
	primary := rejecting("primary", "quota exceeded")
	backup := newSequenceClient(-1)
	backup.name = "backup"

	result := e.Run(context.Background(), threeScenes(), RunOptions{
		Clients: []provider.Client{primary, backup},
	})

	assert.Equal(t, ChainCompleted, result.Status)
	for _, outcome := range result.PerSceneOutcomes {
		assert.Equal(t, "backup", outcome.Provider)
		assert.Equal(t, []string{"primary", "backup"}, outcome.ProvidersAttempted)
	}
	// Attempt history keeps the rejected attempts alongside the completions.
	assert.Len(t, result.AttemptHistory, 6)
}
