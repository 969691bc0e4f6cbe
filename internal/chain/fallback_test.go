package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoforge/videochain-api/internal/poller"
	"github.com/promoforge/videochain-api/internal/provider"
)

// fakeClient is a configurable provider client for coordinator tests.
type fakeClient struct {
	name        string
	rejectWith  error
	finalStatus provider.StatusResult
	pendingFor  int
	neverDone   bool

	submits []provider.SubmitRequest
	checks  int
}

func (f *fakeClient) Name() string        { return f.name }
func (f *fakeClient) Tier() provider.Tier { return provider.TierShortForm }

func (f *fakeClient) Submit(_ context.Context, req provider.SubmitRequest) (string, error) {
	if f.rejectWith != nil {
		return "", fmt.Errorf("%w: %s", provider.ErrRejected, f.rejectWith)
	}
	f.submits = append(f.submits, req)
	return f.name + "-job", nil
}

func (f *fakeClient) Status(context.Context, string) (provider.StatusResult, error) {
	f.checks++
	if f.neverDone || f.checks <= f.pendingFor {
		return provider.StatusResult{Status: provider.StatusPending}, nil
	}
	return f.finalStatus, nil
}

func testCoordinator() *Coordinator {
	budgets := func(provider.Tier) poller.Budget {
		return poller.Budget{Interval: time.Millisecond, MaxAttempts: 5}
	}
	return NewCoordinator(poller.New(nil), budgets, nil)
}

func completing(name, ref string) *fakeClient {
	return &fakeClient{
		name:        name,
		finalStatus: provider.StatusResult{Status: provider.StatusCompleted, ArtifactRef: ref},
	}
}

func failing(name, msg string) *fakeClient {
	return &fakeClient{
		name:        name,
		finalStatus: provider.StatusResult{Status: provider.StatusFailed, Error: msg},
	}
}

func rejecting(name, msg string) *fakeClient {
	return &fakeClient{name: name, rejectWith: errors.New(msg)}
}

func TestGenerateScene_NoProviders(t *testing.T) {
	c := testCoordinator()

	job, history := c.GenerateScene(context.Background(), SceneInput{Ordinal: 0}, nil)
	assert.Equal(t, StateFailed, job.State)
	assert.Contains(t, job.Error, "no providers")
	assert.Len(t, history, 1)
}

func TestGenerateScene_FirstProviderSucceeds(t *testing.T) {
	c := testCoordinator()
	primary := completing("primary", "https://cdn.example.com/clip.mp4")
	backup := completing("backup", "unused")

	job, history := c.GenerateScene(context.Background(), SceneInput{
		Ordinal:     0,
		Instruction: "a forest stream",
		DurationSec: 8,
	}, []provider.Client{primary, backup})

	assert.Equal(t, StateCompleted, job.State)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", job.ArtifactRef)
	assert.Equal(t, "primary", job.Provider)
	assert.Equal(t, []string{"primary"}, job.ProvidersAttempted)
	assert.Len(t, history, 1)
	assert.Empty(t, backup.submits, "backup never tried")
}

func TestGenerateScene_FallsBackOnRejection(t *testing.T) {
	c := testCoordinator()
	primary := rejecting("primary", "quota exceeded")
	backup := completing("backup", "https://cdn.example.com/clip.mp4")

	job, history := c.GenerateScene(context.Background(), SceneInput{
		Ordinal:     1,
		Instruction: "continuation",
		DurationSec: 7,
	}, []provider.Client{primary, backup})

	assert.Equal(t, StateCompleted, job.State)
	assert.Equal(t, "backup", job.Provider)
	assert.Equal(t, []string{"primary", "backup"}, job.ProvidersAttempted)
	require.Len(t, history, 2)
	assert.Equal(t, StateFailed, history[0].State)
	assert.Contains(t, history[0].Error, "quota exceeded")
}

func TestGenerateScene_FallsBackOnFailure(t *testing.T) {
	c := testCoordinator()
	primary := failing("primary", "render crashed")
	backup := completing("backup", "ref")

	job, _ := c.GenerateScene(context.Background(), SceneInput{Ordinal: 0, DurationSec: 8},
		[]provider.Client{primary, backup})

	assert.Equal(t, StateCompleted, job.State)
	assert.Equal(t, "backup", job.Provider)
}

func TestGenerateScene_FallsBackOnTimeout(t *testing.T) {
	c := testCoordinator()
	primary := &fakeClient{name: "primary", neverDone: true}
	backup := completing("backup", "ref")

	job, history := c.GenerateScene(context.Background(), SceneInput{Ordinal: 0, DurationSec: 8},
		[]provider.Client{primary, backup})

	assert.Equal(t, StateCompleted, job.State)
	assert.Equal(t, "backup", job.Provider)
	require.Len(t, history, 2)
	assert.Equal(t, StateTimedOut, history[0].State)
	assert.Equal(t, 5, history[0].PollAttempts)
}

func TestGenerateScene_AllProvidersExhausted(t *testing.T) {
	c := testCoordinator()
	a := rejecting("a", "quota exceeded")
	b := failing("b", "render crashed")

	job, history := c.GenerateScene(context.Background(), SceneInput{Ordinal: 2, DurationSec: 7},
		[]provider.Client{a, b})

	assert.Equal(t, StateFailed, job.State)
	assert.Empty(t, job.Provider)
	assert.Equal(t, []string{"a", "b"}, job.ProvidersAttempted)
	assert.Contains(t, job.Error, "a:")
	assert.Contains(t, job.Error, "quota exceeded")
	assert.Contains(t, job.Error, "b:")
	assert.Contains(t, job.Error, "render crashed")
	// Two failed attempts plus the aggregate record.
	assert.Len(t, history, 3)
}

func TestGenerateScene_CancelledStopsFallback(t *testing.T) {
	c := testCoordinator()
	primary := &fakeClient{name: "primary", neverDone: true}
	backup := completing("backup", "ref")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, _ := c.GenerateScene(ctx, SceneInput{Ordinal: 0, DurationSec: 8},
		[]provider.Client{primary, backup})

	assert.Equal(t, StateCancelled, job.State)
	assert.Empty(t, backup.submits, "no provider tried after cancellation")
}

func TestGenerateScene_PassesContinuityRef(t *testing.T) {
	c := testCoordinator()
	primary := completing("primary", "ref")

	_, _ = c.GenerateScene(context.Background(), SceneInput{
		Ordinal:       3,
		Instruction:   "continuation",
		DurationSec:   7,
		ContinuityRef: "https://cdn.example.com/scene2.mp4",
		AspectRatio:   "16:9",
		Language:      "en",
	}, []provider.Client{primary})

	require.Len(t, primary.submits, 1)
	req := primary.submits[0]
	assert.Equal(t, "https://cdn.example.com/scene2.mp4", req.ContinuityRef)
	assert.Equal(t, "16:9", req.AspectRatio)
	assert.Equal(t, "en", req.Language)
	assert.Equal(t, 7, req.DurationSec)
}
