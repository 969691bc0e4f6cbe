package scriptgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	script string
	err    error
	calls  int
}

func (s *stubBackend) Script(context.Context, Brief) (string, error) {
	s.calls++
	return s.script, s.err
}

func TestMulti_NoBackends(t *testing.T) {
	m := NewMulti(nil, nil)

	_, err := m.Script(context.Background(), Brief{Topic: "coffee"})
	assert.ErrorIs(t, err, ErrNoBackends)
}

func TestMulti_FirstBackendWins(t *testing.T) {
	first := &stubBackend{script: "first script"}
	second := &stubBackend{script: "second script"}
	m := NewMulti(nil, []string{"a", "b"}, first, second)

	script, err := m.Script(context.Background(), Brief{Topic: "coffee"})
	require.NoError(t, err)
	assert.Equal(t, "first script", script)
	assert.Equal(t, 0, second.calls)
}

func TestMulti_FallsBackOnError(t *testing.T) {
	first := &stubBackend{err: errors.New("rate limited")}
	second := &stubBackend{script: "second script"}
	m := NewMulti(nil, []string{"a", "b"}, first, second)

	script, err := m.Script(context.Background(), Brief{Topic: "coffee"})
	require.NoError(t, err)
	assert.Equal(t, "second script", script)
	assert.Equal(t, 1, first.calls)
}

func TestMulti_EmptyTopicShortCircuits(t *testing.T) {
	first := &stubBackend{err: ErrEmptyTopic}
	second := &stubBackend{script: "unused"}
	m := NewMulti(nil, []string{"a", "b"}, first, second)

	_, err := m.Script(context.Background(), Brief{})
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Equal(t, 0, second.calls, "bad brief is not retried on other backends")
}

func TestMulti_AllBackendsFail(t *testing.T) {
	first := &stubBackend{err: errors.New("rate limited")}
	second := &stubBackend{err: errors.New("model overloaded")}
	m := NewMulti(nil, []string{"gemini", "openai"}, first, second)

	_, err := m.Script(context.Background(), Brief{Topic: "coffee"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini")
	assert.Contains(t, err.Error(), "rate limited")
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "model overloaded")
}
