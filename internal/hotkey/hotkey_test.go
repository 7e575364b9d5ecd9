package hotkey

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ConserveLee/farm-macro/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsEmptyKey(t *testing.T) {
	m := NewManager(logger.Nop())
	assert.ErrorIs(t, m.Register("  ", func() {}), ErrEmptyKey)
	assert.Empty(t, m.Keys())
}

func TestCallbackFiresOncePerPress(t *testing.T) {
	m := NewManager(logger.Nop())
	toggles := 0
	require.NoError(t, m.Register("F8", func() { toggles++ }))

	m.UpdateState("f8", true)
	m.UpdateState("f8", true) // auto-repeat
	m.UpdateState("f8", true)
	assert.Equal(t, 1, toggles)

	m.UpdateState("f8", false)
	m.UpdateState("F8", true)
	assert.Equal(t, 2, toggles)
}

func TestUnregisteredKeysAreIgnored(t *testing.T) {
	m := NewManager(logger.Nop())
	stops := 0
	require.NoError(t, m.Register("esc", func() { stops++ }))

	m.UpdateState("f9", true)
	m.UpdateState("a", true)
	assert.Zero(t, stops)

	m.UpdateState("esc", true)
	assert.Equal(t, 1, stops)
	assert.Equal(t, []string{"esc"}, m.Keys())
}

func TestPanickingHandlerDoesNotBreakDispatch(t *testing.T) {
	l := logger.Nop()
	m := NewManager(l)
	calls := 0
	require.NoError(t, m.Register("f8", func() { panic("boom") }))
	require.NoError(t, m.Register("f8", func() { calls++ }))

	assert.NotPanics(t, func() { m.UpdateState("f8", true) })
	assert.Equal(t, 1, calls)
	require.NotEmpty(t, l.History())
	assert.Contains(t, l.History()[0], "handler failed")
}

func TestFireOnRepeatSurvivesLostRelease(t *testing.T) {
	m := NewManager(logger.Nop())
	toggles, stops := 0, 0
	require.NoError(t, m.Register("f8", func() { toggles++ }))
	require.NoError(t, m.Register("esc", func() { stops++ }, FireOnRepeat()))

	// The release events never arrive
	m.UpdateState("esc", true)
	m.UpdateState("esc", true)
	m.UpdateState("f8", true)
	m.UpdateState("f8", true)
	assert.Equal(t, 2, stops)
	assert.Equal(t, 1, toggles)

	m.Reset()
	m.UpdateState("f8", true)
	assert.Equal(t, 2, toggles)
}

// scriptedListener replays events, then fails with err or waits for ctx.
type scriptedListener struct {
	events []string
	err    error
}

func (l *scriptedListener) Listen(ctx context.Context, update func(key string, isDown bool)) error {
	for _, k := range l.events {
		update(k, true)
		update(k, false)
	}
	if l.err != nil {
		return l.err
	}
	<-ctx.Done()
	return nil
}

func TestServeStopsWhenListenerFails(t *testing.T) {
	m := NewManager(logger.Nop())
	toggles, exits := 0, 0
	require.NoError(t, m.Register("f8", func() { toggles++ }))
	hookErr := errors.New("keyboard hook stopped unexpectedly")

	err := m.Serve(context.Background(), &scriptedListener{events: []string{"f8"}, err: hookErr}, func() { exits++ })
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, 1, toggles)
	assert.Equal(t, 1, exits)
}

func TestServeStopsOnCancel(t *testing.T) {
	m := NewManager(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- m.Serve(ctx, &scriptedListener{}, func() { close(exited) })
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	select {
	case <-exited:
	default:
		t.Fatal("exit callback not called")
	}
}

func TestServeClearsStaleKeyState(t *testing.T) {
	m := NewManager(logger.Nop())
	toggles := 0
	require.NoError(t, m.Register("f8", func() { toggles++ }))

	m.UpdateState("f8", true) // release lost before the listener restarts
	require.Equal(t, 1, toggles)

	hookErr := errors.New("hook closed")
	err := m.Serve(context.Background(), &scriptedListener{events: []string{"f8"}, err: hookErr}, nil)
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, 2, toggles)
}
