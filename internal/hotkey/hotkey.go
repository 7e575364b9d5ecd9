// Package hotkey dispatches global key presses to registered callbacks.
package hotkey

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/ConserveLee/farm-macro/internal/logger"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyKey is returned when registering a blank key name
var ErrEmptyKey = errors.New("hotkey: empty key name")

// Listener delivers key transitions until ctx is done
type Listener interface {
	Listen(ctx context.Context, update func(key string, isDown bool)) error
}

// Option configures a single binding
type Option func(*binding)

// FireOnRepeat makes the binding fire on every press event, including
// auto-repeat and presses whose release was never seen.
func FireOnRepeat() Option {
	return func(b *binding) { b.repeat = true }
}

type binding struct {
	callback func()
	repeat   bool
}

// Manager maps key names to callbacks and fires them once per press
type Manager struct {
	mu       sync.Mutex
	bindings map[string][]binding
	down     map[string]bool // keys currently held
	log      *logger.AppLogger
}

// NewManager creates a new hotkey manager
func NewManager(log *logger.AppLogger) *Manager {
	return &Manager{
		bindings: make(map[string][]binding),
		down:     make(map[string]bool),
		log:      log,
	}
}

// Register binds callback to key (e.g. "f8", "esc"). Names are case-insensitive.
func (m *Manager) Register(key string, callback func(), opts ...Option) error {
	key = normalize(key)
	if key == "" {
		return ErrEmptyKey
	}

	b := binding{callback: callback}
	for _, opt := range opts {
		opt(&b)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[key] = append(m.bindings[key], b)
	return nil
}

// Keys returns the registered key names, sorted
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.bindings))
	for k := range m.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset forgets which keys are held
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = make(map[string]bool)
}

// UpdateState records a key transition. Callbacks run synchronously on the
// caller's goroutine. Plain bindings fire only on the up -> down edge so
// auto-repeat is ignored; FireOnRepeat bindings fire on every press.
func (m *Manager) UpdateState(key string, isDown bool) {
	key = normalize(key)

	m.mu.Lock()
	if !isDown {
		delete(m.down, key)
		m.mu.Unlock()
		return
	}
	held := m.down[key]
	m.down[key] = true
	var callbacks []func()
	for _, b := range m.bindings[key] {
		if !held || b.repeat {
			callbacks = append(callbacks, b.callback)
		}
	}
	m.mu.Unlock()

	if len(callbacks) > 0 {
		m.log.Debug("Hotkey triggered: %s", key)
	}
	for _, cb := range callbacks {
		m.invoke(key, cb)
	}
}

// Serve feeds events from l into the manager until ctx is done or the
// listener fails, then calls onExit. The listener error is returned.
func (m *Manager) Serve(ctx context.Context, l Listener, onExit func()) error {
	m.Reset()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.Listen(gctx, m.UpdateState)
	})
	g.Go(func() error {
		<-gctx.Done()
		if onExit != nil {
			onExit()
		}
		return nil
	})
	return g.Wait()
}

func (m *Manager) invoke(key string, cb func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Hotkey %s handler failed: %v", key, r)
		}
	}()
	cb()
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
