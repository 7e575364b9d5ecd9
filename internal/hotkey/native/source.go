// Package native feeds OS-wide key events from robotn/gohook into a hotkey manager.
package native

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ConserveLee/farm-macro/internal/logger"
	hook "github.com/robotn/gohook"
)

// Source listens to the global keyboard hook for a fixed set of keys
type Source struct {
	log   *logger.AppLogger
	codes map[uint16]string
}

// NewSource watches the named keys (gohook key names such as "f8" or "esc")
func NewSource(log *logger.AppLogger, keys ...string) (*Source, error) {
	codes := make(map[uint16]string, len(keys))
	for _, k := range keys {
		name := strings.ToLower(strings.TrimSpace(k))
		code, ok := hook.Keycode[name]
		if !ok {
			return nil, fmt.Errorf("unknown hotkey %q", k)
		}
		codes[code] = name
	}
	return &Source{log: log, codes: codes}, nil
}

// Listen delivers press and release events of the watched keys to update
// until ctx is done. update runs on the listening goroutine.
func (s *Source) Listen(ctx context.Context, update func(key string, isDown bool)) error {
	events := hook.Start()
	defer hook.End()
	s.log.Debug("Keyboard hook started, watching %d keys", len(s.codes))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return errors.New("keyboard hook stopped unexpectedly")
			}
			name, watched := s.codes[ev.Keycode]
			if !watched {
				continue
			}
			switch ev.Kind {
			case hook.KeyHold:
				update(name, true)
			case hook.KeyUp:
				update(name, false)
			}
		}
	}
}
