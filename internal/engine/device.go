package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/ConserveLee/farm-macro/internal/logger"
)

// InputDevice injects synthetic keyboard and mouse events.
// Releasing something that is not held must be a no-op.
type InputDevice interface {
	Press(key string) error
	Release(key string) error
	Click(button string) error
	ReleaseButton(button string) error
}

// Keys and buttons driven by the macro (robotgo names)
const (
	KeyLeft      = "a"
	KeyRight     = "d"
	KeyForward   = "w"
	KeyJump      = "space"
	KeyInventory = "e"

	ButtonAttack = "left"
)

var (
	managedKeys    = []string{KeyLeft, KeyRight, KeyForward, KeyJump, KeyInventory}
	managedButtons = []string{ButtonAttack}
)

var errDisarmed = errors.New("input device disarmed")

// safeDevice serializes access to the real device and drops presses and
// clicks while disarmed. Releases always go through.
type safeDevice struct {
	mu    sync.Mutex
	dev   InputDevice
	log   *logger.AppLogger
	armed bool
}

func newSafeDevice(dev InputDevice, log *logger.AppLogger) *safeDevice {
	return &safeDevice{dev: dev, log: log}
}

func (d *safeDevice) Press(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.armed {
		return errDisarmed
	}
	return d.dev.Press(key)
}

func (d *safeDevice) Release(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.Release(key)
}

func (d *safeDevice) Click(button string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.armed {
		return errDisarmed
	}
	return d.dev.Click(button)
}

func (d *safeDevice) ReleaseButton(button string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.ReleaseButton(button)
}

// arm enables input unless the run that asked for it is already cancelled.
func (d *safeDevice) arm(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	d.armed = true
	return true
}

// disarm blocks further presses and releases everything the macro may hold.
func (d *safeDevice) disarm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed = false
	d.releaseAllLocked()
}

func (d *safeDevice) releaseAllLocked() {
	for _, k := range managedKeys {
		if err := d.dev.Release(k); err != nil {
			d.log.Debug("release-all: key %s: %v", k, err)
		}
	}
	for _, b := range managedButtons {
		if err := d.dev.ReleaseButton(b); err != nil {
			d.log.Debug("release-all: button %s: %v", b, err)
		}
	}
}
