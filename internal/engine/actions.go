package engine

import (
	"context"
	"errors"
	"time"

	"github.com/ConserveLee/farm-macro/internal/logger"
)

// Actions drives the input device for each behavior of the macro.
// Device errors are logged and ignored here; a failed press is retried on the
// next cycle anyway.
type Actions struct {
	dev       InputDevice
	log       *logger.AppLogger
	lanePause time.Duration
	sellHold  time.Duration
}

// NewActions creates the behavior set for dev
func NewActions(dev InputDevice, log *logger.AppLogger, cfg Config) *Actions {
	return &Actions{
		dev:       dev,
		log:       log,
		lanePause: cfg.LanePause,
		sellHold:  cfg.SellHold,
	}
}

// FarmCycle runs the left lane then the right lane. It returns the context
// error when the run is cancelled mid-hold, after releasing the lane keys.
func (a *Actions) FarmCycle(ctx context.Context, left, right time.Duration) (err error) {
	a.log.Info("FARMING: left lane %s, right lane %s", left, right)
	defer func() {
		if err != nil {
			a.release(KeyLeft, KeyRight, KeyForward, KeyJump)
		}
	}()

	// Left lane: A (left) + W (forward) + Space (jump)
	a.press(KeyLeft, KeyForward, KeyJump)
	if err = sleep(ctx, left); err != nil {
		return err
	}

	a.release(KeyLeft)
	if err = sleep(ctx, a.lanePause); err != nil {
		return err
	}

	// Right lane: W and Space stay held
	a.press(KeyRight)
	if err = sleep(ctx, right); err != nil {
		return err
	}

	a.release(KeyRight, KeyForward, KeyJump)
	return nil
}

// PestKill stops forward movement and attack-clicks clicks times.
func (a *Actions) PestKill(ctx context.Context, clicks int, interval time.Duration) error {
	a.log.Info("PEST_KILL: attacking (%d clicks)", clicks)
	a.release(KeyForward)
	for i := 0; i < clicks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.dev.Click(ButtonAttack); err != nil {
			a.logDeviceError("click", ButtonAttack, err)
		}
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}

// Sell is a placeholder: it only opens the inventory briefly. Navigating the
// sell menu would need its own recognition-driven flow.
func (a *Actions) Sell(ctx context.Context) error {
	a.log.Info("SELL: opening inventory (placeholder)")
	a.press(KeyInventory)
	defer a.release(KeyInventory)
	return sleep(ctx, a.sellHold)
}

func (a *Actions) press(keys ...string) {
	for _, k := range keys {
		if err := a.dev.Press(k); err != nil {
			a.logDeviceError("press", k, err)
		}
	}
}

func (a *Actions) release(keys ...string) {
	for _, k := range keys {
		if err := a.dev.Release(k); err != nil {
			a.logDeviceError("release", k, err)
		}
	}
}

func (a *Actions) logDeviceError(op, name string, err error) {
	if errors.Is(err, errDisarmed) {
		return
	}
	a.log.Debug("input %s %s failed: %v", op, name, err)
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
