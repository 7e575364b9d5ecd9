package engine

import (
	"context"
	"sync"

	"github.com/ConserveLee/farm-macro/internal/logger"
)

// Detector reports whether a pest needs to be killed.
type Detector interface {
	CheckForPests() bool
}

// Controller runs the farming state machine on a background goroutine.
type Controller struct {
	cfg      Config
	actions  *Actions
	detector Detector
	device   *safeDevice
	log      *logger.AppLogger

	mu           sync.Mutex
	state        State
	running      bool
	gen          uint64
	cancel       context.CancelFunc
	done         chan struct{} // closed when the loop of generation gen exits
	onTransition func(from, to State)
}

// NewController creates a stopped controller driving dev through a safe-release guard
func NewController(dev InputDevice, detector Detector, cfg Config, log *logger.AppLogger) *Controller {
	device := newSafeDevice(dev, log)
	return &Controller{
		cfg:      cfg,
		actions:  NewActions(device, log, cfg),
		detector: detector,
		device:   device,
		log:      log,
		state:    StateIdle,
	}
}

// SetTransitionFunc registers a callback invoked after every state change.
// It runs on the goroutine that made the change, outside the lock.
func (c *Controller) SetTransitionFunc(f func(from, to State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTransition = f
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Running reports whether the loop is enabled
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start begins the farming loop. It never blocks and does nothing if the
// macro is already running.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.gen++
	gen := c.gen
	prev := c.done
	done := make(chan struct{})

	from := c.state
	c.running = true
	c.state = StateFarming
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.log.Info("Macro started.")
	c.notify(from, StateFarming)

	go c.loop(ctx, gen, prev, done)
}

// Stop halts the loop and releases every managed key and button before
// returning. It does not wait for the loop goroutine to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasRunning := c.running
	from := c.state
	c.running = false
	c.state = StateIdle
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.device.disarm()

	if wasRunning {
		c.log.Info("Macro stopped.")
	}
	c.notify(from, StateIdle)
}

// Toggle stops a running macro or starts a stopped one
func (c *Controller) Toggle() {
	if c.Running() {
		c.Stop()
		return
	}
	c.Start()
}

// RequestSell switches a running macro to the Sell state. The loop finishes
// its current behavior first.
func (c *Controller) RequestSell() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	from := c.state
	c.state = StateSell
	c.mu.Unlock()

	c.log.Info("Sell requested.")
	c.notify(from, StateSell)
}

// Wait blocks until the most recently started loop has exited.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Controller) loop(ctx context.Context, gen uint64, prev <-chan struct{}, done chan struct{}) {
	defer close(done)

	// The previous loop releases everything on exit; let it finish before
	// this one presses anything.
	if prev != nil {
		<-prev
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Run loop crashed: %v", r)
		}
		c.finish(gen)
		c.device.disarm()
		c.log.Debug("Run loop exiting (generation %d)", gen)
	}()

	if !c.device.arm(ctx) {
		return
	}
	c.log.Debug("Run loop started (generation %d)", gen)

	for {
		state, ok := c.current(gen)
		if !ok {
			return
		}

		next := c.step(ctx, state)
		c.advance(gen, state, next)

		interval := c.cfg.LoopInterval
		if state == StateIdle {
			interval += c.cfg.IdleInterval
		}
		if err := sleep(ctx, interval); err != nil {
			return
		}
	}
}

// step runs the behavior of state and returns the state to move to. A panic
// inside a behavior counts as a failed step.
func (c *Controller) step(ctx context.Context, state State) (next State) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("%s: step failed: %v", state, r)
			next = nextState(state, false)
		}
	}()

	switch state {
	case StateFarming:
		if err := c.actions.FarmCycle(ctx, c.cfg.FarmLeft, c.cfg.FarmRight); err != nil {
			return state
		}
		return nextState(state, false)
	case StatePestCheck:
		return nextState(state, c.detector.CheckForPests())
	case StatePestKill:
		if err := c.actions.PestKill(ctx, c.cfg.PestClicks, c.cfg.PestClickInterval); err != nil {
			return state
		}
		return nextState(state, false)
	case StateSell:
		if err := c.actions.Sell(ctx); err != nil {
			return state
		}
		return nextState(state, false)
	default:
		return StateIdle
	}
}

// current returns the state if gen is still the live generation.
func (c *Controller) current(gen uint64) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.running && c.gen == gen
}

// advance moves from -> to only if nothing else changed the state meanwhile.
func (c *Controller) advance(gen uint64, from, to State) {
	if from == to {
		return
	}
	c.mu.Lock()
	if !c.running || c.gen != gen || c.state != from {
		c.mu.Unlock()
		return
	}
	c.state = to
	c.mu.Unlock()

	c.log.Debug("State %s -> %s", from, to)
	c.notify(from, to)
}

// finish marks the generation stopped when its loop exits on its own.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	if !c.running || c.gen != gen {
		c.mu.Unlock()
		return
	}
	from := c.state
	c.running = false
	c.state = StateIdle
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.log.Error("Run loop ended unexpectedly, macro stopped.")
	c.notify(from, StateIdle)
}

func (c *Controller) notify(from, to State) {
	if from == to {
		return
	}
	c.mu.Lock()
	f := c.onTransition
	c.mu.Unlock()
	if f != nil {
		f(from, to)
	}
}
