package engine

import (
	"errors"
	"image"
	"sort"
	"sync"
	"time"
)

// fakeDevice tracks which keys and buttons are currently held.
type fakeDevice struct {
	mu       sync.Mutex
	held     map[string]bool
	presses  []string
	releases []string
	clicks   int
	pressErr error
	panics   int // number of leading presses that panic
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{held: make(map[string]bool)}
}

func (f *fakeDevice) Press(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics > 0 {
		f.panics--
		panic("synthetic input crashed")
	}
	if f.pressErr != nil {
		return f.pressErr
	}
	f.held[key] = true
	f.presses = append(f.presses, key)
	return nil
}

func (f *fakeDevice) Release(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	f.releases = append(f.releases, key)
	return nil
}

func (f *fakeDevice) Click(button string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks++
	return nil
}

func (f *fakeDevice) ReleaseButton(button string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, "button:"+button)
	return nil
}

func (f *fakeDevice) Held() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.held))
	for k := range f.held {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (f *fakeDevice) Presses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.presses...)
}

func (f *fakeDevice) Clicks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clicks
}

// fakeScanner returns canned text or an error and counts scans.
type fakeScanner struct {
	mu    sync.Mutex
	text  string
	err   error
	scans int
	rects []image.Rectangle
}

func (s *fakeScanner) ScanRegion(rect image.Rectangle) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	s.rects = append(s.rects, rect)
	return s.text, s.err
}

func (s *fakeScanner) set(text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.err = err
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedDetector returns the scripted answers in order, then false.
type scriptedDetector struct {
	mu      sync.Mutex
	answers []bool
	calls   int
	panics  int // number of leading calls that panic
}

func (d *scriptedDetector) CheckForPests() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.panics > 0 {
		d.panics--
		panic(errors.New("scanner exploded"))
	}
	if len(d.answers) == 0 {
		return false
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a
}

func (d *scriptedDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// recorder keeps the sequence of states entered.
type recorder struct {
	mu  sync.Mutex
	seq []State
}

func (r *recorder) record(from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = append(r.seq, to)
}

func (r *recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.seq...)
}

// containsRun reports whether want appears as consecutive entries of seq.
func containsRun(seq []State, want ...State) bool {
	for i := 0; i+len(want) <= len(seq); i++ {
		match := true
		for j, s := range want {
			if seq[i+j] != s {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
