package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Robot injects keyboard and mouse events through robotgo
type Robot struct{}

// NewRobot creates a new instance
func NewRobot() *Robot {
	return &Robot{}
}

// Press holds a key down until Release
func (r *Robot) Press(key string) error {
	if err := robotgo.KeyToggle(key, "down"); err != nil {
		return fmt.Errorf("key down %s: %w", key, err)
	}
	return nil
}

// Release lifts a key. Lifting a key that is not held is harmless.
func (r *Robot) Release(key string) error {
	if err := robotgo.KeyToggle(key, "up"); err != nil {
		return fmt.Errorf("key up %s: %w", key, err)
	}
	return nil
}

// Click performs a single click at the current mouse position
func (r *Robot) Click(button string) error {
	robotgo.Click(button)
	return nil
}

// ReleaseButton lifts a mouse button
func (r *Robot) ReleaseButton(button string) error {
	if err := robotgo.Toggle(button, "up"); err != nil {
		return fmt.Errorf("mouse up %s: %w", button, err)
	}
	return nil
}
