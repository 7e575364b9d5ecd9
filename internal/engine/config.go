package engine

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/ConserveLee/farm-macro/internal/constants"
)

// Config holds the timing of the macro. It is not modified after the
// controller is constructed.
type Config struct {
	FarmLeft          time.Duration // Left lane hold
	FarmRight         time.Duration // Right lane hold
	LanePause         time.Duration // Pause between lanes
	LoopInterval      time.Duration // Sleep between loop iterations
	IdleInterval      time.Duration // Extra sleep while Idle
	PestClicks        int           // Attack clicks per pest kill
	PestClickInterval time.Duration // Delay between attack clicks
	SellHold          time.Duration // How long the inventory key is held
}

// DetectorConfig holds the OCR pest detection settings
type DetectorConfig struct {
	Enabled  bool
	Cooldown time.Duration
	Keywords []string
	Region   image.Rectangle // Screen bounds scanned for chat text
}

// DefaultConfig returns the farming timings used in game
func DefaultConfig() Config {
	return Config{
		FarmLeft:          constants.FarmLeftDuration,
		FarmRight:         constants.FarmRightDuration,
		LanePause:         constants.LanePause,
		LoopInterval:      constants.LoopInterval,
		IdleInterval:      constants.IdleInterval,
		PestClicks:        constants.PestClickCount,
		PestClickInterval: constants.PestClickInterval,
		SellHold:          constants.SellHold,
	}
}

// DefaultDetectorConfig returns the default chat scan settings
func DefaultDetectorConfig() DetectorConfig {
	keywords := make([]string, len(constants.PestKeywords))
	copy(keywords, constants.PestKeywords)
	return DetectorConfig{
		Enabled:  true,
		Cooldown: constants.OCRCooldown,
		Keywords: keywords,
		Region: image.Rect(constants.ChatRegionLeft, constants.ChatRegionTop,
			constants.ChatRegionRight, constants.ChatRegionBottom),
	}
}

// Validate rejects timings the loop cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.FarmLeft <= 0 {
		errs = append(errs, fmt.Errorf("farm left duration must be positive, got %s", c.FarmLeft))
	}
	if c.FarmRight <= 0 {
		errs = append(errs, fmt.Errorf("farm right duration must be positive, got %s", c.FarmRight))
	}
	if c.LanePause < 0 {
		errs = append(errs, fmt.Errorf("lane pause must not be negative, got %s", c.LanePause))
	}
	if c.LoopInterval <= 0 {
		errs = append(errs, fmt.Errorf("loop interval must be positive, got %s", c.LoopInterval))
	}
	if c.IdleInterval < 0 {
		errs = append(errs, fmt.Errorf("idle interval must not be negative, got %s", c.IdleInterval))
	}
	if c.PestClicks < 0 {
		errs = append(errs, fmt.Errorf("pest clicks must not be negative, got %d", c.PestClicks))
	}
	if c.PestClickInterval < 0 {
		errs = append(errs, fmt.Errorf("pest click interval must not be negative, got %s", c.PestClickInterval))
	}
	return errors.Join(errs...)
}

// Validate rejects an unusable scan setup. A disabled detector is always valid.
func (c DetectorConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("ocr cooldown must not be negative, got %s", c.Cooldown))
	}
	if c.Region.Empty() {
		errs = append(errs, fmt.Errorf("scan region %v is empty", c.Region))
	}
	nonEmpty := 0
	for _, k := range c.Keywords {
		if strings.TrimSpace(k) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		errs = append(errs, errors.New("at least one pest keyword is required"))
	}
	return errors.Join(errs...)
}

// ParseRegion parses "left,top,right,bottom" pixel bounds
func ParseRegion(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("region %q: want left,top,right,bottom", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	r := image.Rectangle{Min: image.Pt(v[0], v[1]), Max: image.Pt(v[2], v[3])}
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %q is empty", s)
	}
	return r, nil
}
