package constants

import "time"

// Farming Macro Configuration
const (
	// Lane Durations
	FarmLeftDuration  = 71 * time.Second       // Hold A+W+Space for the left lane
	FarmRightDuration = 72 * time.Second       // Hold D+W+Space for the right lane
	LanePause         = 300 * time.Millisecond // Pause after releasing A to avoid input jitter

	// Loop Intervals
	LoopInterval = 100 * time.Millisecond // Sleep between state machine iterations (bounds stop latency)
	IdleInterval = 500 * time.Millisecond // Extra sleep while Idle so the loop does not spin

	// Pest Kill
	PestClickCount    = 20
	PestClickInterval = 200 * time.Millisecond

	// Sell (placeholder)
	SellHold = 500 * time.Millisecond

	// OCR Pest Detection
	OCRCooldown = 2 * time.Second // Minimum time between two OCR attempts

	// Hotkeys
	ToggleKey        = "f8"
	EmergencyStopKey = "esc"

	// Logging
	LogHistorySize = 100 // Lines kept in the in-memory log history

	// Debugging
	DebugDump     = false
	DebugDumpFile = "debug_scan_region.png"
)

// Chat region scanned for pest messages (left, top, right, bottom).
const (
	ChatRegionLeft   = 0
	ChatRegionTop    = 0
	ChatRegionRight  = 1920
	ChatRegionBottom = 200
)

// PestKeywords are matched case-insensitively against the OCR text.
var PestKeywords = []string{"pest", "spawned", "has appeared"}
