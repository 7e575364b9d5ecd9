package engine

import (
	"image"
	"strings"
	"sync"
	"time"

	"github.com/ConserveLee/farm-macro/internal/logger"
)

// TextScanner returns the text recognized inside a screen rectangle.
type TextScanner interface {
	ScanRegion(rect image.Rectangle) (string, error)
}

// PestDetector looks for pest spawn messages in the chat region.
type PestDetector struct {
	scanner  TextScanner
	log      *logger.AppLogger
	enabled  bool
	cooldown time.Duration
	keywords []string
	region   image.Rectangle

	now func() time.Time

	mu        sync.Mutex
	checked   bool
	lastCheck time.Time
}

// NewPestDetector creates a detector scanning cfg.Region with scanner
func NewPestDetector(scanner TextScanner, cfg DetectorConfig, log *logger.AppLogger) *PestDetector {
	var keywords []string
	for _, k := range cfg.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &PestDetector{
		scanner:  scanner,
		log:      log,
		enabled:  cfg.Enabled,
		cooldown: cfg.Cooldown,
		keywords: keywords,
		region:   cfg.Region,
		now:      time.Now,
	}
}

// CheckForPests scans the chat region and reports whether any keyword shows up.
// It returns false while disabled, inside the cooldown, or when the scan fails.
func (d *PestDetector) CheckForPests() bool {
	if !d.enabled {
		return false
	}

	d.mu.Lock()
	now := d.now()
	if d.checked && now.Sub(d.lastCheck) < d.cooldown {
		d.mu.Unlock()
		return false
	}
	d.checked = true
	d.lastCheck = now
	d.mu.Unlock()

	text, err := d.scanner.ScanRegion(d.region)
	if err != nil {
		d.log.Error("OCR error: %v", err)
		return false
	}

	text = strings.ToLower(text)
	for _, keyword := range d.keywords {
		if strings.Contains(text, keyword) {
			d.log.Info("OCR: detected '%s' in chat, pest found!", keyword)
			return true
		}
	}
	d.log.Debug("[PestCheck] no keyword in %d chars of chat text", len(text))
	return false
}
