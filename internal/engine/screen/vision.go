package screen

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/kbinani/screenshot"
	"github.com/otiai10/gosseract/v2"
)

// Scanner handles region capturing and text recognition
type Scanner struct {
	DisplayIndex int
	Languages    []string

	mu        sync.Mutex
	client    *gosseract.Client
	dumpPath  string // Save the first capture here when set
	dumped    bool
	debugFunc func(string, ...interface{})
}

// NewScanner creates a new instance
func NewScanner() *Scanner {
	return &Scanner{
		DisplayIndex: 0, // Default to main display
		Languages:    []string{"eng"},
		debugFunc:    func(string, ...interface{}) {}, // No-op by default
	}
}

// SetDisplayID sets the target display index for capturing
func (s *Scanner) SetDisplayID(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DisplayIndex = index
}

// SetDebugFunc sets the debug logging function
func (s *Scanner) SetDebugFunc(f func(string, ...interface{})) {
	s.debugFunc = f
}

// EnableDebugDump saves the first captured region to path
func (s *Scanner) EnableDebugDump(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dumpPath = path
	s.dumped = false
}

// CaptureRegion captures rect, given relative to the selected display
func (s *Scanner) CaptureRegion(rect image.Rectangle) (*image.RGBA, error) {
	s.mu.Lock()
	index := s.DisplayIndex
	s.mu.Unlock()

	// kbinani/screenshot works in virtual screen coordinates
	bounds := screenshot.GetDisplayBounds(index)
	area := rect.Add(bounds.Min).Intersect(bounds)
	if area.Empty() {
		return nil, fmt.Errorf("region %v is outside display %d %v", rect, index, bounds)
	}

	img, err := screenshot.CaptureRect(area)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %v on display %d: %w", area, index, err)
	}
	return img, nil
}

// ScanRegion captures rect and returns the recognized text
func (s *Scanner) ScanRegion(rect image.Rectangle) (string, error) {
	img, err := s.CaptureRegion(rect)
	if err != nil {
		return "", err
	}
	s.maybeDump(img)
	return s.Recognize(img)
}

// Recognize runs OCR on an image
func (s *Scanner) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode capture: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client := gosseract.NewClient()
		if err := client.SetLanguage(s.Languages...); err != nil {
			client.Close()
			return "", fmt.Errorf("failed to set ocr language: %w", err)
		}
		s.client = client
	}

	if err := s.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to load capture into ocr: %w", err)
	}
	text, err := s.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr failed: %w", err)
	}
	s.debugFunc("[OCR] %d chars recognized", len(text))
	return text, nil
}

// Close releases the OCR engine
func (s *Scanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Scanner) maybeDump(img image.Image) {
	s.mu.Lock()
	path := s.dumpPath
	if path == "" || s.dumped {
		s.mu.Unlock()
		return
	}
	s.dumped = true
	s.mu.Unlock()

	if err := SaveImage(path, img); err != nil {
		s.debugFunc("Failed to save debug capture %s: %v", path, err)
		return
	}
	s.debugFunc("Saved scan region to %s - compare with the chat area", path)
}

// LoadImage loads an image from the filesystem
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// SaveImage writes img as PNG
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
