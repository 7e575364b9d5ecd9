package engine

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, DefaultDetectorConfig().Validate())
}

func TestConfigValidateRejectsBadDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FarmLeft = 0
	cfg.LoopInterval = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farm left")
	assert.Contains(t, err.Error(), "loop interval")
}

func TestDetectorConfigValidate(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.Keywords = []string{" ", ""}
	cfg.Region = image.Rectangle{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword")
	assert.Contains(t, err.Error(), "empty")

	cfg.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("0, 0, 1920, 200")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 200), r)

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "10,10,5,5"} {
		_, err := ParseRegion(bad)
		assert.Error(t, err, bad)
	}
}
