package system

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeFor(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "windows":
	default:
		t.Skipf("volume info not supported on %s", runtime.GOOS)
	}

	vol, err := VolumeFor(t.TempDir())
	require.NoError(t, err)
	assert.Positive(t, vol.TotalBytes)
	assert.LessOrEqual(t, vol.FreeBytes, vol.TotalBytes)
	assert.Equal(t, vol.TotalBytes-vol.FreeBytes, vol.UsedBytes())
}

func TestVolumeForErrors(t *testing.T) {
	_, err := VolumeFor("")
	assert.Error(t, err)
}

func TestUsedBytesNeverNegative(t *testing.T) {
	assert.Zero(t, VolumeInfo{TotalBytes: 10, FreeBytes: 20}.UsedBytes())
}
