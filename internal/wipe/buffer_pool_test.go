package wipe

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBufferSizes(t *testing.T) {
	assert.Nil(t, GetBuffer(0))

	buf := GetBuffer(100)
	assert.Len(t, buf, 100)
	assert.Equal(t, 1024, cap(buf))
	PutBuffer(buf)

	big := GetBuffer(20 * 1024 * 1024)
	assert.Len(t, big, 20*1024*1024)
	assert.Zero(t, cap(big)%4096)
	PutBuffer(big)
}

func TestPutBufferClearsContent(t *testing.T) {
	buf := GetBuffer(4096)
	FillBufferPattern(buf, 0xEE)
	PutBuffer(buf)

	// sync.Pool может вернуть тот же буфер или новый: в обоих случаях он чистый
	again := GetBuffer(4096)
	assert.Equal(t, make([]byte, 4096), again)
	PutBuffer(again)
}

func TestFillBufferPattern(t *testing.T) {
	buf := make([]byte, 16)
	FillBufferPattern(buf, 0xFF)
	assert.Equal(t, filled(0xFF, 16), buf)
	FillBufferPattern(buf, 0x00)
	assert.Equal(t, make([]byte, 16), buf)
}

func TestFillRandom(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, FillRandom(bytes.NewReader([]byte("abcdefgh")), buf))
	assert.Equal(t, []byte("abcdefgh"), buf)

	err := FillRandom(bytes.NewReader([]byte("abc")), make([]byte, 8))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	err = FillRandom(iotest.ErrReader(errors.New("no entropy")), make([]byte, 8))
	assert.Error(t, err)

	assert.NoError(t, FillRandom(nil, nil))
}

type shortWriter struct {
	buf bytes.Buffer
	max int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		p = p[:w.max]
	}
	return w.buf.Write(p)
}

type zeroWriter struct{}

func (zeroWriter) Write(p []byte) (int, error) { return 0, nil }

func TestWriteFullRetriesShortWrites(t *testing.T) {
	w := &shortWriter{max: 3}
	require.NoError(t, writeFull(w, []byte("0123456789")))
	assert.Equal(t, "0123456789", w.buf.String())

	assert.ErrorIs(t, writeFull(zeroWriter{}, []byte("x")), io.ErrShortWrite)
}

func TestThrottledWriter(t *testing.T) {
	var out bytes.Buffer
	tw := NewThrottledWriter(&out, 1)
	var slept time.Duration
	tw.sleep = func(d time.Duration) { slept += d }

	n, err := tw.Write(make([]byte, 1024*1024))
	require.NoError(t, err)
	assert.Equal(t, 1024*1024, n)
	assert.Greater(t, slept, 500*time.Millisecond)
	assert.Equal(t, 1024*1024, out.Len())

	unlimited := NewThrottledWriter(&out, 0)
	unlimited.sleep = func(time.Duration) { t.Fatal("unlimited writer must not sleep") }
	_, err = unlimited.Write([]byte("abc"))
	require.NoError(t, err)

	n, err = unlimited.Write(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestThrottledOverwriteKeepsChunkCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "throttled.bin")
	writeFile(t, path, filled(0x11, 4096))

	s := newTestStrategy(t, ZeroFill, &OverwriterConfig{MaxSpeedMBps: 1000})
	out, err := s.Overwrite(path, 2, 1024, false)
	require.NoError(t, err)
	assert.Equal(t, 8, out.ChunkWrites)
	assert.Equal(t, make([]byte, 4096), readFile(t, path))
}
