package wipe

import (
	"io"
	"sync"
	"time"
)

// ThrottledWriter ограничивает скорость записи (thread-safe)
type ThrottledWriter struct {
	w            io.Writer
	maxSpeedMBps float64
	lastWrite    time.Time
	mu           sync.Mutex
	sleep        func(time.Duration)
}

// NewThrottledWriter создает новый throttled writer. maxSpeedMBps <= 0 - без ограничения.
func NewThrottledWriter(w io.Writer, maxSpeedMBps float64) *ThrottledWriter {
	return &ThrottledWriter{
		w:            w,
		maxSpeedMBps: maxSpeedMBps,
		lastWrite:    time.Now(),
		sleep:        time.Sleep,
	}
}

// Write записывает данные с ограничением скорости
func (tw *ThrottledWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.maxSpeedMBps > 0 {
		bytesPerSec := tw.maxSpeedMBps * 1024 * 1024
		expected := time.Duration(float64(len(data)) / bytesPerSec * float64(time.Second))
		actual := time.Since(tw.lastWrite)
		if actual < expected {
			tw.sleep(expected - actual)
		}
	}

	n, err := tw.w.Write(data)
	tw.lastWrite = time.Now()
	return n, err
}

// writeFull пишет весь буфер, повторяя частичные записи
func writeFull(w io.Writer, b []byte) error {
	off := 0
	for off < len(b) {
		n, err := w.Write(b[off:])
		if n > 0 {
			off += n
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}
