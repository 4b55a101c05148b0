package wipe

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
)

// BufferPool управляет пулом буферов под чанки записи
type BufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalBufferPool = &BufferPool{
	pools: make(map[int]*sync.Pool),
}

// GetBuffer получает буфер из пула или создает новый
func GetBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}

	return globalBufferPool.getBuffer(size)
}

// PutBuffer возвращает буфер в пул
func PutBuffer(buf []byte) {
	if cap(buf) == 0 {
		return
	}

	globalBufferPool.putBuffer(buf)
}

// getBuffer получает буфер нужного размера
func (bp *BufferPool) getBuffer(size int) []byte {
	poolSize := bp.getPoolSize(size)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if !exists {
		bp.mu.Lock()
		// Double-check
		pool, exists = bp.pools[poolSize]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return make([]byte, poolSize)
				},
			}
			bp.pools[poolSize] = pool
		}
		bp.mu.Unlock()
	}

	buf := pool.Get().([]byte)
	return buf[:size]
}

// putBuffer возвращает буфер в соответствующий пул
func (bp *BufferPool) putBuffer(buf []byte) {
	capacity := cap(buf)
	poolSize := bp.getPoolSize(capacity)
	if poolSize != capacity {
		return
	}

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if exists {
		full := buf[:capacity]
		clear(full)
		pool.Put(full)
	}
}

// getPoolSize определяет размер пула для буфера
func (bp *BufferPool) getPoolSize(size int) int {
	sizes := []int{1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216}

	for _, poolSize := range sizes {
		if size <= poolSize {
			return poolSize
		}
	}

	// Больше максимального класса - округляем до 4KB
	return ((size + 4095) / 4096) * 4096
}

// FillBufferPattern заполняет буфер одним байтом
func FillBufferPattern(buf []byte, pattern byte) {
	if pattern == 0 {
		clear(buf)
		return
	}
	for i := range buf {
		buf[i] = pattern
	}
}

// FillRandom заполняет буфер из криптографического источника.
// Подмена слабым генератором недопустима: при ошибке источника проход прерывается.
func FillRandom(src io.Reader, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	if _, err := io.ReadFull(src, buf); err != nil {
		return errors.Wrap(err, "ошибка генерации случайных данных")
	}

	return nil
}
