package wipe

import (
	"io"

	"github.com/cockroachdb/errors"
)

// FillPattern определяет содержимое, которым затирается чанк
type FillPattern int

const (
	PatternZero FillPattern = iota
	PatternRandom
)

func (p FillPattern) String() string {
	switch p {
	case PatternZero:
		return "zero"
	case PatternRandom:
		return "random"
	default:
		return "unknown"
	}
}

// fill заполняет очередной чанк. Случайные данные берутся заново на каждый чанк
// каждого прохода, буфер между чанками не переиспользуется как есть.
func (p FillPattern) fill(src io.Reader, buf []byte) error {
	switch p {
	case PatternZero:
		FillBufferPattern(buf, 0x00)
		return nil
	case PatternRandom:
		return FillRandom(src, buf)
	default:
		return errors.Newf("неизвестный паттерн заполнения: %d", int(p))
	}
}
