package inspect

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// DefaultLength сколько байт из начала файла показывать
const DefaultLength = 64

// HexDumper печатает hex-дамп начала файла до и после затирания
type HexDumper struct {
	W      io.Writer
	Length int

	mu sync.Mutex
}

// NewHexDumper создает HexDumper, пишущий в w
func NewHexDumper(w io.Writer, length int) *HexDumper {
	if length <= 0 {
		length = DefaultLength
	}
	return &HexDumper{W: w, Length: length}
}

// Before печатает дамп до затирания
func (h *HexDumper) Before(path string) error {
	return h.dump(path, fmt.Sprintf("--- BEFORE WIPE (%s) ---", path))
}

// After печатает дамп после затирания
func (h *HexDumper) After(path string) error {
	return h.dump(path, fmt.Sprintf("--- AFTER WIPE (%s) ---", path))
}

func (h *HexDumper) dump(path, label string) error {
	n := h.Length
	if n <= 0 {
		n = DefaultLength
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла для дампа: %w", err)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("ошибка чтения файла для дампа: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintln(h.W, label); err != nil {
		return err
	}
	if read == 0 {
		_, err = fmt.Fprintln(h.W, "(empty)")
		return err
	}
	_, err = io.WriteString(h.W, hex.Dump(buf[:read]))
	return err
}
