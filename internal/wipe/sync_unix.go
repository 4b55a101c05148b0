//go:build unix

package wipe

import (
	"golang.org/x/sys/unix"
)

// syncFile сбрасывает данные файла на носитель
func syncFile(f WritableFile) error {
	return unix.Fsync(int(f.Fd()))
}
