//go:build windows

package wipe

import (
	"golang.org/x/sys/windows"
)

// syncFile сбрасывает буферы файла через FlushFileBuffers
func syncFile(f WritableFile) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
