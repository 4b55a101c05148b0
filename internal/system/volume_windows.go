//go:build windows

package system

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

func volumeFor(path string) (VolumeInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("invalid path: %w", err)
	}

	drive := filepath.VolumeName(absPath) + `\`
	ptr, err := windows.UTF16PtrFromString(drive)
	if err != nil {
		return VolumeInfo{}, err
	}

	var freeBytesAvailable, totalBytes, freeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &freeBytesAvailable, &totalBytes, &freeBytes); err != nil {
		return VolumeInfo{}, fmt.Errorf("ошибка получения информации о диске: %w", err)
	}

	return VolumeInfo{
		Path:       path,
		TotalBytes: totalBytes,
		FreeBytes:  freeBytesAvailable,
		IsSystem:   strings.EqualFold(filepath.VolumeName(absPath), systemDrive()),
	}, nil
}

// systemDrive возвращает системный диск (C:, D:, и т.д.)
func systemDrive() string {
	sysDir, err := windows.GetSystemDirectory()
	if err != nil || len(sysDir) < 2 {
		return "C:" // Fallback
	}
	return sysDir[:2]
}
