//go:build linux || darwin || freebsd

package system

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func volumeFor(path string) (VolumeInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return VolumeInfo{}, fmt.Errorf("ошибка получения информации о томе %s: %w", path, err)
	}

	bsize := uint64(st.Bsize)
	info := VolumeInfo{
		Path:       path,
		TotalBytes: uint64(st.Blocks) * bsize,
		FreeBytes:  uint64(st.Bavail) * bsize,
	}

	// Системный том - тот же, на котором лежит корень
	var root unix.Statfs_t
	if err := unix.Statfs("/", &root); err == nil {
		info.IsSystem = st.Fsid == root.Fsid
	}

	return info, nil
}
