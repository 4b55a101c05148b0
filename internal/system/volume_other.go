//go:build !linux && !darwin && !freebsd && !windows

package system

import (
	"fmt"
	"runtime"
)

func volumeFor(path string) (VolumeInfo, error) {
	return VolumeInfo{}, fmt.Errorf("информация о томе не поддерживается на %s", runtime.GOOS)
}
