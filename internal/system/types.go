package system

import "fmt"

// VolumeInfo информация о томе, на котором лежит путь
type VolumeInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	IsSystem   bool
}

// VolumeFor возвращает информацию о томе для пути
func VolumeFor(path string) (VolumeInfo, error) {
	if path == "" {
		return VolumeInfo{}, fmt.Errorf("empty path")
	}
	return volumeFor(path)
}

// UsedBytes занятое место на томе
func (v VolumeInfo) UsedBytes() uint64 {
	if v.FreeBytes > v.TotalBytes {
		return 0
	}
	return v.TotalBytes - v.FreeBytes
}
