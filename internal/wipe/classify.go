package wipe

import (
	"path/filepath"
	"strings"
)

var categoryByExt = map[string]Category{
	".txt": CategoryText,
	".md":  CategoryText,
	".log": CategoryText,

	".jpg": CategoryImage,
	".png": CategoryImage,
	".bmp": CategoryImage,
	".gif": CategoryImage,

	".mp4": CategoryVideo,
	".avi": CategoryVideo,
	".mov": CategoryVideo,

	".zip": CategoryArchive,
	".rar": CategoryArchive,
	".7z":  CategoryArchive,
}

// Classify определяет категорию файла по расширению (без учета регистра)
func Classify(path string) Category {
	if c, ok := categoryByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return CategoryOther
}
