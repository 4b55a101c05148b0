package wipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"notes.txt", CategoryText},
		{"README.md", CategoryText},
		{"/var/app/server.LOG", CategoryText},
		{"photo.JPG", CategoryImage},
		{"icon.png", CategoryImage},
		{"scan.bmp", CategoryImage},
		{"anim.gif", CategoryImage},
		{"clip.mp4", CategoryVideo},
		{"old.avi", CategoryVideo},
		{"movie.MOV", CategoryVideo},
		{"backup.zip", CategoryArchive},
		{"data.rar", CategoryArchive},
		{"dump.7z", CategoryArchive},
		{"archive.tar.gz", CategoryOther},
		{"binary.bin", CategoryOther},
		{"Makefile", CategoryOther},
		{".hidden", CategoryOther},
		{"dir.txt/file", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}
