//go:build !unix && !windows

package wipe

func syncFile(f WritableFile) error {
	return f.Sync()
}
