package wipe

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// faultyFS реальная ФС с ошибками для выбранных путей
type faultyFS struct {
	OSFileSystem
	failOpen   map[string]error
	failWrite  map[string]error
	failRemove map[string]error
}

func (f *faultyFS) OpenFile(name string, flag int, perm os.FileMode) (WritableFile, error) {
	if err, ok := f.failOpen[name]; ok {
		return nil, err
	}
	file, err := f.OSFileSystem.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if err, ok := f.failWrite[name]; ok {
		return &failingFile{WritableFile: file, err: err}, nil
	}
	return file, nil
}

func (f *faultyFS) Remove(name string) error {
	if err, ok := f.failRemove[name]; ok {
		return err
	}
	return f.OSFileSystem.Remove(name)
}

type failingFile struct {
	WritableFile
	err error
}

func (f *failingFile) Write(p []byte) (int, error) {
	return 0, f.err
}

// snapshotFS запоминает содержимое файла при каждом закрытии, то есть после каждого прохода
type snapshotFS struct {
	OSFileSystem
	snaps [][]byte
}

func (s *snapshotFS) OpenFile(name string, flag int, perm os.FileMode) (WritableFile, error) {
	file, err := s.OSFileSystem.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &snapshotFile{WritableFile: file, fs: s, name: name}, nil
}

type snapshotFile struct {
	WritableFile
	fs   *snapshotFS
	name string
}

func (f *snapshotFile) Close() error {
	if err := f.WritableFile.Close(); err != nil {
		return err
	}
	data, err := os.ReadFile(f.name)
	if err != nil {
		return err
	}
	f.fs.snaps = append(f.fs.snaps, data)
	return nil
}

// swapFS после Lstat подменяет цель символической ссылкой на victim
type swapFS struct {
	OSFileSystem
	victim string
}

func (s *swapFS) Lstat(name string) (os.FileInfo, error) {
	info, err := s.OSFileSystem.Lstat(name)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(name); err != nil {
		return nil, err
	}
	if err := os.Symlink(s.victim, name); err != nil {
		return nil, err
	}
	return info, nil
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func filled(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}
