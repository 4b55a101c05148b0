package wipe

import (
	"io"
	"os"
)

// WritableFile открытый на запись файл. *os.File удовлетворяет интерфейсу.
type WritableFile interface {
	io.Writer
	io.Seeker
	io.Closer
	Stat() (os.FileInfo, error)
	Sync() error
	Fd() uintptr
}

// FileSystem абстрагирует операции с файлами, нужные стратегиям затирания.
// В тестах подменяется для внедрения ошибок записи и удаления.
type FileSystem interface {
	Lstat(name string) (os.FileInfo, error)
	OpenFile(name string, flag int, perm os.FileMode) (WritableFile, error)
	Remove(name string) error
}

// OSFileSystem реальная файловая система
type OSFileSystem struct{}

func (OSFileSystem) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

func (OSFileSystem) OpenFile(name string, flag int, perm os.FileMode) (WritableFile, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}
