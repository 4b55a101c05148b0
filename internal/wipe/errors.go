package wipe

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrPathNotFound корень сканирования не существует
	ErrPathNotFound = errors.New("path not found")
	// ErrInvalidStrategy неизвестный идентификатор стратегии
	ErrInvalidStrategy = errors.New("invalid wipe strategy")
	// ErrInvalidConfig некорректные параметры затирания
	ErrInvalidConfig = errors.New("invalid wipe configuration")
	// ErrIOWrite ошибка открытия, позиционирования или записи во время прохода
	ErrIOWrite = errors.New("overwrite failed")
	// ErrDeletion содержимое затерто, но удалить файл не удалось
	ErrDeletion = errors.New("deletion failed")
)

// FailureReason причина отказа по конкретному файлу
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonIOWrite
	ReasonDeletion
)

func (r FailureReason) String() string {
	switch r {
	case ReasonIOWrite:
		return "io_write"
	case ReasonDeletion:
		return "deletion"
	default:
		return "none"
	}
}

// Error ошибка затирания одного файла
type Error struct {
	Reason FailureReason
	Path   string
	Op     string // stat, open, seek, write, sync, close, remove
	Pass   int
	Err    error
}

func (e *Error) Error() string {
	if e.Pass > 0 {
		return fmt.Sprintf("%s %s (pass %d): %v", e.Op, e.Path, e.Pass, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет проверять причину через errors.Is(err, ErrIOWrite)
func (e *Error) Is(target error) bool {
	switch e.Reason {
	case ReasonIOWrite:
		return target == ErrIOWrite
	case ReasonDeletion:
		return target == ErrDeletion
	}
	return false
}

func ioWriteError(path, op string, pass int, err error) *Error {
	return &Error{Reason: ReasonIOWrite, Path: path, Op: op, Pass: pass, Err: err}
}

func deletionError(path string, err error) *Error {
	return &Error{Reason: ReasonDeletion, Path: path, Op: "remove", Err: err}
}

// ReasonOf возвращает причину отказа или ReasonNone
func ReasonOf(err error) FailureReason {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Reason
	}
	return ReasonNone
}
