package wipe

import (
	"crypto/rand"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"filewipe_enterprise/internal/logging"
)

var (
	// ErrNotRegularFile цель затирания не является обычным файлом
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrFileReplaced файл по пути подменен между проверкой и открытием
	ErrFileReplaced = errors.New("file replaced during wipe")
)

// OverwriterConfig параметры низкоуровневой записи
type OverwriterConfig struct {
	FS           FileSystem
	Random       io.Reader // nil = crypto/rand
	MaxSpeedMBps float64   // 0 = без ограничения
	SyncEachPass bool      // fsync после каждого прохода
	Logger       *logging.EnterpriseLogger
}

// Overwriter выполняет проходы затирания по месту, чанками
type Overwriter struct {
	fs           FileSystem
	random       io.Reader
	maxSpeedMBps float64
	syncEachPass bool
	logger       *logging.EnterpriseLogger
}

// NewOverwriter создает Overwriter. nil-конфиг - реальная ФС и crypto/rand.
func NewOverwriter(cfg *OverwriterConfig) *Overwriter {
	if cfg == nil {
		cfg = &OverwriterConfig{}
	}
	ow := &Overwriter{
		fs:           cfg.FS,
		random:       cfg.Random,
		maxSpeedMBps: cfg.MaxSpeedMBps,
		syncEachPass: cfg.SyncEachPass,
		logger:       cfg.Logger,
	}
	if ow.fs == nil {
		ow.fs = OSFileSystem{}
	}
	if ow.random == nil {
		ow.random = rand.Reader
	}
	if ow.logger == nil {
		ow.logger = logging.NewNopLogger()
	}
	return ow
}

// run затирает файл passes раз на всю исходную длину и при необходимости удаляет его.
// Ошибка прохода прерывает работу над файлом без отката уже записанного.
func (o *Overwriter) run(path string, passes int, chunkSize int64, del bool, pattern FillPattern) (Outcome, error) {
	var outcome Outcome

	if passes < 1 {
		return outcome, errors.Wrapf(ErrInvalidConfig, "passes must be >= 1, got %d", passes)
	}
	if chunkSize <= 0 {
		return outcome, errors.Wrapf(ErrInvalidConfig, "chunk size must be positive, got %d", chunkSize)
	}

	// Lstat: символическая ссылка на месте цели не разыменовывается
	info, err := o.fs.Lstat(path)
	if err != nil {
		return outcome, ioWriteError(path, "stat", 0, err)
	}
	if !info.Mode().IsRegular() {
		return outcome, ioWriteError(path, "stat", 0, ErrNotRegularFile)
	}
	size := info.Size()
	outcome.Size = size
	outcome.Sized = true

	// Не больше одного чанка в памяти независимо от размера файла
	bufSize := chunkSize
	if size < bufSize {
		bufSize = size
	}
	buf := GetBuffer(int(bufSize))
	defer PutBuffer(buf)

	for pass := 1; pass <= passes; pass++ {
		writes, err := o.writePass(path, info, chunkSize, buf, pattern, pass)
		outcome.ChunkWrites += writes
		if err != nil {
			o.logger.Log("ERROR", "Ошибка прохода затирания", "file", path, "pass", pass, "error", err.Error())
			return outcome, err
		}
		outcome.Passes = pass
		outcome.BytesWritten += uint64(size)
		o.logger.Log("DEBUG", "Проход завершен", "file", path, "pattern", pattern.String(), "pass", pass, "total", passes)
	}
	outcome.Wiped = true

	if del {
		if err := o.fs.Remove(path); err != nil {
			o.logger.Log("WARN", "Файл затерт, но не удален", "file", path, "error", err.Error())
			return outcome, deletionError(path, err)
		}
		outcome.Deleted = true
	}

	return outcome, nil
}

// writePass один полный проход по файлу. Дескриптор закрывается на любом пути выхода.
// Открытый файл сверяется с info: пишем только в тот обычный файл, который проверяли.
func (o *Overwriter) writePass(path string, info os.FileInfo, chunkSize int64, buf []byte, pattern FillPattern, pass int) (writes int, err error) {
	f, err := o.fs.OpenFile(path, os.O_RDWR|openNoFollow, 0)
	if err != nil {
		return 0, ioWriteError(path, "open", pass, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = ioWriteError(path, "close", pass, closeErr)
		}
	}()

	opened, err := f.Stat()
	if err != nil {
		return 0, ioWriteError(path, "stat", pass, err)
	}
	if !opened.Mode().IsRegular() {
		return 0, ioWriteError(path, "open", pass, ErrNotRegularFile)
	}
	if !os.SameFile(info, opened) {
		return 0, ioWriteError(path, "open", pass, ErrFileReplaced)
	}
	size := info.Size()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, ioWriteError(path, "seek", pass, err)
	}

	var w io.Writer = f
	if o.maxSpeedMBps > 0 {
		w = NewThrottledWriter(f, o.maxSpeedMBps)
	}

	var written int64
	for written < size {
		toWrite := chunkSize
		if remaining := size - written; remaining < toWrite {
			toWrite = remaining
		}

		b := buf[:toWrite]
		if err := pattern.fill(o.random, b); err != nil {
			return writes, ioWriteError(path, "fill", pass, err)
		}
		if err := writeFull(w, b); err != nil {
			return writes, ioWriteError(path, "write", pass, err)
		}

		written += toWrite
		writes++
	}

	if o.syncEachPass {
		if err := syncFile(f); err != nil {
			return writes, ioWriteError(path, "sync", pass, err)
		}
	}

	return writes, nil
}
