package wipe

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"filewipe_enterprise/internal/logging"
)

// Scanner собирает цели затирания под корневым путем.
// Символические ссылки и специальные файлы не затираются и не разыменовываются.
type Scanner struct {
	logger *logging.EnterpriseLogger
}

// NewScanner создает сканер
func NewScanner(logger *logging.EnterpriseLogger) *Scanner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scanner{logger: logger}
}

// Scan возвращает цели в порядке обхода файловой системы.
// Ошибка возвращается, только если корня не существует.
func (s *Scanner) Scan(root string) ([]WipeTarget, error) {
	info, err := os.Lstat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrPathNotFound, "%s", root)
		}
		return nil, errors.Wrapf(err, "ошибка чтения %s", root)
	}

	s.logger.Log("INFO", "Начало сканирования", "root", root)

	var targets []WipeTarget
	switch {
	case info.Mode().IsRegular():
		targets = append(targets, newTarget(root, info.Size()))
	case info.IsDir():
		targets = s.walk(root)
	default:
		s.logger.Log("WARN", "Корень не является файлом или директорией, пропуск", "root", root, "mode", info.Mode().String())
	}

	s.logger.Log("INFO", "Сканирование завершено", "root", root, "files", len(targets))
	return targets, nil
}

func (s *Scanner) walk(root string) []WipeTarget {
	var targets []WipeTarget

	// WalkDir не переходит по символическим ссылкам
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Log("WARN", "Ошибка обхода, пропуск", "path", path, "error", err.Error())
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			s.logger.Log("DEBUG", "Пропуск не обычного файла", "path", path, "type", d.Type().String())
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// файл исчез между обнаружением и stat
			s.logger.Log("DEBUG", "Размер недоступен, файл пропущен", "path", path, "error", err.Error())
			return nil
		}

		targets = append(targets, newTarget(path, info.Size()))
		return nil
	})

	return targets
}

func newTarget(path string, size int64) WipeTarget {
	if size < 0 {
		size = 0
	}
	return WipeTarget{
		Path:     path,
		Size:     size,
		Category: Classify(path),
	}
}
