package security

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/system"
)

// Validation результат проверки пути
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

func invalid(reason string) Validation {
	return Validation{Valid: false, Reason: reason}
}

// ValidatePath проверяет, что путь существует, доступен на чтение (и запись для файла),
// не является корнем файловой системы и не пересекается с защищенными путями
func ValidatePath(path string, cfg *config.Config) Validation {
	if cfg == nil {
		cfg = config.Default()
	}

	if path == "" {
		return invalid("Empty path")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return invalid("Path does not exist")
		}
		return invalid(fmt.Sprintf("Cannot access path: %v", err))
	}

	if !canRead(path) {
		return invalid("No read permission")
	}

	if info.Mode().IsRegular() && !canWrite(path) {
		return invalid("No write permission")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return invalid(fmt.Sprintf("Invalid path: %v", err))
	}

	if isFilesystemRoot(absPath) {
		if vol, err := system.VolumeFor(absPath); err == nil && vol.IsSystem {
			return invalid("Refusing to wipe the root of the system volume")
		}
		return invalid("Refusing to wipe a filesystem root")
	}

	for _, protected := range cfg.Security.ProtectedPaths {
		p, err := filepath.Abs(protected)
		if err != nil {
			continue
		}
		if isWithin(p, absPath) {
			return invalid(fmt.Sprintf("Protected system path: %s", protected))
		}
		if isWithin(absPath, p) {
			return invalid(fmt.Sprintf("Path contains protected system path: %s", protected))
		}
	}

	return Validation{Valid: true, Reason: "OK"}
}

// Check возвращает ошибку, если путь не прошел проверку
func Check(path string, cfg *config.Config) error {
	v := ValidatePath(path, cfg)
	if !v.Valid {
		return fmt.Errorf("путь %s отклонен: %s", path, v.Reason)
	}
	return nil
}

func isFilesystemRoot(absPath string) bool {
	clean := filepath.Clean(absPath)
	return clean == filepath.VolumeName(clean)+string(filepath.Separator)
}

// isWithin сообщает, совпадает ли child с parent или лежит внутри него
func isWithin(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if runtime.GOOS == "windows" {
		parent = strings.ToLower(parent)
		child = strings.ToLower(child)
	}

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
