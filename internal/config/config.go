package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultChunkSize = 1024 * 1024 // 1MB
	MaxChunkSize     = 256 * 1024 * 1024
	MaxPasses        = 35
)

// SecurityConfig ограничения на пути затирания
type SecurityConfig struct {
	RequireConfirmation bool     `yaml:"require_confirmation"`
	ProtectedPaths      []string `yaml:"protected_paths"`
}

// WipeConfig параметры затирания
type WipeConfig struct {
	Strategy        string  `yaml:"strategy"`
	Passes          int     `yaml:"passes"`
	ChunkSize       int64   `yaml:"chunk_size"`
	DeleteAfterWipe bool    `yaml:"delete_after_wipe"`
	MaxSpeedMBps    float64 `yaml:"max_speed_mbps"`
	SyncEachPass    bool    `yaml:"sync_each_pass"`
}

// LoggingConfig параметры логирования
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ReportingConfig параметры отчётов и журнала аудита
type ReportingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LocalPath string `yaml:"local_path"`
	Format    string `yaml:"format"`
	AuditDB   string `yaml:"audit_db"`
}

// Config конфигурация утилиты
type Config struct {
	Security  SecurityConfig  `yaml:"security"`
	Wipe      WipeConfig      `yaml:"wipe"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Security: SecurityConfig{
			RequireConfirmation: true,
			ProtectedPaths:      defaultProtectedPaths(),
		},
		Wipe: WipeConfig{
			Strategy:        "random",
			Passes:          3,
			ChunkSize:       DefaultChunkSize,
			DeleteAfterWipe: true,
			MaxSpeedMBps:    0, // без ограничения
			SyncEachPass:    true,
		},
		Logging: LoggingConfig{
			Level: "INFO",
			File:  "",
		},
		Reporting: ReportingConfig{
			Enabled:   true,
			LocalPath: "./reports",
			Format:    "json",
			AuditDB:   "./reports/audit.db",
		},
	}
}

// Load загружает конфигурацию из файла. Отсутствующий файл - конфигурация по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Незаданные в файле поля берутся из значений по умолчанию
	config := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	validStrategies := map[string]bool{
		"zero": true, "zeros": true, "1": true,
		"random": true, "2": true,
		"dod": true, "dod5220": true, "3": true,
	}
	if !validStrategies[strings.ToLower(config.Wipe.Strategy)] {
		return fmt.Errorf("invalid wipe strategy: %s", config.Wipe.Strategy)
	}

	if config.Wipe.Passes <= 0 || config.Wipe.Passes > MaxPasses {
		return fmt.Errorf("passes must be between 1 and %d, got %d", MaxPasses, config.Wipe.Passes)
	}

	if config.Wipe.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.Wipe.ChunkSize)
	}
	if config.Wipe.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk size too large (max 256MB), got %d", config.Wipe.ChunkSize)
	}

	if config.Wipe.MaxSpeedMBps < 0 {
		return fmt.Errorf("max speed cannot be negative, got %f", config.Wipe.MaxSpeedMBps)
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[config.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "txt": true, "csv": true}
	if config.Reporting.Enabled && !validFormats[config.Reporting.Format] {
		return fmt.Errorf("invalid report format: %s", config.Reporting.Format)
	}

	for _, path := range config.Security.ProtectedPaths {
		if path == "" {
			return fmt.Errorf("empty protected path")
		}
		if filepath.Clean(path) == "." {
			return fmt.Errorf("invalid protected path: %s", path)
		}
	}

	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetOption меняет одну опцию по ключу вида "wipe.passes". Неизвестные ключи отклоняются.
func SetOption(config *Config, key, value string) error {
	var err error
	switch key {
	case "security.require_confirmation":
		config.Security.RequireConfirmation, err = strconv.ParseBool(value)
	case "wipe.strategy":
		config.Wipe.Strategy = value
	case "wipe.passes":
		config.Wipe.Passes, err = strconv.Atoi(value)
	case "wipe.chunk_size":
		config.Wipe.ChunkSize, err = strconv.ParseInt(value, 10, 64)
	case "wipe.delete_after_wipe":
		config.Wipe.DeleteAfterWipe, err = strconv.ParseBool(value)
	case "wipe.max_speed_mbps":
		config.Wipe.MaxSpeedMBps, err = strconv.ParseFloat(value, 64)
	case "wipe.sync_each_pass":
		config.Wipe.SyncEachPass, err = strconv.ParseBool(value)
	case "logging.level":
		config.Logging.Level = strings.ToUpper(value)
	case "logging.file":
		config.Logging.File = value
	case "reporting.enabled":
		config.Reporting.Enabled, err = strconv.ParseBool(value)
	case "reporting.local_path":
		config.Reporting.LocalPath = value
	case "reporting.format":
		config.Reporting.Format = value
	case "reporting.audit_db":
		config.Reporting.AuditDB = value
	default:
		return fmt.Errorf("unknown option: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return Validate(config)
}

// defaultProtectedPaths системные каталоги, которые нельзя затирать целиком
func defaultProtectedPaths() []string {
	if windir := os.Getenv("WINDIR"); len(windir) >= 2 {
		drive := windir[:2]
		return []string{
			windir,
			filepath.Join(drive+`\`, "Program Files"),
			filepath.Join(drive+`\`, "Program Files (x86)"),
		}
	}
	return []string{"/bin", "/boot", "/etc", "/lib", "/proc", "/sbin", "/sys", "/usr"}
}
