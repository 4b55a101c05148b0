package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"filewipe_enterprise/internal/config"
)

// Enterprise логгер с аудитом
type EnterpriseLogger struct {
	zl   *zap.Logger
	file *os.File
}

// NewEnterpriseLogger создает логгер: консоль (verbose или ERROR+) и JSON-файл аудита.
// Если файл логов недоступен, пишет только в консоль.
func NewEnterpriseLogger(cfg *config.Config, verbose bool) (*EnterpriseLogger, error) {
	level := parseLevel(cfg.Logging.Level)
	l := &EnterpriseLogger{}

	consoleLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		if !level.Enabled(lvl) {
			return false
		}
		return verbose || lvl >= zapcore.ErrorLevel
	})
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(os.Stdout), consoleLevel),
	}

	// Автоматическое создание директории для логов
	if cfg.Logging.File != "" {
		if f, err := openLogFile(cfg.Logging.File); err != nil {
			fmt.Printf("[WARN] Не удалось открыть файл логов %s: %v\n", cfg.Logging.File, err)
			fmt.Printf("[WARN] Логи будут выводиться в stdout\n")
		} else {
			l.file = f
			jsonCfg := zap.NewProductionEncoderConfig()
			jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(f), level))
		}
	}

	l.zl = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// NewNopLogger логгер, который ничего не пишет
func NewNopLogger() *EnterpriseLogger {
	return &EnterpriseLogger{zl: zap.NewNop()}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// Log пишет сообщение с парами ключ-значение
func (l *EnterpriseLogger) Log(level, message string, fields ...interface{}) {
	if l == nil || l.zl == nil {
		return
	}

	zf := make([]zap.Field, 0, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if i+1 >= len(fields) {
			zf = append(zf, zap.Any("extra", fields[i]))
			break
		}
		zf = append(zf, zap.Any(key, fields[i+1]))
	}

	switch strings.ToUpper(level) {
	case "DEBUG":
		l.zl.Debug(message, zf...)
	case "WARN":
		l.zl.Warn(message, zf...)
	case "ERROR":
		l.zl.Error(message, zf...)
	case "FATAL":
		// без os.Exit: завершение процесса остается за вызывающим
		if ce := l.zl.Check(zapcore.DPanicLevel, message); ce != nil {
			ce.Write(zf...)
		}
	default:
		l.zl.Info(message, zf...)
	}
}

// Close сбрасывает буферы и закрывает файл логов
func (l *EnterpriseLogger) Close() error {
	if l == nil || l.zl == nil {
		return nil
	}
	_ = l.zl.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.MessageKey = "M"
	cfg.CallerKey = ""
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
