package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"filewipe_enterprise/internal/config"
)

func TestLoggerWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "filewipe.log")

	l, err := NewEnterpriseLogger(cfg, false)
	require.NoError(t, err)
	l.Log("INFO", "Файл обработан", "file", "/tmp/a.txt", "passes", 3)
	l.Log("DEBUG", "не попадет в файл")
	l.Log("ERROR", "ошибка", "error", "boom")
	require.NoError(t, l.Close())

	f, err := os.Open(cfg.Logging.File)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "Файл обработан", entries[0]["msg"])
	assert.Equal(t, "/tmp/a.txt", entries[0]["file"])
	assert.EqualValues(t, 3, entries[0]["passes"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestLoggerFallsBackWhenFileUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := config.Default()
	cfg.Logging.File = filepath.Join(blocker, "filewipe.log")

	l, err := NewEnterpriseLogger(cfg, false)
	require.NoError(t, err)
	assert.Nil(t, l.file)
	l.Log("INFO", "всё равно работает")
	assert.NoError(t, l.Close())
}

func TestLogOddFieldsAndNil(t *testing.T) {
	var nilLogger *EnterpriseLogger
	assert.NotPanics(t, func() { nilLogger.Log("INFO", "x") })
	assert.NoError(t, nilLogger.Close())

	l := NewNopLogger()
	assert.NotPanics(t, func() { l.Log("WARN", "odd", "key") })
	assert.NotPanics(t, func() { l.Log("FATAL", "no exit") })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("whatever"))
}
