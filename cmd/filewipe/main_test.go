package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filewipe_enterprise/internal/audit"
	"filewipe_enterprise/internal/config"
	"filewipe_enterprise/internal/logging"
	"filewipe_enterprise/internal/wipe"
)

func setupRuntime(t *testing.T) string {
	t.Helper()
	work := t.TempDir()
	cfg = config.Default()
	cfg.Security.ProtectedPaths = []string{filepath.Join(work, "protected")}
	cfg.Reporting.LocalPath = filepath.Join(work, "reports")
	cfg.Reporting.AuditDB = filepath.Join(work, "reports", "audit.db")
	logger = logging.NewNopLogger()
	t.Cleanup(func() {
		cfg = nil
		logger = nil
	})
	return work
}

func TestConvertPath(t *testing.T) {
	tests := []struct {
		in, goos, want string
	}{
		{"/mnt/c/Users/me/file.txt", "windows", `C:\Users\me\file.txt`},
		{"/mnt/d", "windows", `D:\`},
		{`C:/Temp//x/`, "windows", `C:\Temp\x`},
		{`C:\Users\me\Documents`, "linux", "/mnt/c/Users/me/Documents"},
		{"/tmp/a/../b", "linux", "/tmp/b"},
		{"relative/dir/", "linux", "relative/dir"},
		{"", "linux", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in+"@"+tt.goos, func(t *testing.T) {
			if tt.goos != "windows" && runtime.GOOS == "windows" {
				t.Skip("unix separators")
			}
			assert.Equal(t, tt.want, convertPath(tt.in, tt.goos))
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, home+"/docs", expandHome(" ~/docs "))
	assert.Equal(t, "/abs/~x", expandHome(`"/abs/~x"`))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, EXIT_SUCCESS, exitCode(nil))
	assert.Equal(t, EXIT_WARNING, exitCode(errors.Wrap(errFailedRecords, "1 из 3")))
	assert.Equal(t, EXIT_ERROR, exitCode(errors.New("ошибка загрузки конфигурации")))
	assert.Equal(t, EXIT_ERROR, exitCode(wipe.ErrInvalidStrategy))
}

func TestConfirm(t *testing.T) {
	assert.True(t, confirm(strings.NewReader("y\n")))
	assert.True(t, confirm(strings.NewReader("YES\n")))
	assert.True(t, confirm(strings.NewReader("д")))
	assert.False(t, confirm(strings.NewReader("\n")))
	assert.False(t, confirm(strings.NewReader("nope\n")))
	assert.False(t, confirm(strings.NewReader("")))
}

func TestExecuteWipeConfirmedRun(t *testing.T) {
	work := setupRuntime(t)
	root := filepath.Join(work, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("secret"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.png"), []byte("pixels"), 0644))

	wc := wipe.WipeConfiguration{StrategyID: wipe.ZeroFill, Passes: 1, ChunkSize: 1024, DeleteAfterWipe: true}
	var out bytes.Buffer
	report, err := executeWipe(context.Background(), root, wc, wipeOptions{}, strings.NewReader("y\n"), &out)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Summary.TotalSuccess)
	assert.Equal(t, int64(12), report.Summary.TotalBytesFreed)
	assert.Equal(t, "Zero Fill", report.Strategy)
	assert.Contains(t, out.String(), "Продолжить?")
	assert.NoFileExists(t, filepath.Join(root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "sub", "b.png"))

	files, err := filepath.Glob(filepath.Join(cfg.Reporting.LocalPath, "filewipe_report_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	ledger, err := audit.Open(cfg.Reporting.AuditDB)
	require.NoError(t, err)
	defer ledger.Close()
	run, err := ledger.GetRun(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, root, run.Root)

	shown, err := loadReport(context.Background(), ledger, report.RunID)
	require.NoError(t, err)
	assert.Len(t, shown.Records, 2)
}

func TestExecuteWipeDeclined(t *testing.T) {
	work := setupRuntime(t)
	file := filepath.Join(work, "keep.txt")
	require.NoError(t, os.WriteFile(file, []byte("keep me"), 0644))

	wc := wipe.WipeConfiguration{StrategyID: wipe.RandomFill, Passes: 2, ChunkSize: 1024, DeleteAfterWipe: true}
	var out bytes.Buffer
	report, err := executeWipe(context.Background(), file, wc, wipeOptions{}, strings.NewReader("n\n"), &out)
	require.NoError(t, err)
	assert.Nil(t, report)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestExecuteWipeForceWithHexdump(t *testing.T) {
	work := setupRuntime(t)
	cfg.Reporting.Enabled = false
	file := filepath.Join(work, "dump.txt")
	require.NoError(t, os.WriteFile(file, []byte("Password123"), 0644))

	wc := wipe.WipeConfiguration{StrategyID: wipe.ZeroFill, Passes: 1, ChunkSize: 1024, DeleteAfterWipe: false}
	var out bytes.Buffer
	report, err := executeWipe(context.Background(), file, wc, wipeOptions{force: true, hexdump: true}, strings.NewReader(""), &out)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 1, report.Summary.TotalKept)
	assert.Contains(t, out.String(), "--- BEFORE WIPE ("+file+") ---")
	assert.Contains(t, out.String(), "--- AFTER WIPE ("+file+") ---")
	assert.NotContains(t, out.String(), "Продолжить?")
	assert.NoDirExists(t, cfg.Reporting.LocalPath)
}

func TestExecuteWipeRejectsProtectedPath(t *testing.T) {
	work := setupRuntime(t)
	protected := filepath.Join(work, "protected")
	require.NoError(t, os.MkdirAll(protected, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(protected, "x.txt"), []byte("x"), 0644))

	wc := wipe.WipeConfiguration{StrategyID: wipe.ZeroFill, Passes: 1, ChunkSize: 1024}
	_, err := executeWipe(context.Background(), protected, wc, wipeOptions{force: true}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(protected, "x.txt"))
}

func TestExecuteWipeFailedRecordsExitCode(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	work := setupRuntime(t)
	root := filepath.Join(work, "mixed")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.txt"), []byte("ok"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ro.txt"), []byte("ro"), 0444))

	wc := wipe.WipeConfiguration{StrategyID: wipe.ZeroFill, Passes: 1, ChunkSize: 1024, DeleteAfterWipe: true}
	report, err := executeWipe(context.Background(), root, wc, wipeOptions{force: true}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errFailedRecords)
	assert.Equal(t, EXIT_WARNING, exitCode(err))
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Summary.TotalFailure)
	assert.Equal(t, 1, report.Summary.TotalSuccess)
}

func TestApplyWipeFlags(t *testing.T) {
	setupRuntime(t)
	cmd := newWipeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-s", "3", "--chunk-size", "4MiB", "--delete=false", "-p", "2"}))

	require.NoError(t, applyWipeFlags(cmd, cfg))
	assert.Equal(t, "3", cfg.Wipe.Strategy)
	assert.Equal(t, 2, cfg.Wipe.Passes)
	assert.Equal(t, int64(4*1024*1024), cfg.Wipe.ChunkSize)
	assert.False(t, cfg.Wipe.DeleteAfterWipe)

	bad := newWipeCmd()
	require.NoError(t, bad.ParseFlags([]string{"--chunk-size", "lots"}))
	assert.Error(t, applyWipeFlags(bad, cfg))
}
