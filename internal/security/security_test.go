package security

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filewipe_enterprise/internal/config"
)

func testConfig(protected ...string) *config.Config {
	cfg := config.Default()
	cfg.Security.ProtectedPaths = protected
	return cfg
}

func TestValidatePathOK(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.Equal(t, Validation{Valid: true, Reason: "OK"}, ValidatePath(file, testConfig()))
	assert.Equal(t, Validation{Valid: true, Reason: "OK"}, ValidatePath(dir, testConfig()))
	assert.NoError(t, Check(file, testConfig()))
}

func TestValidatePathMissingAndEmpty(t *testing.T) {
	v := ValidatePath(filepath.Join(t.TempDir(), "nope"), nil)
	assert.False(t, v.Valid)
	assert.Equal(t, "Path does not exist", v.Reason)

	v = ValidatePath("", nil)
	assert.False(t, v.Valid)
	assert.Error(t, Check("", nil))
}

func TestValidatePathProtected(t *testing.T) {
	dir := t.TempDir()
	protected := filepath.Join(dir, "system")
	inner := filepath.Join(protected, "lib", "core.dll")
	require.NoError(t, os.MkdirAll(filepath.Dir(inner), 0755))
	require.NoError(t, os.WriteFile(inner, []byte("x"), 0644))
	sibling := filepath.Join(dir, "system-backup")
	require.NoError(t, os.MkdirAll(sibling, 0755))

	cfg := testConfig(protected)

	v := ValidatePath(inner, cfg)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Reason, "Protected system path")

	v = ValidatePath(protected, cfg)
	assert.False(t, v.Valid)

	v = ValidatePath(dir, cfg)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Reason, "contains protected")

	// Общий префикс имени не считается вложенностью
	assert.True(t, ValidatePath(sibling, cfg).Valid)
}

func TestValidatePathRejectsFilesystemRoot(t *testing.T) {
	root := string(filepath.Separator)
	if runtime.GOOS == "windows" {
		root = os.Getenv("SystemDrive") + `\`
	}

	v := ValidatePath(root, testConfig())
	assert.False(t, v.Valid)
	assert.Contains(t, v.Reason, "root")
}

func TestValidatePathReadOnlyFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	file := filepath.Join(t.TempDir(), "ro.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0444))

	v := ValidatePath(file, testConfig())
	assert.False(t, v.Valid)
	assert.Equal(t, "No write permission", v.Reason)
}

func TestIsWithin(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "srv", "data")
	assert.True(t, isWithin(base, base))
	assert.True(t, isWithin(base, filepath.Join(base, "x", "y")))
	assert.False(t, isWithin(base, filepath.Join(string(filepath.Separator), "srv", "database")))
	assert.False(t, isWithin(base, filepath.Join(string(filepath.Separator), "srv")))
}
