package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_DURATION_BAD", "soon")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_BOOL_BAD", "maybe")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_FLOAT_BAD", "two")
	t.Setenv("TEST_EMPTY", "")

	assert.Equal(t, "value", GetEnv("TEST_STRING", "default"))
	assert.Equal(t, "default", GetEnv("TEST_EMPTY", "default"))

	assert.Equal(t, 42, GetEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("TEST_INT_BAD", 1))
	assert.Equal(t, 1, GetEnvInt("TEST_EMPTY", 1))

	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("TEST_DURATION_BAD", time.Second))

	assert.False(t, GetEnvBool("TEST_BOOL", true))
	assert.True(t, GetEnvBool("TEST_BOOL_BAD", true))
	assert.True(t, GetEnvBool("TEST_EMPTY", true))

	assert.InDelta(t, 2.5, GetEnvFloat("TEST_FLOAT", 1), 1e-9)
	assert.InDelta(t, 1.5, GetEnvFloat("TEST_FLOAT_BAD", 1.5), 1e-9)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	})

	t.Run("loads without overriding the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		content := "ENGINE_TEST_FROM_FILE=file\nENGINE_TEST_KEEP=file\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("ENGINE_TEST_KEEP", "env")
		t.Setenv("ENGINE_TEST_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("ENGINE_TEST_FROM_FILE"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "file", os.Getenv("ENGINE_TEST_FROM_FILE"))
		assert.Equal(t, "env", os.Getenv("ENGINE_TEST_KEEP"))
	})
}
