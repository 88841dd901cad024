package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"OPI_LOG_LEVEL":             "debug",
		"OPI_LOG_FORMAT":            "json",
		"OPI_PERTURBATION_TOLERANT": "true",
		"OPI_CACHE_SIZE":            "8",
		"OPI_LOAD_TIMEOUT_MS":       "250",
		"OPI_AUTO_CONFIRM":          "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.True(t, c.Tolerant)
	assert.Equal(t, 8, c.CacheSize)
	assert.Equal(t, 250*time.Millisecond, c.LoadTimeout)
	assert.False(t, c.AutoConfirm)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"OPI_LOG_LEVEL":             "loud",
		"OPI_LOG_FORMAT":            "xml",
		"OPI_PERTURBATION_TOLERANT": "maybe",
		"OPI_CACHE_SIZE":            "0",
		"OPI_LOAD_TIMEOUT_MS":       "soon",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			_, err := FromEnv(env(map[string]string{k: v}))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OPI_CACHE_SIZE=5\n"), 0o644))
	t.Setenv("OPI_CACHE_SIZE", "")
	require.NoError(t, os.Unsetenv("OPI_CACHE_SIZE"))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, c.CacheSize)
}

func TestLoad_MissingNamedFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingDefaultFileIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load()
	assert.NoError(t, err)
}

func TestConfigureLogging(t *testing.T) {
	orig := logrus.GetLevel()
	defer logrus.SetLevel(orig)

	c := Defaults()
	c.LogLevel = "warn"
	require.NoError(t, c.ConfigureLogging())
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}
