package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FAU-CDI/nightcap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	got, err := config.Parse(strings.NewReader(`
engine: badger
path: /var/lib/nightcap
gc_interval: 5m
log_level: debug
`))
	require.NoError(t, err)

	want := config.Default()
	want.Engine = "badger"
	want.Path = "/var/lib/nightcap"
	want.GCInterval = 5 * time.Minute
	want.LogLevel = "debug"
	assert.Equal(t, want, got)

	level, err := got.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParse_Empty(t *testing.T) {
	got, err := config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{
		"unknown_field: 1",
		"gc_interval: -1s",
		"commit_interval: 0",
		"repository: ''",
		"log_level: loud",
		"engine: [",
	} {
		_, err := config.Parse(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nightcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: ':9090'\n"), 0o600))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", got.Listen)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
