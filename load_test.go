package nightcap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/nightcap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.ttl", "a.nq", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.nq"), 0o700))

	got, err := nightcap.FindSources(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.nq"), filepath.Join(dir, "b.ttl")}, got)

	got, err = nightcap.FindSources(filepath.Join(dir, "b.ttl"), filepath.Join(dir, "a.nq"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.ttl"), filepath.Join(dir, "a.nq")}, got)

	for _, args := range [][]string{
		nil,
		{filepath.Join(dir, "notes.txt")},
		{filepath.Join(dir, "missing.nq")},
		{t.TempDir()},
	} {
		_, err := nightcap.FindSources(args...)
		assert.Error(t, err, args)
	}
}
