package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `<http://example.org/a> <http://example.org/b> <<<http://example.org/a> <http://example.org/b> "c">> <http://example.org/g> .
<http://example.org/a> <http://example.org/b> "c" .
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "input.nts")
	require.NoError(t, os.WriteFile(source, []byte(input), 0o600))

	// lines keep everything
	lines, err := execute(t, "export", "--lines", "-", source)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(lines, "\n"))
	assert.Contains(t, lines, `<<<http://example.org/a> <http://example.org/b> "c">>`)

	// nquads drop the triple term
	quads := filepath.Join(dir, "output.nq")
	_, err = execute(t, "export", "--engine", "badger", "--nquads", quads, source)
	require.NoError(t, err)

	data, err := os.ReadFile(quads)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))

	// sql
	_, err = execute(t, "export", "--sql", filepath.Join(dir, "output.db"), source)
	require.NoError(t, err)
}

func TestExport_Errors(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "input.nts")
	require.NoError(t, os.WriteFile(source, []byte(input), 0o600))

	_, err := execute(t, "export", source)
	assert.ErrorIs(t, err, errNoExport)

	_, err = execute(t, "export", "--lines", "-", "--engine", "unknown", source)
	assert.Error(t, err)

	_, err = execute(t, "export", "--sql", filepath.Join(dir, "output.db"), "--driver", "postgres", source)
	assert.Error(t, err)

	config := filepath.Join(dir, "nightcap.yaml")
	require.NoError(t, os.WriteFile(config, []byte("log_level: loud\n"), 0o600))
	_, err = execute(t, "--config", config, "export", "--lines", "-", source)
	assert.Error(t, err)
}
