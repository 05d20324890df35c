package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file in a temp dir & returns its path
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument(writeFile(t, "a.yaml", "name: hello\ntags: [a, b]\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "hello", "tags": []interface{}{"a", "b"}}, doc)

	doc, err = LoadDocument(writeFile(t, "a.json", `{"count": 1, "ok": true}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"count": 1, "ok": true}, doc)

	doc, err = LoadDocument(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestLoadDocumentErrors(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = LoadDocument(writeFile(t, "bad.yaml", "a: [1, 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}
