package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeGen(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewGenCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestGen(t *testing.T) {
	a := writeFile(t, "a.yaml", "name: hello\ncount: 1\n")

	out, err := executeGen(t, "text", a)
	require.NoError(t, err)
	expect := `map[string]interface{}{
	"count": 1,
	"name":  "hello",
}`
	assert.Equal(t, strings.Fields(expect), strings.Fields(out))
}

func TestGenExclude(t *testing.T) {
	a := writeFile(t, "a.yaml", "name: hello\ncount: 1\n")

	out, err := executeGen(t, "text", "--exclude", "count", a)
	require.NoError(t, err)
	assert.NotContains(t, out, "count")
	assert.Contains(t, out, `"hello"`)
}

func TestGenJSON(t *testing.T) {
	a := writeFile(t, "a.yaml", "[1, 2]\n")

	out, err := executeGen(t, "json", a)
	require.NoError(t, err)

	var got GenResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "[]interface{}{\n\t1,\n\t2,\n}", got.Code)
}
