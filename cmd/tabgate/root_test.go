package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabgate/internal/tabular"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestInspect_CSV(t *testing.T) {
	p := writeFile(t, "pairs.csv", "a,b\n1,2\n3,\n5,6\n")

	out, err := execute(t, "inspect", p, "--preview", "2")
	require.NoError(t, err)

	var rep inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, tabular.FormatCSV, rep.Format)
	assert.Equal(t, []string{"a", "b"}, rep.Columns)
	assert.Equal(t, 3, rep.RowCount)
	require.Len(t, rep.Preview, 2)
	assert.Equal(t, "1", rep.Preview[0]["a"])
	assert.Nil(t, rep.Preview[1]["b"])
}

func TestInspect_DefaultPreview(t *testing.T) {
	content := "v\n"
	for i := 0; i < 15; i++ {
		content += "1\n"
	}
	out, err := execute(t, "inspect", writeFile(t, "long.csv", content))
	require.NoError(t, err)

	var rep inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 15, rep.RowCount)
	assert.Len(t, rep.Preview, defaultPreviewRows)
}

func TestInspect_Errors(t *testing.T) {
	_, err := execute(t, "inspect", writeFile(t, "notes.txt", "hello"))
	assert.ErrorIs(t, err, tabular.ErrUnsupportedFormat)

	_, err = execute(t, "inspect", writeFile(t, "empty.csv", ""))
	assert.ErrorIs(t, err, tabular.ErrEmptyDataset)

	_, err = execute(t, "inspect", writeFile(t, "x.csv", "a\n1\n"), "--preview", "-1")
	assert.Error(t, err)

	_, err = execute(t, "inspect")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tabgate dev\n", out)
}
