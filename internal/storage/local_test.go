package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return l
}

func TestNewLocal_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	l, err := NewLocal(dir)
	require.NoError(t, err)

	st, err := os.Stat(l.Root())
	require.NoError(t, err)
	assert.True(t, st.IsDir())
	assert.True(t, filepath.IsAbs(l.Root()))
}

func TestLocal_Save(t *testing.T) {
	l := newTestLocal(t)
	l.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	saved, err := l.Save(context.Background(), "sales.report.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	assert.Equal(t, "sales-1700000000000000000.csv", saved.Name)
	assert.Equal(t, filepath.Join(l.Root(), saved.Name), saved.Path)
	assert.Equal(t, int64(8), saved.Size)

	b, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))
}

func TestLocal_Save_SameInstantDoesNotCollide(t *testing.T) {
	l := newTestLocal(t)
	l.now = func() time.Time { return time.Unix(0, 42) }

	first, err := l.Save(context.Background(), "a.csv", strings.NewReader("x"))
	require.NoError(t, err)
	second, err := l.Save(context.Background(), "a.csv", strings.NewReader("y"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestLocal_Save_Concurrent(t *testing.T) {
	l := newTestLocal(t)

	var wg sync.WaitGroup
	paths := make([]string, 20)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			saved, err := l.Save(context.Background(), "same.csv", strings.NewReader("a\n1\n"))
			if assert.NoError(t, err) {
				paths[i] = saved.Path
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocal_Save_RemovesPartialFile(t *testing.T) {
	l := newTestLocal(t)

	_, err := l.Save(context.Background(), "a.csv", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(l.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocal_Save_CanceledContext(t *testing.T) {
	l := newTestLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Save(ctx, "a.csv", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_Resolve(t *testing.T) {
	l := newTestLocal(t)
	root := l.Root()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "absolute inside", in: filepath.Join(root, "a-1.csv"), want: filepath.Join(root, "a-1.csv")},
		{name: "relative inside", in: "a-1.csv", want: filepath.Join(root, "a-1.csv")},
		{name: "dot segments stay inside", in: filepath.Join(root, "x", "..", "a.csv"), want: filepath.Join(root, "a.csv")},
		{name: "traversal", in: filepath.Join(root, "..", "secret.csv"), wantErr: true},
		{name: "relative traversal", in: "../../etc/passwd", wantErr: true},
		{name: "other directory", in: "/etc/passwd", wantErr: true},
		{name: "sibling with shared prefix", in: root + "-evil/a.csv", wantErr: true},
		{name: "root itself", in: root, wantErr: true},
		{name: "empty", in: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Resolve(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, stem, ext string
	}{
		{"data.csv", "data", ".csv"},
		{"my.data.v2.xlsx", "my", ".xlsx"},
		{"../../etc/evil.csv", "evil", ".csv"},
		{`C:\Users\me\book.xls`, "book", ".xls"},
		{".csv", "upload", ".csv"},
		{"noext", "noext", ""},
	}
	for _, tt := range tests {
		stem, ext := splitName(tt.in)
		assert.Equal(t, tt.stem, stem, tt.in)
		assert.Equal(t, tt.ext, ext, tt.in)
	}
}
