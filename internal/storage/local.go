package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxNameAttempts = 5

// Local stores uploads as plain files under a single directory.
// Names are unique per call, so concurrent saves never share a file and need no locking.
type Local struct {
	root string
	now  func() time.Time
}

// NewLocal resolves dir to an absolute path and creates it if absent.
func NewLocal(dir string) (*Local, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, now: time.Now}, nil
}

// Root returns the absolute upload directory.
func (l *Local) Root() string { return l.root }

// Save writes r to a new file named <stem>-<unix nanos><ext>, derived from originalName.
// A partially written file is removed on failure.
func (l *Local) Save(ctx context.Context, originalName string, r io.Reader) (*SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stem, ext := splitName(originalName)
	ts := l.now().UnixNano()

	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < maxNameAttempts; i++ {
		name = fmt.Sprintf("%s-%d%s", stem, ts+int64(i), ext)
		f, err = os.OpenFile(filepath.Join(l.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create stored file: %w", err)
	}

	path := f.Name()
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write stored file: %w", err)
	}

	return &SavedFile{Name: name, Path: path, Size: n}, nil
}

// Resolve maps a caller-supplied path to an absolute path inside the upload directory.
// Relative paths are taken relative to the upload directory.
func (l *Local) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", ErrOutsideRoot
	}
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(l.root, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(l.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return abs, nil
}

// splitName keeps the part of the base name before its first dot and the
// extension after its last dot.
func splitName(originalName string) (string, string) {
	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	stem, ext := base, ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		ext = base[i:]
		stem = base[:strings.Index(base, ".")]
	}
	if stem == "" || stem == "/" {
		stem = "upload"
	}
	return stem, ext
}
