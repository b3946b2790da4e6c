package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/ezweb"
)

// Ensure FileStore implements ezweb.PageStore at compile time.
var _ ezweb.PageStore = (*FileStore)(nil)

// FileStore implements ezweb.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
	format  Format

	mu    sync.Mutex
	files int
	bytes int
}

// NewFileStore creates a new FileStore writing pages in format.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string, format Format) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		format:  format,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the page summary into the temporary directory.
func (s *FileStore) Save(ctx context.Context, page *ezweb.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := page.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL, s.format.Ext())
	if err != nil {
		return err
	}

	var content []byte
	switch s.format {
	case FormatMarkdown:
		md, err := FormatPageMarkdown(page)
		if err != nil {
			return err
		}
		content = []byte(md)
	default:
		content, err = FormatPageJSON(page)
		if err != nil {
			return err
		}
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.files++
	s.bytes += len(content)
	s.mu.Unlock()
	return nil
}

// Written reports the files and bytes saved since the store was created.
func (s *FileStore) Written() (files, bytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files, s.bytes
}

// Commit replaces the output directory with the saved pages. Committing
// without saved pages leaves an empty output directory.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved pages.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
