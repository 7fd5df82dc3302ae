// Package store reads vision documents from disk and writes migrated documents
// back with an atomic replace.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/plaid-labs/plaid-vision/internal/vision"
)

// ErrNotFound is returned (wrapped) when the document file does not exist.
var ErrNotFound = errors.New("document not found")

// ParseError reports a file that exists but does not hold a JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileStore loads and saves documents on the local filesystem.
type FileStore struct{}

// New returns a FileStore.
func New() *FileStore {
	return &FileStore{}
}

// Load reads and decodes the document at path.
func (s *FileStore) Load(path string) (vision.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := vision.Decode(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Save replaces the file at path with the pretty-printed document. The data is
// written to a temporary file in the same directory and renamed over the
// target, so readers never see a partial file. A symlink at path is resolved
// first and its target is replaced. An existing file's permission bits and
// object key order are kept.
func (s *FileStore) Save(path string, doc vision.Document) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	mode := fs.FileMode(0o644)
	var original []byte
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
		original, _ = os.ReadFile(path)
	}

	content, err := doc.EncodeLike(original)
	if err != nil {
		return err
	}

	return writeAtomically(path, content, mode)
}

// writeAtomically writes content to a file atomically using a temporary file and rename.
func writeAtomically(path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// Clean up temp file on error
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("setting permissions on temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = "" // Prevent cleanup since rename succeeded
	return nil
}
