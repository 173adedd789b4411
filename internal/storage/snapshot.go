package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Snapshot is a private copy of a history database. The browser keeps its
// own file locked while running, so the run reads the copy and removes it
// on Close.
type Snapshot struct {
	// Path is the location of the copied database file.
	Path string

	dir string
}

// NewSnapshot copies src into a fresh directory under tempDir (the system
// temp dir when empty). Failures are reported as *UnavailableError.
func NewSnapshot(src, tempDir string) (*Snapshot, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, &UnavailableError{Path: src, Err: err}
	}
	if info.IsDir() {
		return nil, &UnavailableError{Path: src, Err: fmt.Errorf("is a directory")}
	}

	dir, err := os.MkdirTemp(tempDir, "histdump-*")
	if err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	dst := filepath.Join(dir, "History")
	if err := copyFile(src, dst); err != nil {
		os.RemoveAll(dir) //nolint:errcheck
		return nil, &UnavailableError{Path: src, Err: err}
	}

	return &Snapshot{Path: dst, dir: dir}, nil
}

// Close removes the copied database and its directory. It is safe to call
// more than once.
func (s *Snapshot) Close() error {
	if s == nil || s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
