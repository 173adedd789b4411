package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Publisher stages output files in a hidden directory next to their final
// location and moves them into place only on Commit, so a failed run never
// leaves a partial or mixed set of files behind.
type Publisher struct {
	dir     string
	staging string
	names   []string
	stale   []string
}

// NewPublisher prepares a staging directory inside dir, creating dir if needed.
func NewPublisher(dir string) (*Publisher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	staging, err := os.MkdirTemp(dir, ".histdump-staging-*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Publisher{dir: dir, staging: staging}, nil
}

// Write stages one file named name using fn to produce its contents.
func (p *Publisher) Write(name string, fn func(w io.Writer) error) error {
	if p.staging == "" {
		return fmt.Errorf("publisher already closed")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("output name %q must not contain a directory", name)
	}

	f, err := os.OpenFile(filepath.Join(p.staging, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	p.names = append(p.names, name)
	return nil
}

// ReplaceMatching removes, on Commit, files in the output directory that
// match pattern and were not written in this run. It keeps chunk files of an
// earlier run from mixing with the new set.
func (p *Publisher) ReplaceMatching(pattern string) {
	p.stale = append(p.stale, pattern)
}

// Commit moves every staged file into the output directory and returns the
// final paths in write order.
func (p *Publisher) Commit() ([]string, error) {
	if p.staging == "" {
		return nil, fmt.Errorf("publisher already closed")
	}
	defer p.Abort() //nolint:errcheck

	written := make(map[string]bool, len(p.names))
	for _, name := range p.names {
		written[name] = true
	}

	paths := make([]string, 0, len(p.names))
	for _, name := range p.names {
		dst := filepath.Join(p.dir, name)
		if err := os.Rename(filepath.Join(p.staging, name), dst); err != nil {
			return paths, fmt.Errorf("publish %s: %w", name, err)
		}
		paths = append(paths, dst)
	}

	for _, pattern := range p.stale {
		matches, err := filepath.Glob(filepath.Join(p.dir, pattern))
		if err != nil {
			return paths, fmt.Errorf("match %s: %w", pattern, err)
		}
		for _, m := range matches {
			if written[filepath.Base(m)] {
				continue
			}
			if err := os.Remove(m); err != nil {
				return paths, fmt.Errorf("remove stale %s: %w", m, err)
			}
		}
	}

	return paths, nil
}

// Abort discards every staged file. It is safe to call after Commit.
func (p *Publisher) Abort() error {
	if p.staging == "" {
		return nil
	}
	err := os.RemoveAll(p.staging)
	p.staging = ""
	return err
}
