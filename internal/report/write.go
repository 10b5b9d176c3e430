package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutputWrite marks a report destination that could not be written.
var ErrOutputWrite = errors.New("output write error")

// WriteError reports a failure to write a report file.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrOutputWrite.
func (e *WriteError) Is(target error) bool { return target == ErrOutputWrite }

// WriteFile writes data to a temporary file beside path and renames it into
// place, so a failed write never leaves a partial report behind. The parent
// directory must already exist.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := stageFile(path, data, perm)
	if err != nil {
		return err
	}
	return f.commit()
}

// stagedFile is a fully written temporary file waiting to replace path.
type stagedFile struct {
	path string
	abs  string
	tmp  string
}

// stageFile writes data to a temporary file in the directory of path.
func stageFile(path string, data []byte, perm os.FileMode) (*stagedFile, error) {
	f, err := writeTemp(path, data, perm)
	if err != nil {
		return nil, &WriteError{Path: path, Cause: err}
	}
	return f, nil
}

// commit renames the temporary file over its target.
func (f *stagedFile) commit() error {
	if err := os.Rename(f.tmp, f.abs); err != nil {
		_ = os.Remove(f.tmp)
		return &WriteError{Path: f.path, Cause: fmt.Errorf("replace target file: %w", err)}
	}
	return nil
}

// discard removes the temporary file.
func (f *stagedFile) discard() { _ = os.Remove(f.tmp) }

func writeTemp(path string, data []byte, perm os.FileMode) (*stagedFile, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("path is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("refusing directory write target")
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".asmreport-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write temporary file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("chmod temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temporary file: %w", err)
	}

	cleanup = false
	return &stagedFile{path: path, abs: abs, tmp: tmpPath}, nil
}
