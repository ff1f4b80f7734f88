package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Swapped in tests to simulate rename and cleanup failures.
var (
	renameFunc    = os.Rename
	removeAllFunc = os.RemoveAll
)

var ErrNotAFile = errors.New("not a file")

type FileHandler struct {
	tempPattern string
}

func NewFileHandler(tempPattern string) *FileHandler {
	return &FileHandler{tempPattern: tempPattern}
}

// Stat checks that path names an existing regular file.
func (h *FileHandler) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("the supplied path %q does not point to a file: %w", path, ErrNotAFile)
	}
	return info, nil
}

// Replace atomically replaces the file at path with whatever write produces.
//
// A temporary directory is created next to path so the final rename stays
// on the same filesystem. write runs against a buffered file inside it; the
// file is synced and closed before it is renamed over path. On any failure
// path is left untouched. The temporary directory is removed on every exit
// path and a failure to remove it is reported.
func (h *FileHandler) Replace(path string, write func(w io.Writer) error) (err error) {
	info, err := h.Stat(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	name := filepath.Base(path)

	tmpDir, err := os.MkdirTemp(dir, h.tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temporary directory in %q: %w", dir, err)
	}
	defer func() {
		if rmErr := removeAllFunc(tmpDir); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to delete tmp dir %q: %w", tmpDir, rmErr)
		}
	}()

	tmpPath := filepath.Join(tmpDir, name)
	if err := writeTemp(tmpPath, info.Mode().Perm(), write); err != nil {
		return err
	}

	if err := renameFunc(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	_ = syncDirBestEffort(dir)
	return nil
}

func writeTemp(path string, perm os.FileMode, write func(w io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	// OpenFile applies the umask; the replacement keeps the original bits.
	if runtime.GOOS != "windows" {
		if err := f.Chmod(perm); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to set permissions on temporary file: %w", err)
		}
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed while writing to file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	return nil
}

func syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
