// Package storage keeps OCR dump files in a directory of an afero filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"github.com/spf13/afero"
)

type afsDumpStorage struct {
	fs     afero.Fs
	dir    string
	logger logger.Logger

	// guards the exists check and rename of Commit
	commitMu sync.Mutex
}

// NewDumpStorage creates a DumpStorage rooted at dir, creating the directory if needed
func NewDumpStorage(fs afero.Fs, dir string, logger logger.Logger) (dumps.DumpStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("dump storage directory must not be empty")
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dump storage directory %s: %w", dir, err)
	}

	return &afsDumpStorage{
		fs:     fs,
		dir:    dir,
		logger: logger,
	}, nil
}

func (s *afsDumpStorage) Dir() string {
	return s.dir
}

func (s *afsDumpStorage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *afsDumpStorage) validName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid dump file name %q", name)
	}
	return nil
}

func (s *afsDumpStorage) Create(name string) (dumps.StagedFile, error) {
	if err := s.validName(name); err != nil {
		return nil, err
	}

	file, err := afero.TempFile(s.fs, s.dir, "."+name+".partial-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file for %s: %w", name, err)
	}

	return &stagedFile{
		file:    file,
		fs:      s.fs,
		final:   s.Path(name),
		storage: s,
	}, nil
}

func (s *afsDumpStorage) Open(name string) (io.ReadCloser, error) {
	if err := s.validName(name); err != nil {
		return nil, err
	}

	file, err := s.fs.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open dump file %s: %w", name, err)
	}
	return file, nil
}

func (s *afsDumpStorage) Stat(name string) (os.FileInfo, error) {
	if err := s.validName(name); err != nil {
		return nil, err
	}
	return s.fs.Stat(s.Path(name))
}

func (s *afsDumpStorage) Remove(name string) error {
	if err := s.validName(name); err != nil {
		return err
	}

	err := s.fs.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove dump file %s: %w", name, err)
	}
	if err == nil {
		s.logger.Info("Removed dump file ", s.Path(name))
	}
	return nil
}

type stagedFile struct {
	file    afero.File
	fs      afero.Fs
	final   string
	storage *afsDumpStorage
	done    bool
}

func (f *stagedFile) Write(p []byte) (int, error) {
	return f.file.Write(p)
}

func (f *stagedFile) Commit() error {
	if f.done {
		return fmt.Errorf("staged file %s already finished", f.final)
	}
	f.done = true

	if err := f.file.Sync(); err != nil {
		_ = f.file.Close()
		_ = f.fs.Remove(f.file.Name())
		return fmt.Errorf("failed to sync %s: %w", f.final, err)
	}
	if err := f.file.Close(); err != nil {
		_ = f.fs.Remove(f.file.Name())
		return fmt.Errorf("failed to close %s: %w", f.final, err)
	}
	if err := f.fs.Chmod(f.file.Name(), 0644); err != nil {
		_ = f.fs.Remove(f.file.Name())
		return fmt.Errorf("failed to chmod %s: %w", f.final, err)
	}
	return f.moveIntoPlace()
}

// moveIntoPlace renames the staged file to its final name. An existing dump
// file is never replaced.
func (f *stagedFile) moveIntoPlace() error {
	f.storage.commitMu.Lock()
	defer f.storage.commitMu.Unlock()

	if _, err := f.fs.Stat(f.final); err == nil {
		_ = f.fs.Remove(f.file.Name())
		return fmt.Errorf("dump file %s: %w", f.final, dumps.ErrDumpExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		_ = f.fs.Remove(f.file.Name())
		return fmt.Errorf("failed to stat %s: %w", f.final, err)
	}

	if err := f.fs.Rename(f.file.Name(), f.final); err != nil {
		_ = f.fs.Remove(f.file.Name())
		return fmt.Errorf("failed to move dump into place at %s: %w", f.final, err)
	}
	return nil
}

func (f *stagedFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true

	_ = f.file.Close()
	if err := f.fs.Remove(f.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove partial dump %s: %w", f.file.Name(), err)
	}
	f.storage.logger.Warn("Discarded partial dump ", f.final)
	return nil
}
