package codefile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

// Failure tells which step of Save went wrong.
type Failure int

const (
	FailDirCreate Failure = iota + 1
	FailFileWrite
)

func (k Failure) String() string {
	switch k {
	case FailDirCreate:
		return "create directory"
	case FailFileWrite:
		return "write file"
	default:
		return "unknown"
	}
}

// SaveError is returned by Save. Path is the directory for FailDirCreate
// and the target file for FailFileWrite.
type SaveError struct {
	Failure Failure
	Path    string
	Err     error
}

func (e *SaveError) Error() string {
	switch e.Failure {
	case FailDirCreate:
		return fmt.Sprintf("unable to create the directory '%s': %v", e.Path, e.Err)
	case FailFileWrite:
		return fmt.Sprintf("unable to write the file '%s': %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("unable to save '%s': %v", e.Path, e.Err)
	}
}

func (e *SaveError) Unwrap() error { return e.Err }

// Save writes the content to disk according to the operation. New files go
// through a temp file and a rename, existing ones are rewritten in place and
// skip files are left untouched. Mode changes are best effort and never fail a save.
func (f *CodeFile) Save() error {
	log := f.o.Logger.With(zap.String("path", f.path), zap.String("operation", f.op.String()))

	switch f.op {
	case OpSkip:
		log.Debug("code file unchanged")
		return nil
	case OpNew:
		dir := filepath.Dir(f.path)
		if err := f.ensureDir(dir); err != nil {
			log.Warn("create directory failed", zap.String("dir", dir), zap.Error(err))
			return &SaveError{Failure: FailDirCreate, Path: dir, Err: err}
		}
	}

	write := f.writeAtomic
	if f.op == OpOverwrite {
		write = f.writeInPlace
	}
	if err := write(); err != nil {
		log.Warn("write failed", zap.Error(err))
		return &SaveError{Failure: FailFileWrite, Path: f.path, Err: err}
	}
	log.Info("code file saved", zap.Int("size", len(f.content)))
	return nil
}

// ensureDir creates dir and any missing parents one level at a time, then
// sets each new directory to DirMode explicitly so the process umask never
// decides the final mode.
func (f *CodeFile) ensureDir(dir string) error {
	info, err := f.o.FS.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	parent := filepath.Dir(dir)
	if parent != dir {
		if err := f.ensureDir(parent); err != nil {
			return err
		}
	}

	if err := f.o.FS.Mkdir(dir, f.o.DirMode); err != nil {
		if errors.Is(err, fs.ErrExist) {
			if info, statErr := f.o.FS.Stat(dir); statErr == nil && info.IsDir() {
				return nil
			}
		}
		return err
	}
	if err := f.o.FS.Chmod(dir, f.o.DirMode); err != nil {
		f.o.Logger.Debug("chmod directory", zap.String("dir", dir), zap.Error(err))
	}
	return nil
}

// writeInPlace truncates and rewrites the existing file, following symlinks
// and keeping the inode, owner and hard links.
func (f *CodeFile) writeInPlace() error {
	if err := f.o.FS.WriteFile(f.path, f.content, f.o.FileMode); err != nil {
		return err
	}
	if err := f.o.FS.Chmod(f.path, f.o.FileMode); err != nil {
		f.o.Logger.Debug("chmod file", zap.String("file", f.path), zap.Error(err))
	}
	return nil
}

// writeAtomic writes new files through a temp file in the target directory and
// renames it over the target.
func (f *CodeFile) writeAtomic() (err error) {
	dir := filepath.Dir(f.path)
	tmp, err := f.o.FS.CreateTemp(dir, ".gencode-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = f.o.FS.Remove(name)
		}
	}()

	if _, err = tmp.Write(f.content); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if chmodErr := tmp.Chmod(f.o.FileMode); chmodErr != nil {
		f.o.Logger.Debug("chmod file", zap.String("file", name), zap.Error(chmodErr))
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return f.o.FS.Rename(name, f.path)
}
