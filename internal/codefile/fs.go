package codefile

import (
	"io"
	"io/fs"
	"os"
)

type TempFile interface {
	io.Writer
	Name() string
	Chmod(fs.FileMode) error
	Sync() error
	Close() error
}

// FS is the slice of the filesystem a code file touches.
type FS interface {
	Stat(string) (fs.FileInfo, error)
	Mkdir(string, fs.FileMode) error
	Chmod(string, fs.FileMode) error
	ReadFile(string) ([]byte, error)
	WriteFile(string, []byte, fs.FileMode) error
	CreateTemp(string, string) (TempFile, error)
	Rename(string, string) error
	Remove(string) error
}

type OSFS struct{}

func (OSFS) Stat(p string) (fs.FileInfo, error)         { return os.Stat(p) }
func (OSFS) Mkdir(p string, m fs.FileMode) error        { return os.Mkdir(p, m) }
func (OSFS) Chmod(p string, m fs.FileMode) error        { return os.Chmod(p, m) }
func (OSFS) ReadFile(p string) ([]byte, error)          { return os.ReadFile(p) }
func (OSFS) WriteFile(p string, b []byte, m fs.FileMode) error {
	return os.WriteFile(p, b, m)
}
func (OSFS) CreateTemp(d, pat string) (TempFile, error) { return os.CreateTemp(d, pat) }
func (OSFS) Rename(a, b string) error                   { return os.Rename(a, b) }
func (OSFS) Remove(p string) error                      { return os.Remove(p) }
