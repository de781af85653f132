package phonebook

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// newFilePerm is the mode of a phone book file created by SaveFile.
const newFilePerm fs.FileMode = 0o644

// IOError reports a phone book file that could not be opened, written or
// closed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("phonebook: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SaveFile writes the book to path. The data goes to a temporary file in the
// destination's directory which is then renamed over it, so a failed save
// leaves any existing file intact. Symlinks are followed and an existing
// file keeps its permissions. When the directory is not writable but the
// file is, the file is rewritten in place.
func (b *Book) SaveFile(path string) error {
	if path == "" {
		return &IOError{Op: "create", Path: path, Err: os.ErrInvalid}
	}

	var buf bytes.Buffer
	if err := b.Save(&buf); err != nil {
		return err
	}

	target, perm, exists, err := resolveTarget(path)
	if err != nil {
		return &IOError{Op: "stat", Path: path, Err: err}
	}

	err = replaceFile(target, buf.Bytes(), perm)
	if err != nil && exists && errors.Is(err, fs.ErrPermission) {
		err = overwriteFile(target, buf.Bytes())
	}
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return err
	}
	return nil
}

// resolveTarget follows symlinks in path and reports the file to write, the
// mode it should have, and whether it already exists. A dangling link
// resolves one level to the file it names.
func resolveTarget(path string) (target string, perm fs.FileMode, exists bool, err error) {
	target, err = filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		if link, lerr := os.Readlink(path); lerr == nil {
			if !filepath.IsAbs(link) {
				link = filepath.Join(filepath.Dir(path), link)
			}
			return link, newFilePerm, false, nil
		}
		return path, newFilePerm, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}

	fi, err := os.Stat(target)
	if err != nil {
		return "", 0, false, err
	}
	return target, fi.Mode().Perm(), true, nil
}

// replaceFile atomically swaps data into target through a temporary sibling.
func replaceFile(target string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: target, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &IOError{Op: "write", Path: target, Err: err}
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return &IOError{Op: "chmod", Path: target, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: target, Err: err}
	}
	if err := os.Rename(tmpName, target); err != nil {
		return &IOError{Op: "rename", Path: target, Err: err}
	}
	committed = true
	return nil
}

// overwriteFile truncates target and writes data into it.
func overwriteFile(target string, data []byte) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return &IOError{Op: "open", Path: target, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return &IOError{Op: "write", Path: target, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: target, Err: err}
	}
	return nil
}

// LoadFile replaces the book's contents with the contacts stored at path.
func (b *Book) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	if err := b.Load(f); err != nil {
		if errors.Is(err, ErrFormat) {
			return fmt.Errorf("%w (%s)", err, path)
		}
		return &IOError{Op: "read", Path: path, Err: err}
	}
	return nil
}
