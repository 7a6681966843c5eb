package astio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"treelower/internal/ast"
	"treelower/internal/source"
)

// Ext is the conventional extension of snapshot files.
const Ext = ".astpack"

// WriteFile encodes a snapshot to path, replacing it atomically.
func WriteFile(path string, files []*ast.File, sources []Source) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(f.Name()))
		}
	}()

	w := bufio.NewWriter(f)
	if err = Encode(w, files, sources); err != nil {
		return errors.Join(err, f.Close())
	}
	if err = w.Flush(); err != nil {
		return errors.Join(err, f.Close())
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string, fs *source.FileSet) ([]*ast.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	files, err := Decode(bufio.NewReader(f), fs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return files, nil
}
