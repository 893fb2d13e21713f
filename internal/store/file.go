package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/piwi3910/PlateMap/internal/model"
)

// LoadFile reads every plate from the file at path.
func (l Loader) LoadFile(path string) ([]*model.Plate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plate file: %w", err)
	}
	defer file.Close()

	plates, err := l.Load(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return plates, nil
}

// LoadFile reads every plate from the file at path using the default palette.
func LoadFile(path string) ([]*model.Plate, error) {
	return Loader{}.LoadFile(path)
}

// SaveFile writes plates to path. The data goes to a temporary file that
// replaces path only once it is complete, and <path>.lock is held meanwhile
// so two writers cannot interleave.
func SaveFile(path string, plates []*model.Plate) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plate directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock plate file: %w", err)
	}
	if !locked {
		return fmt.Errorf("plate file %s is locked by another process", path)
	}
	defer lock.Unlock()

	var buf bytes.Buffer
	if err := Save(&buf, plates); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp plate file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write plate file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod plate file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close plate file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace plate file: %w", err)
	}
	return nil
}
