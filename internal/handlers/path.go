// school-erp/internal/handlers/path.go
package handlers

import (
	"errors"
	"os"
)

// photosBaseDir returns the directory for stored student photos.
// Defaults to ./storage/photos when UPLOADS_DIR is not set.
func photosBaseDir() string {
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		return v
	}
	return "./storage/photos"
}

// ensureDir guarantees the directory exists. Errors if the path exists and
// is a regular file.
func ensureDir(path string) error {
	if path == "" {
		return errors.New("empty dir path")
	}
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.New("path exists and is not a directory")
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0o755)
}
