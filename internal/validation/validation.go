// Package validation checks command line input before any OCR work starts.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions lists the file types the OCR engines accept.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// IsValidImagePath checks that path exists, is a regular file and carries an
// image extension.
func IsValidImagePath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}

	if ext := strings.ToLower(filepath.Ext(path)); !imageExtensions[ext] {
		return fmt.Errorf("unsupported image type '%s' for %s", ext, path)
	}

	return nil
}

// ValidateInputFiles checks every path and reports all problems at once.
func ValidateInputFiles(paths []string) error {
	if len(paths) == 0 {
		return errors.New("no input files given")
	}
	var errs []error
	for _, path := range paths {
		if err := IsValidImagePath(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
