package store

import (
	"os"
	"path/filepath"
)

// FindConfigFile looks for a support file (such as a payment type
// vocabulary) in the standard locations: as given, ./config, ./database and
// finally ~/.config/revolut-ocr.
func FindConfigFile(filename string) (string, error) {
	if filename == "" {
		return "", os.ErrNotExist
	}

	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "revolut-ocr", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}
