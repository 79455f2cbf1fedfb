package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes a default configuration into dir, skipping files that
// already exist, and returns the loaded result.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	fs := afero.NewOsFs()
	path := filepath.Join(dir, ConfigurationName)

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Printf("Configuration %s already exists, skipping", path)
	} else {
		logger.Printf("Creating %s", path)
		if err := afero.WriteFile(fs, path, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(dir)
}
