package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the site configuration file seoscan looks for.
const ConfigFileName = ".seoscan"

// FindConfigFile searches for the .seoscan file in the current
// directory and then the user's home directory. It returns the empty
// string when no file exists, which is not an error.
func FindConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, ConfigFileName)
		if fileExists(candidate) {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ConfigFileName)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// LoadConfigFile parses the YAML site configuration at path.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// LoadSiteConfigs loads the site configuration file. If explicitPath is
// non-empty it must exist; otherwise the usual locations are searched
// and a missing file yields an empty configuration.
func LoadSiteConfigs(explicitPath string) (*File, error) {
	path := explicitPath
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return &File{}, nil
		}
	}
	return LoadConfigFile(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
