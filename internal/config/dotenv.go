package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	return LoadDotEnvFromFiles(path)
}

// LoadDotEnvFromFiles loads environment variables from several .env files in
// order. The first file that sets a variable wins and variables already in
// the environment are never overridden. Missing files are skipped.
func LoadDotEnvFromFiles(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads configuration from .env files and environment variables.
// An explicit envPath is the only file read. Otherwise ".env" in the current
// directory is read first, then ".env" in the default data directory.
func LoadConfig(envPath string) (AppConfig, error) {
	var err error
	if envPath != "" {
		err = LoadDotEnv(envPath)
	} else {
		err = LoadDotEnvFromFiles(".env", filepath.Join(DefaultDataDir(), ".env"))
	}
	if err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}

	return envCfg.ToAppConfig(), nil
}
