package client

import (
	"os"
	"path/filepath"
)

const (
	// envHome overrides where the client keeps its local fallback data.
	envHome = "MEMORIES_LOCAL_HOME"

	dirName    = ".memories"
	dbFilename = "fallback.db"
)

// dataDir returns the directory holding the client's local state.
func dataDir() (string, error) {
	if v := os.Getenv(envHome); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// defaultDBPath returns the path of the local fallback database.
func defaultDBPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}
