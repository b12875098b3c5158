package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data directory and journal database. They
// exist so tests and CI runners can isolate state without touching $HOME.
const (
	EnvRelgateHome = "RELGATE_HOME"
	EnvRelgateDB   = "RELGATE_DB"
)

// DataDir returns the directory used to store relgate data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvRelgateHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".relgate"), nil
}

// EnsureDataDir creates the data directory if needed and returns its path.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite journal database file.
func DBPath() (string, error) {
	if p := os.Getenv(EnvRelgateDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "relgate.db"), nil
}
