package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port int    // default 7117
	Host string // default "127.0.0.1"
}

type StoreConfig struct {
	Type    string // "memory", "bolt", or "sqlite"
	DataDir string // default "~/.kubesim/data"
}

type LogConfig struct {
	Level  string // default "info"
	Format string // default "console"
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 7117,
			Host: "127.0.0.1",
		},
		Store: StoreConfig{
			Type:    "memory",
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ServerAddress returns the listen address in "host:port" format.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DBPath returns the full path to the BoltDB file (DataDir + "/kubesim.db").
func (c *Config) DBPath() string {
	return filepath.Join(c.Store.DataDir, "kubesim.db")
}

// SQLitePath returns the full path to the SQLite file (DataDir + "/kubesim.sqlite").
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Store.DataDir, "kubesim.sqlite")
}

// LockPath returns the full path to the data directory lock file. Only one
// server may own a persistent data directory at a time.
func (c *Config) LockPath() string {
	return filepath.Join(c.Store.DataDir, "kubesim.lock")
}

// defaultDataDir resolves the default data directory.
// It uses os.UserHomeDir() + "/.kubesim/data", falling back to
// "/tmp/kubesim/data" if the home directory cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "kubesim", "data")
	}
	return filepath.Join(home, ".kubesim", "data")
}
