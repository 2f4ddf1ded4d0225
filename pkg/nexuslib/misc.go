package nexuslib

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirEnv is the environment variable name used to override the
// default configuration directory.
const ConfigDirEnv = "NEXUSHUB_CONFIG_DIR"

var (
	// ConfigDir is the absolute path to the nexushub configuration
	// directory. The database, plugin store and credential file live here.
	ConfigDir string
	// PluginsDir is the absolute path to the directory plugins are
	// resolved from.
	PluginsDir string
)

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if err := setConfigDir(dir); err != nil {
		panic(err)
	}
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cdr, "nexushub")
}

func setConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	PluginsDir = filepath.Join(abs, "plugins")
	return os.MkdirAll(PluginsDir, 0755)
}

// SetConfigDir points the library at a different configuration
// directory, creating it if necessary. Used by tests and by the
// debugger tooling; normal startup relies on the init default.
func SetConfigDir(dir string) error {
	return setConfigDir(dir)
}

// DatabasePath returns the path of the sqlite database inside the
// configuration directory.
func DatabasePath() string {
	return filepath.Join(ConfigDir, "nexushub.db")
}
