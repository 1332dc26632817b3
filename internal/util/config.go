package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Configuration carries everything the binary needs at runtime. Build
// metadata is injected through ldflags; the rest starts from defaults,
// may be overridden by an optional TOML file, and finally by flags.
type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	HistoryFile string `toml:"history_file"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`

	DebugJsonAST bool `toml:"debug_json_ast"`
	DebugTxtAST  bool `toml:"debug_txt_ast"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		HistoryFile: ".monkey_history",
		LogLevel:    "error",
	}
}

// LoadConfiguration reads the TOML file at path over the defaults. An empty
// path falls back to ~/.config/monkey/config.toml when that file exists, and
// to the defaults untouched when it does not.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load configuration %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "monkey", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
