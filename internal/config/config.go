package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Entry is one transcript listed in the manifest. File is resolved
// against TranscriptRoot when relative.
type Entry struct {
	ID   string `toml:"id"`
	File string `toml:"file"`
	Size string `toml:"size"`
}

type Config struct {
	TranscriptRoot string   `toml:"transcript_root"`
	DBPath         string   `toml:"db_path"`
	LogPath        string   `toml:"log_path"`
	LogLevel       string   `toml:"log_level"`
	ListenAddr     string   `toml:"listen_addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	Transcripts    []Entry  `toml:"transcripts"`
}

// Path returns the default config file location.
func Path() (string, error) {
	if p := os.Getenv("PHIST_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "phist", "config.toml"), nil
}

func Load() (*Config, error) {
	cfgPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(cfgPath)
}

// LoadFile reads the config at cfgPath on top of the defaults. A missing
// file is not an error.
func LoadFile(cfgPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TranscriptRoot: filepath.Join(home, ".config", "phist", "transcripts"),
		DBPath:         filepath.Join(home, ".config", "phist", "phist.db"),
		LogPath:        filepath.Join(home, ".config", "phist", "logs", "phist.log"),
		LogLevel:       "info",
		ListenAddr:     "127.0.0.1:8765",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}

	// expand ~ in paths
	cfg.TranscriptRoot = expandHome(cfg.TranscriptRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.LogPath = expandHome(cfg.LogPath, home)
	for i := range cfg.Transcripts {
		cfg.Transcripts[i].File = expandHome(cfg.Transcripts[i].File, home)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for i, e := range c.Transcripts {
		if e.File == "" {
			return fmt.Errorf("transcripts[%d]: file is required", i)
		}
		if e.ID == "" {
			continue
		}
		if seen[e.ID] {
			return fmt.Errorf("transcripts[%d]: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
