package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NPC      NPCConfig      `yaml:"npc"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	HTTPPort     int           `yaml:"http_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	StaticDir    string        `yaml:"static_dir"`
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// NPCConfig holds the rules for recognizing non-player actors in the
// killfeed. The shipped defaults match the SCUM feed ("NPC Guard Level 3"
// and the like); they are configuration because the rule is a name
// heuristic, not a stable identity scheme.
type NPCConfig struct {
	Prefixes   []string `yaml:"prefixes"`
	Substrings []string `yaml:"substrings"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "127.0.0.1"
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "killfeed.db"
	}
	// Note: StaticDir intentionally has no default - empty means don't serve static files

	if len(cfg.NPC.Prefixes) == 0 && len(cfg.NPC.Substrings) == 0 {
		cfg.NPC.Prefixes = []string{"NPC "}
		cfg.NPC.Substrings = []string{"NPC Guard Level", "NPC Drifter Level"}
	}
}
