package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pinfield/server/internal/playfield"
)

// FileConfig is the YAML document loaded from PINFIELD_CONFIG.
type FileConfig struct {
	Addr      string            `yaml:"addr"`
	ClientDir string            `yaml:"clientDir"`
	Playfield playfield.Config  `yaml:"playfield"`
	Loop      LoopFileConfig    `yaml:"loop"`
	Logging   LoggingFileConfig `yaml:"logging"`
	Pprof     bool              `yaml:"pprof"`
}

// LoopFileConfig exposes the loop tunables designers may override.
type LoopFileConfig struct {
	TickRate        int `yaml:"tickRate"`
	CommandCapacity int `yaml:"commandCapacity"`
	PerActorLimit   int `yaml:"perActorLimit"`
}

// LoggingFileConfig selects the sinks the router fans out to.
type LoggingFileConfig struct {
	Sinks    []string `yaml:"sinks"`
	JSONPath string   `yaml:"jsonPath"`
}

// DefaultFileConfig returns the config used when no file is provided.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Addr:      ":8080",
		Playfield: playfield.DefaultConfig(),
	}
}

// LoadFileConfig reads a YAML config over the defaults. A missing path
// returns the defaults unchanged.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("app: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("app: parse config %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}
