package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFileName is looked up at the repo root (or the current directory when
// no repo is found).
const configFileName = ".catkin.yaml"

// fileConfig holds the settings a project can pin in .catkin.yaml. Flags
// given on the command line take precedence.
type fileConfig struct {
	DB     string `yaml:"db"`
	Format string `yaml:"format"`
}

// loadConfig reads .catkin.yaml from the repo root. A missing file yields a
// zero config; a malformed one is ignored the same way, since the CLI must
// stay usable in repos that use the name for something else.
func loadConfig() fileConfig {
	cwd, err := os.Getwd()
	if err != nil {
		return fileConfig{}
	}
	path := filepath.Join(findRepoRoot(cwd), configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}
	}
	return cfg
}

// applyConfig fills flag values from the config file for flags the user did
// not set explicitly.
func applyConfig(cmd *cobra.Command) {
	cfg := loadConfig()
	flags := cmd.Root().PersistentFlags()
	if cfg.DB != "" && !flags.Changed("db") {
		flagDB = cfg.DB
	}
	if cfg.Format != "" && !flags.Changed("format") {
		flagFormat = cfg.Format
	}
}
