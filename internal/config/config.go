// Package config loads the harness configuration: a JSON file in the
// working directory with KDIFF_* environment overrides layered on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config represents the flat kdiff configuration.
type Config struct {
	// Tree is the root of the source tree under test.
	Tree string `json:"tree" env:"KDIFF_TREE"`

	// KernelVersion is pinned into the reference tool's environment. The
	// value does not affect resolution; it only has to be set.
	KernelVersion string `json:"kernel_version,omitempty" env:"KDIFF_KERNELVERSION"`

	// RefConfigName is the snapshot filename the reference tool writes.
	RefConfigName string `json:"ref_config_name,omitempty" env:"KDIFF_REF_CONFIG"`

	// OurConfigName is the snapshot filename the harness's resolver
	// writes. It must differ from RefConfigName so the two never collide.
	OurConfigName string `json:"our_config_name,omitempty" env:"KDIFF_OUR_CONFIG"`

	// FailLogName is the append-only failure log for replay mismatches.
	FailLogName string `json:"fail_log_name,omitempty" env:"KDIFF_FAIL_LOG"`

	// RefCommand is the reference tool argv; the operation name is
	// appended. Default: ["make"].
	RefCommand []string `json:"ref_command,omitempty" env:"KDIFF_REF_COMMAND" envSeparator:" "`

	// SkipArches lists architecture directories excluded from
	// enumeration (broken trees).
	SkipArches []string `json:"skip_arches,omitempty" env:"KDIFF_SKIP_ARCHES" envSeparator:","`

	// TimeoutSeconds bounds one reference tool invocation.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" env:"KDIFF_TIMEOUT"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Tree:           ".",
		KernelVersion:  "2",
		RefConfigName:  ".config",
		OurConfigName:  "._config",
		FailLogName:    "test_defconfig_fails",
		RefCommand:     []string{"make"},
		TimeoutSeconds: 600,
	}
}

// Load reads .kdiff/config.json from the specified directory and applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	cfg := Defaults()

	path := filepath.Join(dir, ".kdiff", "config.json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.RefConfigName == cfg.OurConfigName {
		return nil, fmt.Errorf("ref and harness snapshot names collide (%q)", cfg.RefConfigName)
	}
	return cfg, nil
}

// Save writes config.json to the directory.
func Save(dir string, cfg *Config) error {
	kdiffDir := filepath.Join(dir, ".kdiff")
	if err := os.MkdirAll(kdiffDir, 0755); err != nil {
		return fmt.Errorf("failed to create .kdiff dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(kdiffDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// RefConfigPath returns the absolute path of the reference tool's
// snapshot.
func (c *Config) RefConfigPath() string {
	return filepath.Join(c.Tree, c.RefConfigName)
}

// OurConfigPath returns the absolute path of the harness's snapshot.
func (c *Config) OurConfigPath() string {
	return filepath.Join(c.Tree, c.OurConfigName)
}

// FailLogPath returns the absolute path of the failure log.
func (c *Config) FailLogPath() string {
	return filepath.Join(c.Tree, c.FailLogName)
}
