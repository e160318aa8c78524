// Package config provides Viper-based configuration loading for the
// character simulation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/charsim/internal/game/item"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds content definition directories.
type ContentConfig struct {
	// ItemsDir is the directory of item definition YAML files.
	ItemsDir string `mapstructure:"items_dir"`
	// WeaponsDir is the directory of weapon definition YAML files.
	WeaponsDir string `mapstructure:"weapons_dir"`
}

// ScriptingConfig holds behavior-override scripting settings.
type ScriptingConfig struct {
	// Enabled toggles loading of Lua override scripts.
	Enabled bool `mapstructure:"enabled"`
	// Dir is the directory of override scripts.
	Dir string `mapstructure:"dir"`
	// InstructionLimit is the per-execution Lua opcode budget; 0 uses the
	// scripting package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// CollectionConfig describes one inventory collection.
type CollectionConfig struct {
	// Name identifies the collection.
	Name string `mapstructure:"name"`
	// Slots is the fixed slot count.
	Slots int `mapstructure:"slots"`
	// Priority orders best-fit selection; lower is preferred.
	Priority int `mapstructure:"priority"`
	// AllowedKinds restricts admitted item kinds; empty admits all.
	AllowedKinds []string `mapstructure:"allowed_kinds"`
}

// InventoryConfig holds inventory layout settings.
type InventoryConfig struct {
	// DropOffset is the distance in front of the owner at which dropped
	// items spawn.
	DropOffset float64 `mapstructure:"drop_offset"`
	// Collections is the ordered collection layout.
	Collections []CollectionConfig `mapstructure:"collections"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Inventory InventoryConfig `mapstructure:"inventory"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateInventory(c.Inventory); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.ItemsDir == "" {
		errs = append(errs, "content.items_dir must not be empty")
	}
	if c.WeaponsDir == "" {
		errs = append(errs, "content.weapons_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	var errs []string
	if s.Enabled && s.Dir == "" {
		errs = append(errs, "scripting.dir must not be empty when scripting is enabled")
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateInventory(inv InventoryConfig) error {
	var errs []string
	if inv.DropOffset < 0 {
		errs = append(errs, fmt.Sprintf("inventory.drop_offset must be >= 0, got %v", inv.DropOffset))
	}
	if len(inv.Collections) == 0 {
		errs = append(errs, "inventory.collections must not be empty")
	}
	seen := map[string]bool{}
	for i, c := range inv.Collections {
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("inventory.collections[%d].name must not be empty", i))
		} else if seen[c.Name] {
			errs = append(errs, fmt.Sprintf("inventory.collections[%d].name %q is duplicated", i, c.Name))
		}
		seen[c.Name] = true
		if c.Slots < 1 {
			errs = append(errs, fmt.Sprintf("inventory.collections[%d].slots must be >= 1, got %d", i, c.Slots))
		}
		for _, kind := range c.AllowedKinds {
			if !item.ValidKind(kind) {
				errs = append(errs, fmt.Sprintf("inventory.collections[%d] has unknown item kind %q", i, kind))
			}
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CHARSIM_ prefix
	v.SetEnvPrefix("CHARSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.weapons_dir", "content/weapons")

	v.SetDefault("scripting.enabled", false)
	v.SetDefault("scripting.dir", "content/scripts/overrides")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("inventory.drop_offset", 1.5)
}
