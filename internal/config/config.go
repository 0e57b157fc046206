// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package config provides configuration management for the ssm-env-subst tool.
//
// It handles loading and merging of YAML configuration files from multiple
// locations with a defined precedence order. The package supports both global
// (user home directory) and local (current directory) configurations, with
// local settings taking precedence over global ones.
//
// Configuration files are expected to be named .ssm-env-subst.yaml and hold
// defaults for the AWS connection and the substitution behaviour. Command-line
// flags always win over both files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in the home
// and current directories.
const FileName = ".ssm-env-subst.yaml"

// Common errors returned by the package
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the configuration structure for ssm-env-subst.
type Config struct {
	// Region is the default AWS region for the SSM call
	Region string `yaml:"region,omitempty"`
	// Profile is the shared config profile to load credentials from
	Profile string `yaml:"profile,omitempty"`
	// Role is the AWS IAM role to assume for the SSM call
	Role string `yaml:"role,omitempty"`
	// Recursive fetches the whole hierarchy below the path
	Recursive *bool `yaml:"recursive,omitempty"`
	// SSMOnly restricts substitution to names fetched from SSM
	SSMOnly *bool `yaml:"ssm_only,omitempty"`
	// KeepUnresolved leaves placeholders without a value untouched
	KeepUnresolved *bool `yaml:"keep_unresolved,omitempty"`
	// SubstCmd is an external filter used instead of the built-in substitution
	SubstCmd string `yaml:"subst_cmd,omitempty"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SubstCmd) == "" && c.SubstCmd != "" {
		return fmt.Errorf("%w: subst_cmd must not be blank", ErrInvalidConfig)
	}
	if c.Profile != "" && strings.ContainsAny(c.Profile, " \t\r\n") {
		return fmt.Errorf("%w: profile %q contains whitespace", ErrInvalidConfig, c.Profile)
	}
	return nil
}

// LoadConfig loads configuration from files with precedence:
// 1. Current directory (.ssm-env-subst.yaml)
// 2. Home directory (~/.ssm-env-subst.yaml)
//
// If no configuration files are found, returns an empty configuration.
func LoadConfig() (*Config, error) {
	var cfg Config

	// Try loading from home directory first
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, FileName)
		if fileExists(homeConfig) {
			if err := loadFile(homeConfig, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load global config %s: %w", homeConfig, err)
			}
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid global config %s: %w", homeConfig, err)
			}
		}
	}

	// Try loading from current directory (overrides home config)
	if fileExists(FileName) {
		localCfg := Config{}
		if err := loadFile(FileName, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to load local config %s: %w", FileName, err)
		}
		if err := localCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid local config %s: %w", FileName, err)
		}
		mergeConfig(&cfg, &localCfg)
	}

	return &cfg, nil
}

// Bool dereferences an optional setting, falling back to def when unset.
func Bool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// loadFile loads and unmarshals a YAML configuration file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func loadFile(filename string, cfg *Config) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", sanitizeForLog(filename), err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML in %s: %w", sanitizeForLog(filename), err)
	}
	return nil
}

// mergeConfig merges local configuration into global configuration.
// Local settings take precedence over global settings.
func mergeConfig(global, local *Config) {
	if local.Region != "" {
		global.Region = local.Region
	}
	if local.Profile != "" {
		global.Profile = local.Profile
	}
	if local.Role != "" {
		global.Role = local.Role
	}
	if local.SubstCmd != "" {
		global.SubstCmd = local.SubstCmd
	}

	if local.Recursive != nil {
		global.Recursive = local.Recursive
	}
	if local.SSMOnly != nil {
		global.SSMOnly = local.SSMOnly
	}
	if local.KeepUnresolved != nil {
		global.KeepUnresolved = local.KeepUnresolved
	}
}

// sanitizeForLog removes control characters that could be used for log injection (CWE-117 mitigation)
func sanitizeForLog(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", "")
	return strings.ReplaceAll(s, "\x1b", "") // Remove escape sequences
}
