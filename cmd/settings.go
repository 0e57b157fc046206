// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/aws"
	"git.sr.ht/~wombelix/ssm-env-subst/internal/config"
	"git.sr.ht/~wombelix/ssm-env-subst/internal/validation"
	"github.com/spf13/cobra"
)

// settings is the effective configuration of one run: command-line flags
// merged over the configuration files.
type settings struct {
	AWS            aws.Options
	Recursive      bool
	SSMOnly        bool
	KeepUnresolved bool
	SubstCmd       string
}

// resolveSettings merges configuration from file with command line flags.
// A flag wins when it was set explicitly.
func resolveSettings(cmd *cobra.Command) (settings, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Warn("Failed to load config, using flags only", "error", err)
		cfg = &config.Config{}
	}

	s := settings{
		AWS: aws.Options{
			Region:  cfg.Region,
			Profile: cfg.Profile,
			Role:    cfg.Role,
		},
		Recursive:      config.Bool(cfg.Recursive, false),
		SSMOnly:        config.Bool(cfg.SSMOnly, false),
		KeepUnresolved: config.Bool(cfg.KeepUnresolved, false),
		SubstCmd:       cfg.SubstCmd,
	}

	flags := cmd.Flags()
	if awsRegion != "" {
		s.AWS.Region = awsRegion
	}
	if awsProfile != "" {
		s.AWS.Profile = awsProfile
	}
	if awsRole != "" {
		s.AWS.Role = awsRole
	}
	if flags.Changed("recursive") {
		s.Recursive = recursive
	}
	if flags.Changed("ssm-only") {
		s.SSMOnly = ssmOnly
	}
	if flags.Changed("keep-unresolved") {
		s.KeepUnresolved = keepUnresolved
	}
	if substCmd != "" {
		s.SubstCmd = substCmd
	}

	return s, s.validate()
}

// validate checks the merged values, whichever source they came from.
func (s settings) validate() error {
	if err := validation.ValidateRegion(s.AWS.Region); err != nil {
		return err
	}
	if err := validation.ValidateProfile(s.AWS.Profile); err != nil {
		return err
	}
	if err := validation.ValidateRoleARN(s.AWS.Role); err != nil {
		return err
	}
	if s.SubstCmd != "" && s.KeepUnresolved {
		return fmt.Errorf("--keep-unresolved cannot be combined with --subst-cmd")
	}
	return nil
}

// fetchParameters creates the SSM client and reads every parameter below path.
func fetchParameters(ctx context.Context, s settings, path string) ([]aws.Parameter, error) {
	client, err := aws.NewClient(ctx, s.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	slog.Debug("Fetching parameters", "path", path, "recursive", s.Recursive, "profile", s.AWS.Profile, "region", s.AWS.Region)
	params, err := client.GetParametersByPath(ctx, path, s.Recursive)
	if err != nil {
		if errors.Is(err, aws.ErrAccessDenied) {
			return nil, fmt.Errorf("access denied reading '%s', check the profile or role permissions: %w", path, err)
		}
		return nil, err
	}

	if len(params) == 0 {
		slog.Warn("No parameters found", "path", path)
	} else {
		slog.Debug("Fetched parameters", "path", path, "count", len(params))
	}
	return params, nil
}
