// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/envfile"
	"git.sr.ht/~wombelix/ssm-env-subst/internal/subst"
	"github.com/spf13/cobra"
)

// runRoot fetches the parameters and rewrites the environment file.
func runRoot(cmd *cobra.Command, args []string) error {
	if showVersion {
		printVersion(cmd)
		return nil
	}
	ssmPath, envFile := args[0], args[1]

	// Checked before any AWS call.
	if err := envfile.Exists(envFile); err != nil {
		return err
	}

	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	params, err := fetchParameters(cmd.Context(), s, ssmPath)
	if err != nil {
		return err
	}

	table := subst.Build(os.Environ(), params)
	for _, name := range table.Duplicates {
		slog.Warn("Several parameters map to the same name, the last one wins", "name", name)
	}

	input, err := envfile.Read(envFile)
	if err != nil {
		return err
	}

	output, err := newSubstituter(s).Substitute(cmd.Context(), input, table)
	if err != nil {
		return fmt.Errorf("failed to substitute %s: %w", envFile, err)
	}

	if dryRun {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}

	if err := envfile.WriteAtomic(envFile, output); err != nil {
		return err
	}
	slog.Debug("Environment file rewritten", "file", envFile, "parameters", len(table.SSM))
	fmt.Fprintln(cmd.OutOrStdout(), SuccessMessage)
	return nil
}

// newSubstituter picks the external filter when one is configured and
// the built-in expansion otherwise.
func newSubstituter(s settings) subst.Substituter {
	if s.SubstCmd != "" {
		return subst.Command{Line: s.SubstCmd, SSMOnly: s.SSMOnly}
	}
	return subst.Native{SSMOnly: s.SSMOnly, KeepUnresolved: s.KeepUnresolved}
}
