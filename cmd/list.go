// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/aws"
	"git.sr.ht/~wombelix/ssm-env-subst/internal/validation"
	"github.com/spf13/cobra"
)

// Command-line flags for the list command
var (
	// listUpper determines if the environment variable name should be uppercase
	listUpper bool
	// listPrefix is prepended to the environment variable name
	listPrefix string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <ssm_path>",
	Short: "Print the parameters under an SSM path as export lines",
	Long: `Print the parameters found under an SSM path in the format:
export NAME='value'

NAME is the placeholder the parameter substitutes in an environment file.
Values are single-quoted, so the output can be sourced by a POSIX shell.
Parameters whose name is not a valid variable name are skipped.

Examples:
  # Show what would be substituted from /myapp/prod
  ssm-env-subst list /myapp/prod

  # Include nested paths, with a prefix and uppercase names
  ssm-env-subst list --recursive --env-prefix MYAPP --upper /myapp`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateListFlags,
	RunE:    runList,
}

// validateListFlags checks if all flags are valid
func validateListFlags(cmd *cobra.Command, args []string) error {
	if err := validation.ValidateParameterPath(args[0]); err != nil {
		return err
	}
	if listPrefix != "" {
		if err := validation.ValidateEnvName(listPrefix); err != nil {
			return fmt.Errorf("invalid --env-prefix: %w", err)
		}
	}
	return nil
}

// runList executes the list command
func runList(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	params, err := fetchParameters(cmd.Context(), s, args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), formatExports(params))
	return err
}

// formatExports renders params as export lines in fetch order. A name
// produced twice keeps the position of its first occurrence and the
// value of its last, matching what the substitution sees. Names that are
// not valid shell identifiers are skipped with a warning.
func formatExports(params []aws.Parameter) string {
	var order []string
	values := make(map[string]string, len(params))
	for _, p := range params {
		name := formatEnvName(p.Name)
		if name == "" {
			continue
		}
		if err := validation.ValidateEnvName(name); err != nil {
			slog.Warn("Skipping parameter without a valid variable name", "parameter", p.Name, "name", name)
			continue
		}
		if _, ok := values[name]; !ok {
			order = append(order, name)
		}
		values[name] = p.Value
	}

	var b strings.Builder
	for _, name := range order {
		fmt.Fprintf(&b, "export %s=%s\n", name, shellQuote(values[name]))
	}
	return b.String()
}

// shellQuote wraps s in single quotes so a POSIX shell takes every byte
// literally. An embedded ' becomes '\''.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// formatEnvName formats the environment variable name according to the flags
func formatEnvName(paramName string) string {
	name := aws.ShortName(paramName)
	if name == "" {
		return ""
	}
	if listPrefix != "" {
		name = listPrefix + "_" + name
	}
	if listUpper {
		name = strings.ToUpper(name)
	}
	return name
}

func init() {
	setupListFlags()
}

func setupListFlags() {
	listCmd.Flags().BoolVar(&listUpper, "upper", false, "Convert env var names to uppercase")
	listCmd.Flags().StringVar(&listPrefix, "env-prefix", "", "Prefix for env var names")
}
