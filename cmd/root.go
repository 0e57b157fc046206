// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package cmd implements the command-line interface for ssm-env-subst.
//
// The root command takes an SSM path and an environment file, fetches every
// parameter below the path and replaces the matching $NAME / ${NAME}
// placeholders in the file. The list subcommand prints what would be
// substituted.
//
// Global flags supported by all commands include:
//   - --aws-profile, --region, --role: select the AWS account and identity
//   - --recursive: fetch the whole hierarchy below the path
//   - --loglevel: Set logging verbosity (debug, info, warn, error)
//   - --version: Display version information
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/logger"
	"git.sr.ht/~wombelix/ssm-env-subst/internal/validation"
	"github.com/spf13/cobra"
)

// SuccessMessage is printed after the environment file was rewritten.
const SuccessMessage = "Environment variables were successfully substituted from AWS SSM"

var (
	// Build information, set via ldflags during build
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global command-line flags
	logLevel    string
	showVersion bool
	awsProfile  string
	awsRegion   string
	awsRole     string
	recursive   bool

	// Substitution flags
	ssmOnly        bool
	keepUnresolved bool
	substCmd       string
	dryRun         bool

	// rootCmd fetches the parameters and substitutes them into the env file.
	rootCmd = &cobra.Command{
		Use:   "ssm-env-subst [flags] <ssm_path> <env_file>",
		Short: "Substitute AWS SSM parameters into an environment file",
		Long: `ssm-env-subst fetches parameters from a provided AWS SSM path and substitutes
their values for the $NAME and ${NAME} placeholders in the specified environment
variables file. NAME is the last segment of the parameter name, so
/myapp/prod/DB_HOST replaces $DB_HOST.

Placeholders may also refer to variables of the current process environment;
SSM values take precedence.

Examples:
  # Substitute all parameters under /myapp/prod into .env
  ssm-env-subst /myapp/prod .env

  # Use a named profile and only touch placeholders that exist in SSM
  ssm-env-subst --aws-profile prod --ssm-only /myapp/prod .env

  # Preview the result without modifying the file
  ssm-env-subst --dry-run /myapp/prod .env

  # Delegate to GNU envsubst
  ssm-env-subst --subst-cmd envsubst /myapp/prod .env`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          validateRootArgs,
		RunE:          runRoot,
	}
)

// init sets up global flags, registers the subcommands and configures the
// persistent pre-run hook for logging initialization.
func init() {
	setupRootFlags()
	rootCmd.AddCommand(listCmd)
}

func setupRootFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	pf.BoolVar(&showVersion, "version", false, "Show version information")
	pf.StringVar(&awsProfile, "aws-profile", "", "AWS profile to use (default: the SDK default profile)")
	pf.StringVar(&awsRegion, "region", "", "AWS region (default: config file, AWS_REGION or profile)")
	pf.StringVar(&awsRole, "role", "", "AWS role ARN to assume (optional)")
	pf.BoolVar(&recursive, "recursive", false, "Fetch all parameters in the hierarchy below the path")

	f := rootCmd.Flags()
	f.BoolVar(&ssmOnly, "ssm-only", false, "Only substitute placeholders for parameters fetched from SSM")
	f.BoolVar(&keepUnresolved, "keep-unresolved", false, "Leave placeholders without a value untouched instead of emptying them")
	f.StringVar(&substCmd, "subst-cmd", "", "External substitution filter to run instead of the built-in one (e.g. envsubst)")
	f.BoolVar(&dryRun, "dry-run", false, "Print the substituted content instead of rewriting the file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger.InitLogger(logLevel)
		return nil
	}
}

// validateRootArgs requires the two positional arguments unless only the
// version is requested, and checks the SSM path before any AWS call.
func validateRootArgs(cmd *cobra.Command, args []string) error {
	if showVersion && len(args) == 0 {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("requires exactly 2 arguments <ssm_path> <env_file>, received %d", len(args))
	}
	if showVersion {
		return nil
	}
	return validation.ValidateParameterPath(args[0])
}

// Execute runs the root command. It is called by main.main() and returns
// the first error encountered. SIGINT and SIGTERM cancel the AWS call and
// the substitution command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "ssm-env-subst version %s (commit %s, built on %s)\n", version, commit, date)
}
