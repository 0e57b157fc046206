// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"os"

	"git.sr.ht/~wombelix/ssm-env-subst/cmd"
)

// osExit allows tests to override os.Exit
var osExit = os.Exit

func main() {
	osExit(run())
}

// run executes the command line and returns the process exit code.
func run() int {
	if err := cmd.Execute(); err != nil {
		slog.Error("Error executing command", "error", err)
		return 1
	}
	return 0
}
