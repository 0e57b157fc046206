// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package subst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// Errors returned by Command
var (
	ErrEmptyCommand        = errors.New("substitution command is empty")
	ErrCommandFailed       = errors.New("substitution command failed")
	ErrShellFormatConflict = errors.New("substitution command already has arguments, cannot restrict it to SSM variables")
)

// Command pipes the content through an external filter, typically
// envsubst. The filter runs with the table as its whole environment,
// reads the content on stdin and writes the result to stdout.
type Command struct {
	// Line is the command line, split with shell quoting rules.
	Line string
	// SSMOnly appends an envsubst SHELL-FORMAT argument naming the
	// SSM variables, so only those are replaced. The command line must
	// then be a bare program name.
	SSMOnly bool
}

// Args returns the argv the command will be started with.
func (c Command) Args(t *Table) ([]string, error) {
	args, err := shlex.Split(c.Line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse substitution command %q: %w", c.Line, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	if c.SSMOnly {
		if len(args) > 1 {
			return nil, fmt.Errorf("%w: %q", ErrShellFormatConflict, c.Line)
		}
		refs := make([]string, 0, len(t.SSM))
		for _, n := range t.SSMNames() {
			refs = append(refs, "${"+n+"}")
		}
		args = append(args, strings.Join(refs, " "))
	}
	return args, nil
}

// Substitute implements Substituter.
func (c Command) Substitute(ctx context.Context, input []byte, t *Table) ([]byte, error) {
	args, err := c.Args(t)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = t.Environ()
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running substitution command", "command", args[0], "args", len(args)-1)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandFailed, msg, err)
	}
	return stdout.Bytes(), nil
}
