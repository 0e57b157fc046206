// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package subst replaces $NAME and ${NAME} placeholders in env file content.
//
// The variable table is the process environment overlaid with the values
// fetched from SSM, keyed on the last segment of each parameter name.
// Substitution is done either in-process (Native) or by piping the content
// through an external filter such as envsubst (Command).
package subst

import (
	"context"
	"sort"
	"strings"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/aws"
)

// Substituter rewrites input using the variables in t.
type Substituter interface {
	Substitute(ctx context.Context, input []byte, t *Table) ([]byte, error)
}

// Table is the variable table for one invocation.
type Table struct {
	// Vars maps placeholder names to values.
	Vars map[string]string
	// SSM holds the names whose value came from SSM.
	SSM map[string]bool
	// Duplicates lists short names produced by more than one parameter,
	// the last parameter wins.
	Duplicates []string
}

// Build creates the table from environ ("KEY=value" entries, as returned
// by os.Environ) and params. Parameter values override the environment.
func Build(environ []string, params []aws.Parameter) *Table {
	t := &Table{
		Vars: make(map[string]string, len(environ)+len(params)),
		SSM:  make(map[string]bool, len(params)),
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		t.Vars[k] = v
	}

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		name := aws.ShortName(p.Name)
		if name == "" {
			continue
		}
		if t.SSM[name] && !seen[name] {
			t.Duplicates = append(t.Duplicates, name)
			seen[name] = true
		}
		t.Vars[name] = p.Value
		t.SSM[name] = true
	}
	sort.Strings(t.Duplicates)
	return t
}

// Lookup returns the value of name.
func (t *Table) Lookup(name string) (string, bool) {
	v, ok := t.Vars[name]
	return v, ok
}

// SSMNames returns the names fetched from SSM, sorted.
func (t *Table) SSMNames() []string {
	names := make([]string, 0, len(t.SSM))
	for n := range t.SSM {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Environ renders the table as a sorted "KEY=value" list for exec.Cmd.Env.
func (t *Table) Environ() []string {
	keys := make([]string, 0, len(t.Vars))
	for k := range t.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+t.Vars[k])
	}
	return env
}
