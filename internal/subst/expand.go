// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package subst

import (
	"context"
	"strings"
)

// ExpandOptions controls Expand.
type ExpandOptions struct {
	// Lookup resolves a placeholder name.
	Lookup func(name string) (string, bool)
	// Only, when non-nil, limits substitution to the listed names.
	// Every other placeholder is copied verbatim.
	Only map[string]bool
	// KeepUnresolved copies placeholders without a value verbatim
	// instead of replacing them with the empty string.
	KeepUnresolved bool
}

// Expand replaces $NAME and ${NAME} references in s, where NAME matches
// [A-Za-z_][A-Za-z0-9_]*. Anything else starting with '$' ($1, $$, ${},
// ${a-b}, a trailing $) is left as is.
func Expand(s string, opts ExpandOptions) string {
	if strings.IndexByte(s, '$') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '$' {
			j := strings.IndexByte(s[i:], '$')
			if j < 0 {
				b.WriteString(s[i:])
				break
			}
			b.WriteString(s[i : i+j])
			i += j
			continue
		}

		name, width := scanReference(s[i:])
		if width == 0 {
			b.WriteByte('$')
			i++
			continue
		}

		ref := s[i : i+width]
		i += width

		if opts.Only != nil && !opts.Only[name] {
			b.WriteString(ref)
			continue
		}
		var (
			val string
			ok  bool
		)
		if opts.Lookup != nil {
			val, ok = opts.Lookup(name)
		}
		switch {
		case ok:
			b.WriteString(val)
		case opts.KeepUnresolved:
			b.WriteString(ref)
		}
	}

	return b.String()
}

// scanReference parses a reference at the start of s, which begins with
// '$'. It returns the name and the width of the whole reference, or a zero
// width when s does not start with a valid reference.
func scanReference(s string) (string, int) {
	if len(s) < 2 {
		return "", 0
	}
	if s[1] == '{' {
		n := nameLen(s[2:])
		if n == 0 || 2+n >= len(s) || s[2+n] != '}' {
			return "", 0
		}
		return s[2 : 2+n], n + 3
	}
	n := nameLen(s[1:])
	if n == 0 {
		return "", 0
	}
	return s[1 : 1+n], n + 1
}

// nameLen returns the length of the variable name at the start of s.
func nameLen(s string) int {
	if s == "" || !isNameStart(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && (isNameStart(s[n]) || ('0' <= s[n] && s[n] <= '9')) {
		n++
	}
	return n
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Native substitutes in-process with Expand.
type Native struct {
	// SSMOnly limits substitution to names fetched from SSM.
	SSMOnly bool
	// KeepUnresolved leaves unknown placeholders untouched.
	KeepUnresolved bool
}

// Substitute implements Substituter.
func (n Native) Substitute(_ context.Context, input []byte, t *Table) ([]byte, error) {
	opts := ExpandOptions{
		Lookup:         t.Lookup,
		KeepUnresolved: n.KeepUnresolved,
	}
	if n.SSMOnly {
		opts.Only = t.SSM
	}
	return []byte(Expand(string(input), opts)), nil
}
