// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package subst

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"git.sr.ht/~wombelix/ssm-env-subst/internal/aws"
	"github.com/google/go-cmp/cmp"
)

func testTable() *Table {
	return Build(
		[]string{"USER=app"},
		[]aws.Parameter{
			{Name: "/svc/DB_HOST", Value: "db.internal"},
			{Name: "/svc/DB_PASS", Value: "s3cr3t"},
		},
	)
}

func TestNativeSubstitute(t *testing.T) {
	input := []byte("HOST=${DB_HOST}\nPASS=$DB_PASS\nOWNER=$USER\nX=$UNKNOWN\n")

	tests := []struct {
		name string
		n    Native
		want string
	}{
		{
			name: "environment and ssm",
			n:    Native{},
			want: "HOST=db.internal\nPASS=s3cr3t\nOWNER=app\nX=\n",
		},
		{
			name: "ssm only",
			n:    Native{SSMOnly: true},
			want: "HOST=db.internal\nPASS=s3cr3t\nOWNER=$USER\nX=$UNKNOWN\n",
		},
		{
			name: "keep unresolved",
			n:    Native{KeepUnresolved: true},
			want: "HOST=db.internal\nPASS=s3cr3t\nOWNER=app\nX=$UNKNOWN\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.n.Substitute(context.Background(), input, testTable())
			if err != nil {
				t.Fatalf("Substitute() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Substitute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		want    []string
		wantErr error
	}{
		{
			name: "simple",
			cmd:  Command{Line: "envsubst"},
			want: []string{"envsubst"},
		},
		{
			name: "quoted argument",
			cmd:  Command{Line: `/usr/bin/envsubst '$A $B'`},
			want: []string{"/usr/bin/envsubst", "$A $B"},
		},
		{
			name: "ssm only appends shell format",
			cmd:  Command{Line: "envsubst", SSMOnly: true},
			want: []string{"envsubst", "${DB_HOST} ${DB_PASS}"},
		},
		{
			name:    "ssm only with existing arguments",
			cmd:     Command{Line: "envsubst '$USER'", SSMOnly: true},
			wantErr: ErrShellFormatConflict,
		},
		{
			name:    "ssm only with variables flag",
			cmd:     Command{Line: "envsubst --variables", SSMOnly: true},
			wantErr: ErrShellFormatConflict,
		},
		{
			name:    "empty",
			cmd:     Command{Line: "   "},
			wantErr: ErrEmptyCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Args(testTable())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Args() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Args() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommandSubstitute(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("filter sees table environment", func(t *testing.T) {
		c := Command{Line: `sh -c 'read -r line; printf "%s|%s|%s" "$line" "$DB_HOST" "$USER"'`}
		got, err := c.Substitute(context.Background(), []byte("in\n"), testTable())
		if err != nil {
			t.Fatalf("Substitute() error = %v", err)
		}
		if string(got) != "in|db.internal|app" {
			t.Errorf("Substitute() = %q, want %q", got, "in|db.internal|app")
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		c := Command{Line: `sh -c 'echo boom >&2; exit 3'`}
		_, err := c.Substitute(context.Background(), nil, testTable())
		if !errors.Is(err, ErrCommandFailed) {
			t.Fatalf("Substitute() error = %v, want ErrCommandFailed", err)
		}
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("Substitute() error = %v, want stderr in message", err)
		}
	})

	t.Run("unparsable command", func(t *testing.T) {
		c := Command{Line: `sh -c 'unterminated`}
		if _, err := c.Substitute(context.Background(), nil, testTable()); err == nil {
			t.Error("Substitute() expected error for unterminated quote")
		}
	})
}
