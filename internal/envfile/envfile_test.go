// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package envfile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "existing file", path: file},
		{name: "missing file", path: filepath.Join(dir, "missing.env"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Exists(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Exists() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNotExist) {
				t.Errorf("Exists() error = %v, want ErrNotExist", err)
			}
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("A=$B\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := Read(file)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(got) != "A=$B\n" {
		t.Errorf("Read() = %q", got)
	}

	if _, err := Read(filepath.Join(dir, "nope")); err == nil {
		t.Error("Read() expected error for missing file")
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("OLD=1\n"), 0640); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Chmod(file, 0640); err != nil {
		t.Fatalf("Failed to chmod file: %v", err)
	}

	if err := WriteAtomic(file, []byte("NEW=2\n")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(got) != "NEW=2\n" {
		t.Errorf("content = %q, want %q", got, "NEW=2\n")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(file)
		if err != nil {
			t.Fatalf("Failed to stat file: %v", err)
		}
		if info.Mode().Perm() != 0640 {
			t.Errorf("mode = %v, want 0640", info.Mode().Perm())
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the env file in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteAtomicSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.env")
	link := filepath.Join(dir, ".env")
	if err := os.WriteFile(target, []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	if err := WriteAtomic(link, []byte("A=2\n")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("Failed to lstat link: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Error("symlink was replaced by a regular file")
	}
	got, _ := os.ReadFile(target)
	if string(got) != "A=2\n" {
		t.Errorf("target content = %q, want %q", got, "A=2\n")
	}
}

func TestWriteAtomicMissing(t *testing.T) {
	if err := WriteAtomic(filepath.Join(t.TempDir(), "missing"), []byte("x")); err == nil {
		t.Error("WriteAtomic() expected error for missing file")
	}
}

func TestWriteAtomicRenameFailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "env.d")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := WriteAtomic(target, []byte("A=1\n")); err == nil {
		t.Fatal("WriteAtomic() expected error when replacing a non-empty directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 1 || names[0] != "env.d" {
		t.Errorf("entries after failed write = %v, want [env.d]", names)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Errorf("original directory was not left in place: %v", err)
	}
}
