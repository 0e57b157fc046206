// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

//go:build !windows

package envfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteAtomic replaces path with data. The content is written to a
// temporary file in the same directory carrying the original permission
// bits and renamed over path, so readers never see a partial file.
// Symlinks are resolved and their target is replaced.
func WriteAtomic(path string, data []byte) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	pf, err := renameio.NewPendingFile(target,
		renameio.WithTempDir(filepath.Dir(target)),
		renameio.WithStaticPermissions(info.Mode().Perm()),
	)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer pf.Cleanup()

	if err := preserveOwner(pf.File, info); err != nil {
		return err
	}
	if _, err := pf.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}
