// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

//go:build unix

package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// preserveOwner gives f the owner and group of the original file.
// Unprivileged callers keep their own ownership.
func preserveOwner(f *os.File, orig fs.FileInfo) error {
	st, ok := orig.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	if err := f.Chown(int(st.Uid), int(st.Gid)); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil
		}
		return fmt.Errorf("failed to set owner on temporary file: %w", err)
	}
	return nil
}
