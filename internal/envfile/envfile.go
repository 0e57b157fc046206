// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package envfile reads and atomically rewrites the environment file.
package envfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotExist is returned when the environment file is missing or is not
// a regular file.
var ErrNotExist = errors.New("does not exist")

// Exists reports an error wrapping ErrNotExist when path is missing or a
// directory.
func Exists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("environment file %q %w", path, ErrNotExist)
		}
		return fmt.Errorf("failed to stat environment file %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("environment file %q %w (is a directory)", path, ErrNotExist)
	}
	return nil
}

// Read returns the content of the environment file.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}
	return data, nil
}
