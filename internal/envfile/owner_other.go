// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

//go:build !unix && !windows

package envfile

import (
	"io/fs"
	"os"
)

func preserveOwner(*os.File, fs.FileInfo) error { return nil }
