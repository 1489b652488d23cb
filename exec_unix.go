// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package trogon

import (
	"os"
	"syscall"

	"github.com/jrcribb/trogon/internal/issue"
)

// execReplace replaces the current process image. It only returns on error.
func execReplace(path string, argv []string) error {
	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return issue.Wrap(err, "exec relaunched command")
	}
	return nil
}
