// SPDX-License-Identifier: MPL-2.0

//go:build windows

package trogon

import (
	"os"
	"os/exec"

	"github.com/jrcribb/trogon/internal/issue"
)

// execReplace runs the command as a child process with inherited stdio.
// Windows has no exec(2); spawn-and-wait is the closest equivalent.
func execReplace(path string, argv []string) error {
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return issue.Wrap(err, "run relaunched command")
	}
	return nil
}
