//go:build unix

package launcher

import (
	"os"
	"os/exec"
	"syscall"

	"filtersync/internal/errorwrapper"
)

// Exec replaces the current process image with the given command, PATH
// resolved, inheriting the environment. On success it does not return.
func Exec(command []string) error {
	if len(command) == 0 {
		return errorwrapper.NewError("no command to execute")
	}

	binary, err := exec.LookPath(command[0])
	if err != nil {
		return errorwrapper.WrapError(err, "could not locate command to execute")
	}

	return syscall.Exec(binary, command, os.Environ())
}
