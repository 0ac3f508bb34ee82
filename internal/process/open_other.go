//go:build !linux && !windows

package process

import (
	"fmt"

	"github.com/wnxd/psxhook/process"
)

func Open(pid int) (process.Process, error) {
	return nil, fmt.Errorf("open pid %d: %w", pid, process.ErrArchUnsupported)
}
