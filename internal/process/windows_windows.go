//go:build windows

package process

import (
	"github.com/wnxd/psxhook/process"
	"golang.org/x/sys/windows"
)

// Windows lists processes that own a visible top-level window.
func Windows() ([]process.Info, error) {
	seen := make(map[uint32]struct{})
	var pids []int32
	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if !windows.IsWindowVisible(hwnd) {
			return 1
		}
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
			return 1
		}
		if _, ok := seen[pid]; !ok {
			seen[pid] = struct{}{}
			pids = append(pids, int32(pid))
		}
		return 1
	})
	if err := windows.EnumWindows(cb, nil); err != nil {
		return nil, err
	}
	return processInfo(pids), nil
}
