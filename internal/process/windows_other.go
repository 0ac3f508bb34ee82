//go:build !windows

package process

import (
	psutil "github.com/shirou/gopsutil/v3/process"
	"github.com/wnxd/psxhook/process"
)

// Windows lists every visible process; there is no portable notion of a
// top-level window outside Windows.
func Windows() ([]process.Info, error) {
	pids, err := psutil.Pids()
	if err != nil {
		return nil, err
	}
	return processInfo(pids), nil
}
