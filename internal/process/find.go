package process

import (
	"fmt"
	"slices"
	"strings"

	psutil "github.com/shirou/gopsutil/v3/process"
	"github.com/wnxd/psxhook/process"
)

// FindByName returns the pid of the first running process whose executable
// name matches name, ignoring case.
func FindByName(name string) (int, error) {
	procs, err := psutil.Processes()
	if err != nil {
		return 0, err
	}
	for _, p := range procs {
		n, err := p.Name()
		if err == nil && strings.EqualFold(n, name) {
			return int(p.Pid), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", process.ErrNotFound, name)
}

func processInfo(pids []int32) []process.Info {
	infos := make([]process.Info, 0, len(pids))
	for _, pid := range pids {
		p, err := psutil.NewProcess(pid)
		if err != nil {
			continue
		}
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		infos = append(infos, process.Info{Pid: int(pid), Name: name})
	}
	slices.SortFunc(infos, func(a, b process.Info) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return infos
}
