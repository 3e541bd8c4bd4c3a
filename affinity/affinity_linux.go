//go:build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux implementation: counts CPUs in the scheduling affinity mask of the
// current process. Respects cgroup/cpuset restrictions that a bare
// runtime.NumCPU call would also reflect, but read fresh on each probe.

package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// parallelismPlatform reads the affinity mask via sched_getaffinity(2).
func parallelismPlatform() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtime.NumCPU()
	}
	return set.Count()
}
