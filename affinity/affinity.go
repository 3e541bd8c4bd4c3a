// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API for host parallelism probing. Platform-specific
// implementations live in separate files guarded by build tags.

package affinity

// Parallelism returns the number of logical CPUs usable by this process.
// Used to size the worker poller group. The result is always >= 1.
func Parallelism() int {
	n := parallelismPlatform()
	if n < 1 {
		return 1
	}
	return n
}
