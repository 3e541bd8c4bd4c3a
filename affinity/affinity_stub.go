//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback for platforms without an affinity-mask syscall surface.

package affinity

import "runtime"

// parallelismPlatform reports the runtime's logical CPU count.
func parallelismPlatform() int {
	return runtime.NumCPU()
}
