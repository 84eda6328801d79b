//go:build !unix

package abax

import "time"

// cpuTime reports that CPU time accounting is unavailable; CPU stopwatches
// fall back to wall clock time.
func cpuTime() (time.Duration, bool) {
	return 0, false
}
