//go:build unix

package abax

import (
	"time"

	"golang.org/x/sys/unix"
)

// cpuTime returns the user plus system CPU time consumed by the process.
func cpuTime() (time.Duration, bool) {
	var usage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &usage); err != nil {
		return 0, false
	}
	return time.Duration(usage.Utime.Nano()+usage.Stime.Nano()) * time.Nanosecond, true
}
