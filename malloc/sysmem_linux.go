//go:build linux

package malloc

import "golang.org/x/sys/unix"

// physicalmem return total RAM in bytes, zero if unknown.
func physicalmem() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
