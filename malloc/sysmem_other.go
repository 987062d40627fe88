//go:build !linux

package malloc

func physicalmem() uint64 {
	return 0
}
