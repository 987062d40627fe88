package malloc

import "github.com/bnclabs/mcpalloc/api"

// SafeFree release `b` without knowing which allocator produced it.
// Pool blocks go back to their owning pool, anything else to the system
// allocator. Goroutines owning a ThreadCache should use its SafeFree
// method so that `hint` sized blocks can be cached.
func SafeFree(b []byte, hint int) {
	if cap(b) == 0 {
		return
	} else if Blocksize(b) > 0 {
		defaultsystem.Free(b)
		return
	}
	sysrelease(defaultsystem, b)
}

// sysrelease free a system block, rejections are handled as configured
// for `ps`.
func sysrelease(ps *PoolSystem, b []byte) {
	if err := Sysfree(b); err != nil {
		ps.rejected(b, err)
	}
}

// rejector return the pool system whose strictfree setting applies to
// frees routed through `pools`.
func rejector(pools api.Allocator) *PoolSystem {
	if ps, ok := pools.(*PoolSystem); ok && ps != nil {
		return ps
	}
	return defaultsystem
}
