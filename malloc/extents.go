package malloc

import "sort"
import "sync"
import "unsafe"

// blockset map payload address to backing memory of blocks allocated
// one at a time, system blocks and pool blocks outside the slab.
var blockset sync.Map // uintptr -> []byte

type slabrange struct {
	start, end uintptr
	stride     uintptr // header + payload
}

// slabs of live pools, sorted by start address.
var slabs struct {
	mu     sync.RWMutex
	ranges []slabrange
}

func addressof(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// trackblock register the payload of `mem`, a single block with header.
func trackblock(mem []byte) {
	blockset.Store(addressof(mem)+uintptr(Hdrsize), mem)
}

func untrackblock(addr uintptr) {
	blockset.Delete(addr)
}

// trackslab register `slab` carved into `stride` sized blocks.
func trackslab(slab []byte, stride int64) {
	r := slabrange{
		start:  addressof(slab),
		end:    addressof(slab) + uintptr(len(slab)),
		stride: uintptr(stride),
	}
	slabs.mu.Lock()
	defer slabs.mu.Unlock()
	i := sort.Search(len(slabs.ranges), func(i int) bool {
		return slabs.ranges[i].start >= r.start
	})
	slabs.ranges = append(slabs.ranges, slabrange{})
	copy(slabs.ranges[i+1:], slabs.ranges[i:])
	slabs.ranges[i] = r
}

func untrackslab(slab []byte) {
	start := addressof(slab)
	slabs.mu.Lock()
	defer slabs.mu.Unlock()
	for i, r := range slabs.ranges {
		if r.start == start {
			slabs.ranges = append(slabs.ranges[:i], slabs.ranges[i+1:]...)
			return
		}
	}
}

// known return whether `b` start at the payload of a block handed out
// by this package, only then the header in front of it may be read.
func known(b []byte) bool {
	if cap(b) == 0 {
		return false
	}
	addr := addressof(b)
	if _, ok := blockset.Load(addr); ok {
		return true
	}

	slabs.mu.RLock()
	defer slabs.mu.RUnlock()
	i := sort.Search(len(slabs.ranges), func(i int) bool {
		return slabs.ranges[i].end > addr
	})
	if i == len(slabs.ranges) {
		return false
	}
	r := slabs.ranges[i]
	if addr < r.start+uintptr(Hdrsize) {
		return false
	}
	return (addr-r.start-uintptr(Hdrsize))%r.stride == 0
}
