package malloc

import "fmt"
import "sync/atomic"

import "github.com/bnclabs/mcpalloc/api"

var sysstats struct {
	allocs    atomic.Int64
	frees     atomic.Int64
	failures  atomic.Int64
	live      atomic.Int64
	livebytes atomic.Int64
}

var sysmemlimit = physicalmem()

// makemem allocate raw memory from Go heap. Tests replace this to
// simulate allocation failures.
var makemem = func(n int64) (mem []byte, err error) {
	if n <= 0 || (sysmemlimit > 0 && uint64(n) > sysmemlimit) {
		return nil, fmt.Errorf("%w: %v bytes", api.ErrorOutofMemory, n)
	}
	defer func() {
		if r := recover(); r != nil {
			mem, err = nil, fmt.Errorf("%w: %v", api.ErrorOutofMemory, r)
		}
	}()
	return make([]byte, n), nil
}

// Sysalloc allocate `n` bytes from the system allocator. Returned block
// carries a header so that it can be told apart from pool blocks, and
// is zero filled. Return nil if n <= 0 or memory is not available.
func Sysalloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	payload := roundup(int64(n), Alignment)
	mem, err := makemem(Hdrsize + payload)
	if err != nil {
		sysstats.failures.Add(1)
		warnf("sysalloc(%v): %v\n", n, err)
		return nil
	}
	b := stamp(mem, Sysmagic, 0, blockinuse)
	trackblock(mem)
	sysstats.allocs.Add(1)
	sysstats.live.Add(1)
	sysstats.livebytes.Add(payload)
	return b[:n]
}

// Sysfree release a block obtained from Sysalloc. Nil blocks are
// ignored. Memory is reclaimed by the garbage collector once the
// caller drops every reference to it, after that the block is unknown
// and freeing it again is reported as ErrorForeignBlock.
func Sysfree(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	hdr := headerof(b)
	if hdr == nil || hdr.magic != Sysmagic {
		return api.ErrorForeignBlock
	} else if !hdr.swapstate(blockinuse, blockfree) {
		return api.ErrorDoubleFree
	}
	untrackblock(addressof(b))
	sysstats.frees.Add(1)
	sysstats.live.Add(-1)
	sysstats.livebytes.Add(-int64(hdr.size))
	return nil
}

// Getsysstats return counters for the system allocator.
func Getsysstats() Sysstats {
	return Sysstats{
		Allocs:    sysstats.allocs.Load(),
		Frees:     sysstats.frees.Load(),
		Failures:  sysstats.failures.Load(),
		Live:      sysstats.live.Load(),
		Livebytes: sysstats.livebytes.Load(),
		Limit:     sysmemlimit,
	}
}
