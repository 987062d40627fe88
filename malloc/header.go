package malloc

import "unsafe"
import "math/rand/v2"
import "sync/atomic"

// blockhdr is stamped in front of every block, inside the same Go
// allocation. It holds no Go pointers so it can live in a []byte.
type blockhdr struct {
	magic uint32
	owner uint32 // registry id of the owning pool, 0 for system blocks
	state uint32
	_     uint32
	size  uint64 // payload size
	seal  uint64
}

var sealkey = rand.Uint64() | 1

func init() {
	if unsafe.Sizeof(blockhdr{}) != uintptr(Hdrsize) {
		panicerr("blockhdr is %v bytes, expected %v", unsafe.Sizeof(blockhdr{}), Hdrsize)
	}
}

func (hdr *blockhdr) sealed() uint64 {
	return uint64(uintptr(unsafe.Pointer(hdr))) ^ sealkey
}

// stamp a header at the start of `mem` and return the payload.
func stamp(mem []byte, magic, owner uint32, state uint32) []byte {
	payload := int64(len(mem)) - Hdrsize
	hdr := (*blockhdr)(unsafe.Pointer(unsafe.SliceData(mem)))
	hdr.magic, hdr.owner, hdr.size = magic, owner, uint64(payload)
	atomic.StoreUint32(&hdr.state, state)
	hdr.seal = hdr.sealed()
	return mem[Hdrsize:len(mem):len(mem)]
}

// headerof return the header in front of block `b`, nil if `b` does
// not start at a block handed out by this package or its header is not
// valid. Memory in front of foreign slices is never read.
func headerof(b []byte) *blockhdr {
	if !known(b) {
		return nil
	}
	ptr := unsafe.Pointer(unsafe.SliceData(b))
	hdr := (*blockhdr)(unsafe.Add(ptr, -Hdrsize))
	if hdr.magic != Poolmagic && hdr.magic != Sysmagic {
		return nil
	} else if hdr.seal != hdr.sealed() {
		return nil
	} else if hdr.size < uint64(cap(b)) {
		return nil
	}
	return hdr
}

// block return the payload of hdr at full length.
func (hdr *blockhdr) block() []byte {
	ptr := unsafe.Add(unsafe.Pointer(hdr), Hdrsize)
	return unsafe.Slice((*byte)(ptr), int(hdr.size))
}

func (hdr *blockhdr) swapstate(from, to uint32) bool {
	return atomic.CompareAndSwapUint32(&hdr.state, from, to)
}

func (hdr *blockhdr) getstate() uint32 {
	return atomic.LoadUint32(&hdr.state)
}

// invalidate header so that later lookups miss it.
func (hdr *blockhdr) invalidate() {
	hdr.magic, hdr.seal = 0, 0
	atomic.StoreUint32(&hdr.state, 0)
}
