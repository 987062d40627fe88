package malloc

import "fmt"
import "sync"
import "sync/atomic"

import "github.com/bnclabs/mcpalloc/api"

// registry of live pools, block headers refer to their owner by id.
var registry sync.Map // uint32 -> *ObjectPool
var poolseq atomic.Uint32

var _ api.Pooler = (*ObjectPool)(nil)

func lookuppool(id uint32) *ObjectPool {
	if pool, ok := registry.Load(id); ok {
		return pool.(*ObjectPool)
	}
	return nil
}

// ObjectPool manage fixed size blocks, carved from a slab preallocated
// at creation and grown one block at a time after that. ObjectPool is
// safe for concurrent use.
type ObjectPool struct {
	mu        sync.Mutex
	id        uint32
	blocksize int64 // payload size
	totalsize int64 // header + payload
	maxblocks int64 // 0 for unlimited
	freelist  [][]byte
	slab      []byte
	grown     []uintptr // payload address of blocks outside the slab

	totalblocks int64
	peak        int64
	destroyed   bool
}

// NewObjectPool create a pool of blocks with `blocksize` bytes payload,
// preallocating `initial` blocks and growing up to `maxblocks`, zero
// `maxblocks` means unlimited.
func NewObjectPool(blocksize, initial, maxblocks int64) (*ObjectPool, error) {
	if blocksize < Hdrsize {
		err := fmt.Errorf("%w: blocksize %v < header %v", api.ErrorInvalidArgument, blocksize, Hdrsize)
		return nil, err
	} else if initial < 0 || maxblocks < 0 {
		err := fmt.Errorf("%w: initial %v maxblocks %v", api.ErrorInvalidArgument, initial, maxblocks)
		return nil, err
	} else if maxblocks > 0 && initial > maxblocks {
		initial = maxblocks
	}

	blocksize = roundup(blocksize, Alignment)
	pool := &ObjectPool{
		id:        poolseq.Add(1),
		blocksize: blocksize,
		totalsize: blocksize + Hdrsize,
		maxblocks: maxblocks,
		freelist:  make([][]byte, 0, initial),
	}
	if initial > 0 {
		if slab, err := makemem(initial * pool.totalsize); err == nil {
			pool.slab = slab
			trackslab(slab, pool.totalsize)
			for off := int64(0); off < int64(len(slab)); off += pool.totalsize {
				mem := slab[off : off+pool.totalsize : off+pool.totalsize]
				pool.freelist = append(pool.freelist, pool.stamp(mem))
			}
		} else {
			fmsg := "pool %v: slab of %v blocks failed, allocating per block\n"
			warnf(fmsg, pool.id, initial)
			for i := int64(0); i < initial; i++ {
				mem, err := makemem(pool.totalsize)
				if err != nil {
					pool.untrack()
					return nil, err
				}
				pool.freelist = append(pool.freelist, pool.grow(mem))
			}
		}
		pool.totalblocks = initial
	}
	registry.Store(pool.id, pool)
	debugf("pool %v: created blocksize:%v initial:%v max:%v\n",
		pool.id, blocksize, initial, maxblocks)
	return pool, nil
}

func (pool *ObjectPool) stamp(mem []byte) []byte {
	return stamp(mem, Poolmagic, pool.id, blockfree)
}

// grow stamp and register a block allocated outside the slab.
func (pool *ObjectPool) grow(mem []byte) []byte {
	b := pool.stamp(mem)
	trackblock(mem)
	pool.grown = append(pool.grown, addressof(b))
	return b
}

func (pool *ObjectPool) untrack() {
	if pool.slab != nil {
		untrackslab(pool.slab)
	}
	for _, addr := range pool.grown {
		untrackblock(addr)
	}
	pool.grown = nil
}

// Blocksize implement api.Pooler interface.
func (pool *ObjectPool) Blocksize() int64 {
	return pool.blocksize
}

// Alloc implement api.Pooler interface. Return ErrorPoolExhausted when
// the pool is at `maxblocks`.
func (pool *ObjectPool) Alloc() ([]byte, error) {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.destroyed {
		return nil, api.ErrorPoolReleased
	}

	var b []byte
	if n := len(pool.freelist); n > 0 {
		b, pool.freelist[n-1] = pool.freelist[n-1], nil
		pool.freelist = pool.freelist[:n-1]

	} else if pool.maxblocks > 0 && pool.totalblocks >= pool.maxblocks {
		warnf("pool %v: memory pool at capacity %v blocks\n", pool.id, pool.maxblocks)
		return nil, api.ErrorPoolExhausted

	} else {
		mem, err := makemem(pool.totalsize)
		if err != nil {
			return nil, err
		}
		b = pool.grow(mem)
		pool.totalblocks++
	}

	headerof(b).swapstate(blockfree, blockinuse)
	if inuse := pool.totalblocks - int64(len(pool.freelist)); inuse > pool.peak {
		pool.peak = inuse
	}
	initblock(b)
	return b, nil
}

// Free implement api.Pooler interface. Blocks not owned by this pool
// are rejected with ErrorForeignBlock and left untouched.
func (pool *ObjectPool) Free(b []byte) error {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.destroyed {
		return api.ErrorPoolReleased
	}
	hdr := headerof(b)
	if hdr == nil || hdr.magic != Poolmagic || hdr.owner != pool.id {
		return api.ErrorForeignBlock
	} else if !hdr.swapstate(blockinuse, blockfree) {
		return api.ErrorDoubleFree
	}
	b = hdr.block()
	poisonblock(b)
	pool.freelist = append(pool.freelist, b)
	return nil
}

// Stats return a snapshot of pool counters.
func (pool *ObjectPool) Stats() Poolstats {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	free := int64(len(pool.freelist))
	return Poolstats{
		Totalblocks: pool.totalblocks,
		Freeblocks:  free,
		Inuse:       pool.totalblocks - free,
		Blocksize:   pool.blocksize,
		Totalmemory: pool.totalblocks * pool.totalsize,
		Peak:        pool.peak,
	}
}

// Destroy implement api.Pooler interface. Outstanding blocks are logged
// and must not be used after this call.
func (pool *ObjectPool) Destroy() {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.destroyed {
		return
	}
	if inuse := pool.totalblocks - int64(len(pool.freelist)); inuse > 0 {
		warnf("pool %v: destroyed with %v blocks in use\n", pool.id, inuse)
	}
	registry.Delete(pool.id)
	for _, b := range pool.freelist {
		headerof(b).invalidate()
	}
	pool.untrack()
	pool.freelist, pool.slab = nil, nil
	pool.destroyed = true
	debugf("pool %v: destroyed\n", pool.id)
}

// Blocksize return the payload size of the pool owning `b`, zero if `b`
// is nil or not a live pool block.
func Blocksize(b []byte) int64 {
	hdr := headerof(b)
	if hdr == nil || hdr.magic != Poolmagic {
		return 0
	} else if lookuppool(hdr.owner) == nil {
		return 0
	}
	return int64(hdr.size)
}

func (pool *ObjectPool) String() string {
	return fmt.Sprintf("pool<%v,%v>", pool.id, pool.blocksize)
}
