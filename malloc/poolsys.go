package malloc

import "sync"
import "sync/atomic"

import "github.com/bnclabs/mcpalloc/api"
import "github.com/bnclabs/mcpalloc/lib"

type poolset [Pooledclasses]*ObjectPool

var _ api.Allocator = (*PoolSystem)(nil)

// PoolSystem route requests to one pool per size class, falling back
// to the system allocator for oversize requests and exhausted pools.
// PoolSystem is safe for concurrent use. A block freed through any
// PoolSystem is returned to the pool that owns it.
type PoolSystem struct {
	mu        sync.Mutex // serialize Init and Cleanup
	pools     atomic.Pointer[poolset]
	initial   [Pooledclasses]int64
	maxblocks [Pooledclasses]int64
	strict    bool
}

// NewPoolSystem create an uninitialized pool system, refer to
// Defaultsettings for `setts`. Missing keys take default values.
func NewPoolSystem(setts lib.Settings) *PoolSystem {
	setts = Defaultsettings().Mixin(setts)
	ps := &PoolSystem{strict: setts.Bool("strictfree")}
	for c := Small; c <= Large; c++ {
		ps.initial[c] = setts.Int64(c.String() + ".initial")
		ps.maxblocks[c] = setts.Int64(c.String() + ".maxblocks")
	}
	return ps
}

// Init create the class pools with `small`, `medium` and `large`
// preallocated blocks. Return true if the system is initialized, calling
// Init on an initialized system is a no-op.
func (ps *PoolSystem) Init(small, medium, large int64) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.pools.Load() != nil {
		return true
	}
	set := &poolset{}
	for c, initial := range [Pooledclasses]int64{small, medium, large} {
		class := Class(c)
		pool, err := NewObjectPool(class.Blocksize(), initial, ps.maxblocks[c])
		if err != nil {
			errorf("poolsystem: %v pool: %v\n", class, err)
			for _, pool := range set[:c] {
				pool.Destroy()
			}
			return false
		}
		set[c] = pool
	}
	ps.pools.Store(set)
	infof("poolsystem: initialized small:%v medium:%v large:%v\n", small, medium, large)
	return true
}

// Initialized return whether the class pools exist.
func (ps *PoolSystem) Initialized() bool {
	return ps.pools.Load() != nil
}

// Cleanup destroy the class pools, the system can be initialized again.
func (ps *PoolSystem) Cleanup() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	set := ps.pools.Swap(nil)
	if set == nil {
		return
	}
	for _, pool := range set {
		pool.Destroy()
	}
	infof("poolsystem: cleaned up\n")
}

// Alloc implement api.Allocator interface. Requests within Large class
// lazily initialize the system with configured initial blocks. Return
// nil for size <= 0 or when memory is not available.
func (ps *PoolSystem) Alloc(size int) []byte {
	class := Classify(size)
	switch class {
	case Invalid:
		return nil
	case Oversize:
		return Sysalloc(size)
	}
	set := ps.pools.Load()
	if set == nil {
		if !ps.Init(ps.initial[Small], ps.initial[Medium], ps.initial[Large]) {
			return Sysalloc(size)
		}
		set = ps.pools.Load()
	}
	if set == nil { // raced with Cleanup
		return Sysalloc(size)
	}
	b, err := set[class].Alloc()
	if err != nil {
		debugf("poolsystem: %v pool: %v, using system allocator\n", class, err)
		return Sysalloc(size)
	}
	return b[:size]
}

// Free implement api.Allocator interface. Pool blocks go back to their
// owner, everything else is released to the system allocator.
func (ps *PoolSystem) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	var err error
	if Blocksize(b) > 0 {
		if pool := lookuppool(headerof(b).owner); pool != nil {
			err = pool.Free(b)
		} else {
			err = api.ErrorPoolReleased
		}
	} else {
		err = Sysfree(b)
	}
	if err != nil {
		ps.rejected(b, err)
	}
}

func (ps *PoolSystem) rejected(b []byte, err error) {
	if ps.strict {
		panicerr("poolsystem: free(%p): %v", b, err)
	}
	errorf("poolsystem: free(%p): %v\n", b, err)
}

// Stats for `class`, return false if the system is not initialized or
// class is not pooled.
func (ps *PoolSystem) Stats(class Class) (Poolstats, bool) {
	set := ps.pools.Load()
	if set == nil || !class.Pooled() {
		return Poolstats{}, false
	}
	return set[class].Stats(), true
}

var defaultsystem = NewPoolSystem(nil)

// Default return the process wide pool system used by package level
// functions.
func Default() *PoolSystem {
	return defaultsystem
}

// InitPoolSystem initialize the default pool system.
func InitPoolSystem(small, medium, large int64) bool {
	return defaultsystem.Init(small, medium, large)
}

// CleanupPoolSystem destroy pools of the default pool system.
func CleanupPoolSystem() {
	defaultsystem.Cleanup()
}

// PoolSystemInitialized return whether default pool system is ready.
func PoolSystemInitialized() bool {
	return defaultsystem.Initialized()
}

// PoolAlloc allocate from the default pool system.
func PoolAlloc(size int) []byte {
	return defaultsystem.Alloc(size)
}

// PoolFree release a block through the default pool system.
func PoolFree(b []byte) {
	defaultsystem.Free(b)
}

// PoolStats of the default pool system.
func PoolStats(class Class) (Poolstats, bool) {
	return defaultsystem.Stats(class)
}
