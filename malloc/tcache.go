package malloc

import "runtime"

import "github.com/google/uuid"

import "github.com/bnclabs/mcpalloc/api"
import "github.com/bnclabs/mcpalloc/lib"

// ThreadCache keep recently freed pool blocks per size class, in LIFO
// order, in front of a pool system. A ThreadCache is owned by a single
// goroutine and holds no locks, share blocks with other goroutines only
// after routing them back through SafeFree or the pool system.
//
// Zero value is an uninitialized cache, allocations from it go straight
// to the system allocator.
type ThreadCache struct {
	pools   api.Allocator
	state   *cachestate
	cleanup runtime.Cleanup
}

type cachestate struct {
	id       uuid.UUID
	pools    api.Allocator
	config   CacheConfig
	caches   [Pooledclasses][Hardmaxcache][]byte
	counts   [Pooledclasses]int
	maxsizes [Pooledclasses]int

	hits      int64
	misses    [Pooledclasses]int64
	missother int64
	flushes   int64
	ops       int // allocations since last adjustment

	// per class counters at last adjustment
	markhits   [Pooledclasses]int64
	markmisses [Pooledclasses]int64
	classhits  [Pooledclasses]int64

	h_reqsize *lib.HistogramInt64
}

// NewThreadCache return an uninitialized cache in front of `pools`,
// nil `pools` selects the default pool system.
func NewThreadCache(pools api.Allocator) *ThreadCache {
	return &ThreadCache{pools: pools}
}

// Init the cache with default configuration. Return true once the cache
// is initialized.
func (tc *ThreadCache) Init() bool {
	if tc.Initialized() {
		return true
	}
	return tc.InitWithConfig(Defaultcacheconfig())
}

// InitWithConfig initialize the cache with `config`, on an initialized
// cache this reconfigures it.
func (tc *ThreadCache) InitWithConfig(config CacheConfig) bool {
	if tc.Initialized() {
		return tc.Configure(config)
	}
	st := &cachestate{
		id:        uuid.New(),
		pools:     tc.pooler(),
		h_reqsize: lib.NewHistogramInt64(0, Largesize, Smallsize),
	}
	st.configure(config.Normalize())
	tc.state = st
	tc.cleanup = runtime.AddCleanup(tc, flushstate, st)
	debugf("tcache %v: initialized %v\n", st.id, st.maxsizes)
	return true
}

// flushstate return cached blocks of a dropped cache to their pools.
func flushstate(st *cachestate) {
	st.flush()
}

// Initialized return whether cache is ready.
func (tc *ThreadCache) Initialized() bool {
	return tc != nil && tc.state != nil
}

// Cleanup flush cached blocks and return the cache to uninitialized
// state.
func (tc *ThreadCache) Cleanup() {
	if !tc.Initialized() {
		return
	}
	tc.cleanup.Stop()
	tc.state.flush()
	debugf("tcache %v: cleaned up\n", tc.state.id)
	tc.state = nil
}

// Configure apply `config`, shrinking class capacities releases the
// overflow. Return false if cache is not initialized.
func (tc *ThreadCache) Configure(config CacheConfig) bool {
	if !tc.Initialized() {
		return false
	}
	tc.state.configure(config.Normalize())
	return true
}

// EnableAdaptive switch adaptive sizing on or off.
func (tc *ThreadCache) EnableAdaptive(enable bool) bool {
	if !tc.Initialized() {
		return false
	}
	tc.state.config.Adaptive = enable
	return true
}

// Alloc `size` bytes, served from cache when a block of the same class
// is available. Return nil for size <= 0 or when memory is not
// available.
func (tc *ThreadCache) Alloc(size int) []byte {
	if !tc.Initialized() {
		return Sysalloc(size)
	}
	st := tc.state
	class := Classify(size)
	if class == Invalid {
		return nil
	}
	st.ops++
	st.h_reqsize.Add(int64(size))
	st.checkadjust()

	if class.Pooled() {
		for n := st.counts[class]; n > 0; n = st.counts[class] {
			b := st.caches[class][n-1]
			st.caches[class][n-1], st.counts[class] = nil, n-1
			if hdr := headerof(b); hdr == nil || !hdr.swapstate(blockcached, blockinuse) {
				debugf("tcache %v: dropped stale %v block\n", st.id, class)
				continue
			}
			st.hits++
			st.classhits[class]++
			initblock(b)
			return b[:size]
		}
		st.misses[class]++
	} else {
		st.missother++
	}
	return st.pools.Alloc(size)
}

// Free block `b` of `size` bytes. Zero `size` is looked up from block
// header, blocks that are not from a pool are released to the system
// allocator.
func (tc *ThreadCache) Free(b []byte, size int) {
	if cap(b) == 0 {
		return
	} else if !tc.Initialized() {
		SafeFree(b, size)
		return
	}
	st := tc.state
	blocksize := Blocksize(b)
	if size <= 0 {
		if blocksize == 0 {
			st.release(b)
			return
		}
		size = int(blocksize)
	}
	class := Classify(size)
	if class.Pooled() && blocksize == class.Blocksize() {
		if n := st.counts[class]; n < st.maxsizes[class] {
			if !headerof(b).swapstate(blockinuse, blockcached) {
				st.rejected(b, api.ErrorDoubleFree)
				return
			}
			st.caches[class][n], st.counts[class] = b[:cap(b)], n+1
			return
		}
	}
	st.checkadjust()
	st.release(b)
}

// SafeFree route `b` to its allocator, refer to package level SafeFree.
// On an initialized cache pool blocks are offered to the cache first,
// so that a block freed here is reused by the next Alloc of its class.
func (tc *ThreadCache) SafeFree(b []byte, hint int) {
	if cap(b) == 0 {
		return
	} else if tc.Initialized() && (hint > 0 || Blocksize(b) > 0) {
		tc.Free(b, hint)
		return
	} else if Blocksize(b) > 0 {
		tc.pooler().Free(b)
		return
	}
	sysrelease(rejector(tc.pooler()), b)
}

func (tc *ThreadCache) pooler() api.Allocator {
	if tc.pools == nil {
		return Default()
	}
	return tc.pools
}

// Adjustsize rescale class capacities from hit ratio since the last
// adjustment. Classes without traffic are left alone.
func (tc *ThreadCache) Adjustsize() bool {
	if !tc.Initialized() {
		return false
	}
	tc.state.adjustsize()
	return true
}

// Flush return every cached block to the pool system.
func (tc *ThreadCache) Flush() bool {
	if !tc.Initialized() {
		return false
	}
	tc.state.flush()
	return true
}

// Stats return cache counters, false if cache is not initialized.
func (tc *ThreadCache) Stats() (Cachestats, bool) {
	if !tc.Initialized() {
		return Cachestats{}, false
	}
	st := tc.state
	stats := Cachestats{
		Id:           st.id.String(),
		Counts:       st.counts,
		Maxsizes:     st.maxsizes,
		Hits:         st.hits,
		Missessmall:  st.misses[Small],
		Missesmedium: st.misses[Medium],
		Misseslarge:  st.misses[Large],
		Missesother:  st.missother,
		Flushes:      st.flushes,
		Adaptive:     st.config.Adaptive,
	}
	if total := stats.Hits + stats.Misses(); total > 0 {
		stats.Hitratio = float64(stats.Hits) / float64(total)
	}
	return stats, true
}

// Fullstats return Stats along with request size statistics, "reqbins"
// holds cumulative counts of the request size histogram.
func (tc *ThreadCache) Fullstats() map[string]interface{} {
	stats, ok := tc.Stats()
	if !ok {
		return nil
	}
	return map[string]interface{}{
		"id":       stats.Id,
		"counts":   stats.Counts,
		"maxsizes": stats.Maxsizes,
		"hits":     stats.Hits,
		"misses":   stats.Misses(),
		"flushes":  stats.Flushes,
		"hitratio": stats.Hitratio,
		"adaptive": stats.Adaptive,
		"reqsize":  tc.state.h_reqsize.Logstring(),
		"reqstats": tc.state.h_reqsize.AverageInt64.Stats(),
		"reqbins":  tc.state.h_reqsize.Stats(),
	}
}

//---- local functions

func (st *cachestate) configure(config CacheConfig) {
	st.config = config
	st.maxsizes = config.sizes()
	st.trim()
}

func (st *cachestate) checkadjust() {
	if st.config.Adaptive && st.ops >= st.config.Interval {
		st.adjustsize()
	}
}

func (st *cachestate) adjustsize() {
	for c := range st.maxsizes {
		hits := st.classhits[c] - st.markhits[c]
		misses := st.misses[c] - st.markmisses[c]
		st.markhits[c], st.markmisses[c] = st.classhits[c], st.misses[c]
		if hits+misses == 0 {
			continue
		}
		ratio, size := float64(hits)/float64(hits+misses), st.maxsizes[c]
		if ratio > st.config.Growth {
			size *= 2
		} else if ratio < st.config.Shrink {
			size /= 2
		}
		size = clampi(size, st.config.Mincache, st.config.Maxcache)
		if size != st.maxsizes[c] {
			debugf("tcache %v: %v capacity %v -> %v ratio:%.2f\n",
				st.id, Class(c), st.maxsizes[c], size, ratio)
		}
		st.maxsizes[c] = size
	}
	st.ops = 0
	st.trim()
}

// trim release entries above class capacity, most recent first.
func (st *cachestate) trim() {
	for c := range st.counts {
		for st.counts[c] > st.maxsizes[c] {
			n := st.counts[c] - 1
			b := st.caches[c][n]
			st.caches[c][n], st.counts[c] = nil, n
			st.evict(b)
		}
	}
}

func (st *cachestate) flush() {
	for c := range st.counts {
		for n := st.counts[c] - 1; n >= 0; n-- {
			b := st.caches[c][n]
			st.caches[c][n] = nil
			st.evict(b)
		}
		st.counts[c] = 0
	}
	st.flushes++
}

// evict a cached block back to its pool. Blocks whose pool was
// destroyed while cached are dropped.
func (st *cachestate) evict(b []byte) {
	if hdr := headerof(b); hdr != nil && hdr.swapstate(blockcached, blockinuse) {
		st.release(b)
		return
	}
	debugf("tcache %v: dropped stale block\n", st.id)
}

// release to pool system, which know how to route pool and system
// blocks. Going through SafeFree here would come back to the cache.
func (st *cachestate) release(b []byte) {
	st.pools.Free(b)
}

func (st *cachestate) rejected(b []byte, err error) {
	rejector(st.pools).rejected(b, err)
}
