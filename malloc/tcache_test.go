package malloc

import "fmt"
import "sync"
import "testing"
import "unsafe"
import "math/rand"

import "github.com/stretchr/testify/require"

import "github.com/bnclabs/mcpalloc/lib"

var _ = fmt.Sprintf("dummy")

func newtestcache(t *testing.T, config *CacheConfig) (*ThreadCache, *PoolSystem) {
	ps := NewPoolSystem(lib.Settings{"strictfree": true})
	require.True(t, ps.Init(64, 32, 16))
	tc := NewThreadCache(ps)
	if config == nil {
		require.True(t, tc.Init())
	} else {
		require.True(t, tc.InitWithConfig(*config))
	}
	t.Cleanup(func() {
		tc.Cleanup()
		ps.Cleanup()
	})
	return tc, ps
}

func dataof(b []byte) *byte {
	return unsafe.SliceData(b)
}

func TestCacheReplay(t *testing.T) {
	tc, _ := newtestcache(t, nil)

	ptrs := make([][]byte, 20)
	for i := range ptrs {
		ptrs[i] = tc.Alloc(128)
		if len(ptrs[i]) != 128 {
			t.Fatalf("expected %v, got %v", 128, len(ptrs[i]))
		}
	}
	for _, b := range ptrs {
		tc.Free(b, 128)
	}
	stats, _ := tc.Stats()
	if stats.Counts[Small] != 16 {
		t.Fatalf("expected %v, got %v", 16, stats.Counts[Small])
	}
	hits := stats.Hits
	for i := 0; i < 16; i++ {
		b := tc.Alloc(128)
		if ref := ptrs[15-i]; dataof(b) != dataof(ref) {
			t.Errorf("%v: expected %p, got %p", i, ref, b)
		}
	}
	stats, _ = tc.Stats()
	if x := stats.Hits - hits; x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	} else if stats.Counts[Small] != 0 {
		t.Errorf("expected %v, got %v", 0, stats.Counts[Small])
	}
}

func TestCacheAdaptiveGrowth(t *testing.T) {
	config := CacheConfig{
		Smallsize: 8, Adaptive: true, Growth: 0.7,
		Mincache: 2, Maxcache: 32, Interval: 100,
	}
	tc, _ := newtestcache(t, &config)
	stats, _ := tc.Stats()
	require.Equal(t, 8, stats.Maxsizes[Small])
	require.Equal(t, 2, stats.Maxsizes[Medium], "clamped to min")

	for i := 0; i < 500; i++ {
		tc.Free(tc.Alloc(128), 128)
	}
	stats, _ = tc.Stats()
	if stats.Maxsizes[Small] <= 8 {
		t.Errorf("expected growth, got %v", stats.Maxsizes[Small])
	} else if stats.Maxsizes[Small] > 32 {
		t.Errorf("expected clamp to 32, got %v", stats.Maxsizes[Small])
	} else if stats.Hitratio < 0.7 {
		t.Errorf("expected hitratio >= 0.7, got %v", stats.Hitratio)
	}
	require.Equal(t, 2, stats.Maxsizes[Medium], "untouched class left alone")
	require.True(t, stats.Adaptive)
}

func TestCacheAdaptiveShrink(t *testing.T) {
	config := Defaultcacheconfig()
	config.Adaptive, config.Interval = true, 10
	tc, _ := newtestcache(t, &config)

	// fill small cache, then allocate medium blocks only: medium misses
	// every time and its capacity halves down to min.
	blocks := [][]byte{}
	for i := 0; i < 16; i++ {
		blocks = append(blocks, tc.Alloc(100))
	}
	for _, b := range blocks {
		tc.Free(b, 100)
	}
	held := [][]byte{}
	for i := 0; i < 40; i++ {
		held = append(held, tc.Alloc(1000))
	}
	stats, _ := tc.Stats()
	require.Equal(t, 4, stats.Maxsizes[Medium])
	for c := range stats.Counts {
		require.LessOrEqual(t, stats.Counts[c], stats.Maxsizes[c])
		require.LessOrEqual(t, stats.Maxsizes[c], Hardmaxcache)
	}
	for _, b := range held {
		tc.Free(b, 0)
	}
	stats, _ = tc.Stats()
	require.Equal(t, 4, stats.Counts[Medium])
}

func TestCacheConfigure(t *testing.T) {
	tc, ps := newtestcache(t, nil)
	blocks := [][]byte{}
	for i := 0; i < 16; i++ {
		blocks = append(blocks, tc.Alloc(64))
	}
	for _, b := range blocks {
		tc.Free(b, 64)
	}
	config := Defaultcacheconfig()
	config.Smallsize = 4
	require.True(t, tc.Configure(config))
	stats, _ := tc.Stats()
	require.Equal(t, 4, stats.Counts[Small], "overflow released")
	pstats, _ := ps.Stats(Small)
	require.Equal(t, int64(4), pstats.Inuse, "cached blocks count as in use")

	require.True(t, tc.InitWithConfig(Defaultcacheconfig()), "reconfigure")
	stats, _ = tc.Stats()
	require.Equal(t, 16, stats.Maxsizes[Small])
	require.True(t, tc.EnableAdaptive(true))
	stats, _ = tc.Stats()
	require.True(t, stats.Adaptive)
}

func TestCacheConfigNormalize(t *testing.T) {
	c := CacheConfig{
		Smallsize: 100, Mediumsize: 0, Largesize: 5,
		Growth: 1.5, Shrink: -1, Mincache: 0, Maxcache: 1000,
	}.Normalize()
	require.Equal(t, 1.0, c.Growth)
	require.Equal(t, 0.0, c.Shrink)
	require.Equal(t, 1, c.Mincache)
	require.Equal(t, Hardmaxcache, c.Maxcache)
	require.Equal(t, Hardmaxcache, c.Smallsize)
	require.Equal(t, 1, c.Mediumsize)
	require.Equal(t, 5, c.Largesize)
	require.Equal(t, 100, c.Interval)

	c = CacheConfig{Mincache: 10, Maxcache: 5}.Normalize()
	require.Equal(t, 10, c.Maxcache)

	c = NewCacheConfig(lib.Settings{"cache.small": 32, "cache.adaptive": true})
	require.Equal(t, 32, c.Smallsize)
	require.Equal(t, 8, c.Mediumsize)
	require.True(t, c.Adaptive)
	require.Equal(t, Defaultcacheconfig(), NewCacheConfig(nil))
}

func TestCacheUninitialized(t *testing.T) {
	tc := &ThreadCache{}
	require.False(t, tc.Initialized())
	_, ok := tc.Stats()
	require.False(t, ok)
	require.False(t, tc.Configure(Defaultcacheconfig()))
	require.False(t, tc.Flush())
	require.False(t, tc.Adjustsize())
	require.False(t, tc.EnableAdaptive(true))
	require.Nil(t, tc.Fullstats())

	before := Getsysstats()
	b := tc.Alloc(128)
	require.Len(t, b, 128)
	require.Zero(t, Blocksize(b), "uninitialized cache uses system allocator")
	tc.Free(b, 128)
	after := Getsysstats()
	require.Equal(t, before.Allocs+1, after.Allocs)
	require.Equal(t, before.Frees+1, after.Frees)
	tc.Cleanup()

	var nilcache *ThreadCache
	require.False(t, nilcache.Initialized())
}

func TestCacheProvenance(t *testing.T) {
	tc, ps := newtestcache(t, nil)
	sizes := []int{1, 100, 256, 257, 1000, 1024, 1025, 4096, 4097, 10000}
	rnd := rand.New(rand.NewSource(2))
	live := [][]byte{}
	for i := 0; i < 2000; i++ {
		if len(live) > 0 && rnd.Intn(2) == 0 {
			n := rnd.Intn(len(live))
			tc.Free(live[n], len(live[n]))
			live[n] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		size := sizes[rnd.Intn(len(sizes))]
		b := tc.Alloc(size)
		class := Classify(size)
		if class.Pooled() && Blocksize(b) != class.Blocksize() {
			t.Fatalf("%v: expected %v, got %v", size, class.Blocksize(), Blocksize(b))
		} else if !class.Pooled() && Blocksize(b) != 0 {
			t.Fatalf("%v: unexpected pool block", size)
		}
		live = append(live, b)
	}
	// mismatched hint does not put a block into the wrong class.
	b := tc.Alloc(1000)
	tc.Free(b, 10)
	stats, _ := tc.Stats()
	for c := range stats.Counts {
		for _, cached := range tc.state.caches[c][:stats.Counts[c]] {
			require.Equal(t, Class(c).Blocksize(), Blocksize(cached))
		}
	}
	for _, b := range live {
		tc.Free(b, 0)
	}
	tc.Flush()
	for _, class := range []Class{Small, Medium, Large} {
		pstats, _ := ps.Stats(class)
		require.Equal(t, int64(0), pstats.Inuse, class.String())
	}
}

func TestCacheAccounting(t *testing.T) {
	tc, _ := newtestcache(t, nil)
	sizes := []int{10, 300, 2000, 9000}
	n := 0
	for i := 0; i < 400; i++ {
		size := sizes[i%len(sizes)]
		b := tc.Alloc(size)
		n++
		if i%3 != 0 {
			tc.Free(b, size)
		}
	}
	stats, _ := tc.Stats()
	if x := stats.Hits + stats.Misses(); x != int64(n) {
		t.Errorf("expected %v, got %v", n, x)
	} else if stats.Missesother != 100 {
		t.Errorf("expected %v, got %v", 100, stats.Missesother)
	}
	require.InDelta(t, float64(stats.Hits)/float64(n), stats.Hitratio, 1e-9)
	require.Nil(t, tc.Alloc(0))
	stats2, _ := tc.Stats()
	require.Equal(t, stats.Hits+stats.Misses(), stats2.Hits+stats2.Misses())

	full := tc.Fullstats()
	require.Equal(t, stats.Id, full["id"])
	require.Contains(t, full["reqsize"], `"samples": 400`)
	require.Equal(t, int64(400), full["reqstats"].(map[string]interface{})["samples"])
	require.Equal(t, int64(9000), full["reqstats"].(map[string]interface{})["max"])
	require.Equal(t, int64(400), full["reqbins"].(map[string]int64)["+"])
	require.NotEmpty(t, stats.String())
}

func TestCacheSafeFreeRoundtrip(t *testing.T) {
	tc, _ := newtestcache(t, nil)
	for _, n := range []int{100, 1000, 4000} {
		tc.SafeFree(tc.Alloc(n), n)
		before, _ := tc.Stats()
		b := tc.Alloc(n)
		after, _ := tc.Stats()
		require.Equal(t, before.Hits+1, after.Hits, "size %v", n)
		tc.SafeFree(b, n)
	}
	// oversize and system blocks are released, never cached.
	before := Getsysstats()
	tc.SafeFree(tc.Alloc(9000), 9000)
	tc.SafeFree(Sysalloc(100), 0)
	tc.SafeFree(nil, 10)
	after := Getsysstats()
	require.Equal(t, before.Live, after.Live)
}

func TestCacheFlushCleanup(t *testing.T) {
	tc, ps := newtestcache(t, nil)
	for _, size := range []int{100, 1000, 3000} {
		tc.Free(tc.Alloc(size), size)
	}
	stats, _ := tc.Stats()
	require.Equal(t, [Pooledclasses]int{1, 1, 1}, stats.Counts)
	require.True(t, tc.Flush())
	stats, _ = tc.Stats()
	require.Equal(t, [Pooledclasses]int{}, stats.Counts)
	require.Equal(t, int64(1), stats.Flushes)
	require.Equal(t, int64(3), stats.Misses(), "counters survive flush")

	tc.Free(tc.Alloc(100), 100)
	tc.Cleanup()
	require.False(t, tc.Initialized())
	pstats, _ := ps.Stats(Small)
	require.Equal(t, int64(0), pstats.Inuse, "cleanup returns cached blocks")

	require.True(t, tc.Init(), "cache can be initialized again")
	newstats, _ := tc.Stats()
	require.NotEqual(t, stats.Id, newstats.Id)
	require.Equal(t, int64(0), newstats.Hits)
}

func TestCacheGoroutines(t *testing.T) {
	ps := NewPoolSystem(lib.Settings{"strictfree": true})
	require.True(t, ps.Init(16, 8, 4))
	defer ps.Cleanup()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			tc := NewThreadCache(ps)
			tc.Init()
			defer tc.Cleanup()
			held := [][]byte{}
			for i := 0; i < 3000; i++ {
				size := 1 + (i*37+g)%5000
				b := tc.Alloc(size)
				b[0], b[size-1] = byte(g), byte(g)
				held = append(held, b)
				if len(held) == 10 {
					for _, b := range held {
						if b[0] != byte(g) || b[len(b)-1] != byte(g) {
							t.Errorf("block shared between goroutines")
						}
						tc.Free(b, len(b))
					}
					held = held[:0]
				}
			}
			for _, b := range held {
				tc.Free(b, len(b))
			}
		}(g)
	}
	wg.Wait()
	for _, class := range []Class{Small, Medium, Large} {
		stats, _ := ps.Stats(class)
		require.Equal(t, int64(0), stats.Inuse, class.String())
	}
}

func BenchmarkCacheAllocFree(b *testing.B) {
	ps := NewPoolSystem(nil)
	ps.Init(64, 32, 16)
	defer ps.Cleanup()
	tc := NewThreadCache(ps)
	tc.Init()
	defer tc.Cleanup()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tc.Free(tc.Alloc(128), 128)
	}
}

func TestCacheDoubleFree(t *testing.T) {
	ps := NewPoolSystem(lib.Settings{"strictfree": false})
	require.True(t, ps.Init(4, 4, 4))
	defer ps.Cleanup()
	tc := NewThreadCache(ps)
	require.True(t, tc.Init())
	defer tc.Cleanup()

	b := tc.Alloc(100)
	tc.Free(b, 100)
	tc.Free(b, 100) // rejected, block is already cached
	stats, _ := tc.Stats()
	require.Equal(t, 1, stats.Counts[Small])

	b1, b2 := tc.Alloc(100), tc.Alloc(100)
	require.False(t, dataof(b1) == dataof(b2), "same block handed out twice")

	// cached block freed straight to the pool system.
	tc.Free(b1, 100)
	ps.Free(b1)
	pstats, _ := ps.Stats(Small)
	require.Equal(t, int64(2), pstats.Inuse, "cached block stays with the cache")

	strict := NewPoolSystem(lib.Settings{"strictfree": true})
	require.True(t, strict.Init(1, 1, 1))
	defer strict.Cleanup()
	stc := NewThreadCache(strict)
	require.True(t, stc.Init())
	defer stc.Cleanup()
	sb := stc.Alloc(2000)
	stc.Free(sb, 2000)
	require.Panics(t, func() { stc.Free(sb, 2000) })
}

func TestCacheStaleBlocks(t *testing.T) {
	ps := NewPoolSystem(lib.Settings{"strictfree": true})
	require.True(t, ps.Init(4, 4, 4))
	tc := NewThreadCache(ps)
	require.True(t, tc.Init())
	defer tc.Cleanup()

	for _, size := range []int{100, 1000, 3000} {
		tc.Free(tc.Alloc(size), size)
	}
	ps.Cleanup() // pools destroyed while blocks are cached

	for _, size := range []int{100, 1000, 3000} {
		b := tc.Alloc(size)
		require.Len(t, b, size)
		require.Equal(t, Classify(size).Blocksize(), Blocksize(b), "size %v", size)
		tc.Free(b, size)
	}
	stats, _ := tc.Stats()
	require.Equal(t, int64(0), stats.Hits, "stale entries are not hits")

	require.True(t, ps.Init(4, 4, 4))
	ps.Cleanup()
	require.NotPanics(t, func() { tc.Flush() })
}
