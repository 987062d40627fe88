package malloc

import "github.com/bnclabs/mcpalloc/lib"

// Defaultsettings for pool system.
//
// "small.initial" (int64, default: 64)
//		Blocks preallocated for small class on lazy initialization.
//
// "medium.initial" (int64, default: 32)
//		Blocks preallocated for medium class on lazy initialization.
//
// "large.initial" (int64, default: 16)
//		Blocks preallocated for large class on lazy initialization.
//
// "small.maxblocks", "medium.maxblocks", "large.maxblocks" (int64, default: 0)
//		Upper limit on blocks in each class pool, 0 for unlimited.
//		Requests beyond the limit fall through to system allocator.
//
// "strictfree" (bool, default: false, true with debug tag)
//		Panic when a free cannot be routed to its allocator.
func Defaultsettings() lib.Settings {
	return lib.Settings{
		"small.initial":    Defaultsmall,
		"medium.initial":   Defaultmedium,
		"large.initial":    Defaultlarge,
		"small.maxblocks":  int64(0),
		"medium.maxblocks": int64(0),
		"large.maxblocks":  int64(0),
		"strictfree":       strictfree,
	}
}

// CacheConfig knobs for a ThreadCache.
type CacheConfig struct {
	Smallsize  int // initial capacity for small class
	Mediumsize int // initial capacity for medium class
	Largesize  int // initial capacity for large class

	Adaptive bool    // rescale capacities by hit ratio
	Growth   float64 // double capacity above this hit ratio
	Shrink   float64 // halve capacity below this hit ratio
	Mincache int
	Maxcache int
	Interval int // allocations between adjustments
}

// Defaultcacheconfig return the default knobs.
func Defaultcacheconfig() CacheConfig {
	return CacheConfig{
		Smallsize: 16, Mediumsize: 8, Largesize: 4,
		Adaptive: false, Growth: 0.8, Shrink: 0.3,
		Mincache: 4, Maxcache: Hardmaxcache, Interval: 100,
	}
}

// Cachesettings for ThreadCache, use NewCacheConfig to convert them.
//
// "cache.small", "cache.medium", "cache.large" (int64, default: 16, 8, 4)
//		Initial capacity of each class.
//
// "cache.adaptive" (bool, default: false)
//		Rescale capacities every "cache.interval" allocations.
//
// "cache.growth", "cache.shrink" (float64, default: 0.8, 0.3)
//		Hit ratio thresholds for doubling and halving capacities.
//
// "cache.min", "cache.max" (int64, default: 4, 64)
//		Clamp capacities, "cache.max" is limited to Hardmaxcache.
//
// "cache.interval" (int64, default: 100)
//		Allocations between adjustments.
func Cachesettings() lib.Settings {
	c := Defaultcacheconfig()
	return lib.Settings{
		"cache.small":    int64(c.Smallsize),
		"cache.medium":   int64(c.Mediumsize),
		"cache.large":    int64(c.Largesize),
		"cache.adaptive": c.Adaptive,
		"cache.growth":   c.Growth,
		"cache.shrink":   c.Shrink,
		"cache.min":      int64(c.Mincache),
		"cache.max":      int64(c.Maxcache),
		"cache.interval": int64(c.Interval),
	}
}

// NewCacheConfig from settings, missing keys take default values.
func NewCacheConfig(setts lib.Settings) CacheConfig {
	setts = Cachesettings().Mixin(setts)
	c := CacheConfig{
		Smallsize:  setts.Int("cache.small"),
		Mediumsize: setts.Int("cache.medium"),
		Largesize:  setts.Int("cache.large"),
		Adaptive:   setts.Bool("cache.adaptive"),
		Growth:     setts.Float64("cache.growth"),
		Shrink:     setts.Float64("cache.shrink"),
		Mincache:   setts.Int("cache.min"),
		Maxcache:   setts.Int("cache.max"),
		Interval:   setts.Int("cache.interval"),
	}
	return c.Normalize()
}

// Normalize clamp thresholds into [0,1] and capacities into
// [Mincache, Maxcache], with Maxcache limited to Hardmaxcache.
func (c CacheConfig) Normalize() CacheConfig {
	c.Growth, c.Shrink = clampf(c.Growth, 0, 1), clampf(c.Shrink, 0, 1)
	c.Mincache = clampi(c.Mincache, 1, Hardmaxcache)
	c.Maxcache = clampi(c.Maxcache, c.Mincache, Hardmaxcache)
	c.Smallsize = clampi(c.Smallsize, c.Mincache, c.Maxcache)
	c.Mediumsize = clampi(c.Mediumsize, c.Mincache, c.Maxcache)
	c.Largesize = clampi(c.Largesize, c.Mincache, c.Maxcache)
	if c.Interval <= 0 {
		c.Interval = Defaultcacheconfig().Interval
	}
	return c
}

func (c CacheConfig) sizes() [Pooledclasses]int {
	return [Pooledclasses]int{c.Smallsize, c.Mediumsize, c.Largesize}
}

func clampi(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampf(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
