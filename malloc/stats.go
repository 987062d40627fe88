package malloc

import "fmt"

import humanize "github.com/dustin/go-humanize"

// Poolstats snapshot of an object pool.
type Poolstats struct {
	Totalblocks int64
	Freeblocks  int64
	Inuse       int64
	Blocksize   int64
	Totalmemory int64 // including headers
	Peak        int64 // highest Inuse since creation
}

func (st Poolstats) String() string {
	return fmt.Sprintf(
		"blocksize:%v total:%v free:%v inuse:%v peak:%v memory:%v",
		humanize.IBytes(uint64(st.Blocksize)), st.Totalblocks,
		st.Freeblocks, st.Inuse, st.Peak,
		humanize.IBytes(uint64(st.Totalmemory)))
}

// Sysstats counters of the system allocator.
type Sysstats struct {
	Allocs    int64
	Frees     int64
	Failures  int64
	Live      int64
	Livebytes int64
	Limit     uint64 // physical memory, zero if unknown
}

func (st Sysstats) String() string {
	limit := "unknown"
	if st.Limit > 0 {
		limit = humanize.IBytes(st.Limit)
	}
	return fmt.Sprintf("allocs:%v frees:%v failures:%v live:%v(%v) limit:%v",
		humanize.Comma(st.Allocs), humanize.Comma(st.Frees), st.Failures,
		st.Live, humanize.IBytes(uint64(st.Livebytes)), limit)
}

// Cachestats snapshot of a ThreadCache.
type Cachestats struct {
	Id           string
	Counts       [Pooledclasses]int
	Maxsizes     [Pooledclasses]int
	Hits         int64
	Missessmall  int64
	Missesmedium int64
	Misseslarge  int64
	Missesother  int64
	Flushes      int64
	Hitratio     float64 // hits over all allocations
	Adaptive     bool
}

// Misses total across classes.
func (st Cachestats) Misses() int64 {
	return st.Missessmall + st.Missesmedium + st.Misseslarge + st.Missesother
}

func (st Cachestats) String() string {
	return fmt.Sprintf(
		"cache %v counts:%v max:%v hits:%v misses:%v/%v/%v/%v "+
			"flushes:%v ratio:%.2f adaptive:%v",
		st.Id, st.Counts, st.Maxsizes, humanize.Comma(st.Hits),
		st.Missessmall, st.Missesmedium, st.Misseslarge, st.Missesother,
		st.Flushes, st.Hitratio, st.Adaptive)
}
