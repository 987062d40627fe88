package region

import "fmt"
import "math"
import "unsafe"

import humanize "github.com/dustin/go-humanize"

import "github.com/bnclabs/mcpalloc/api"
import "github.com/bnclabs/mcpalloc/lib"
import "github.com/bnclabs/mcpalloc/malloc"

// Defaultblocksize in bytes, of slabs added to a region.
const Defaultblocksize = 32 * 1024

const ptrsize = int(unsafe.Sizeof(uintptr(0)))

type slab[T any] struct {
	data []T
	used int
}

// Region is a bump allocator for values of type T. Memory is handed
// out from slabs and reclaimed in bulk by Reset or Destroy. Region is
// not safe for concurrent use, an owner may hand it to another goroutine
// with external synchronization.
type Region[T any] struct {
	slabs      []*slab[T] // in creation order
	cursor     int        // slab that serves next allocation
	unitsize   int
	align      int // in units
	blockunits int

	allocated int64 // bytes since reset
	peak      int64
	avgsize   lib.AverageInt64
}

// New return a region whose slabs hold `blocksize` bytes, or
// more when a single request needs it. Zero or negative `blocksize`
// selects Defaultblocksize.
func New[T any](blocksize int) *Region[T] {
	r := &Region[T]{}
	r.Init(blocksize)
	return r
}

// Fromsettings return a region configured by `setts`, refer to
// Defaultsettings.
func Fromsettings[T any](setts lib.Settings) *Region[T] {
	setts = Defaultsettings().Mixin(setts)
	return New[T](setts.Int("blocksize"))
}

// Init the region, releasing any slabs it holds.
func (r *Region[T]) Init(blocksize int) {
	if blocksize <= 0 {
		blocksize = Defaultblocksize
	}
	var zero T
	unitsize := int(unsafe.Sizeof(zero))
	align := 1
	if unitsize > 0 && unitsize%ptrsize != 0 {
		align = ptrsize / gcd(unitsize, ptrsize)
	}
	*r = Region[T]{
		unitsize:   max(unitsize, 1),
		align:      align,
		blockunits: max(blocksize/max(unitsize, 1), 1),
	}
}

// Alloc return `n` contiguous values, zeroed, valid until the next Reset
// or Destroy. Return nil for n <= 0 or when memory is not available.
// Offsets of returned runs are aligned to pointer size.
func (r *Region[T]) Alloc(n int) []T {
	if n <= 0 {
		return nil
	} else if r.blockunits == 0 {
		r.Init(0)
	}
	if n > (math.MaxInt-r.align)/r.unitsize {
		warnf("region: alloc of %v units of %v bytes overflows\n", n, r.unitsize)
		return nil
	}
	units := roundup(n, r.align)
	for ; r.cursor < len(r.slabs); r.cursor++ {
		if s := r.slabs[r.cursor]; len(s.data)-s.used >= units {
			return r.take(s, n, units)
		}
	}
	s := r.makeslab(max(r.blockunits, units))
	if s == nil {
		if len(r.slabs) > 0 {
			r.cursor = len(r.slabs) - 1
		}
		return nil
	}
	r.slabs = append(r.slabs, s)
	r.cursor = len(r.slabs) - 1
	debugf("region: slab %v of %v\n", len(r.slabs), humanize.IBytes(uint64(len(s.data)*r.unitsize)))
	return r.take(s, n, units)
}

// makeslab return nil when `units` values exceed physical memory or
// cannot be allocated.
func (r *Region[T]) makeslab(units int) (s *slab[T]) {
	size := uint64(units) * uint64(r.unitsize)
	if limit := malloc.Getsysstats().Limit; limit > 0 && size > limit {
		warnf("region: slab of %v exceeds physical memory %v\n",
			humanize.IBytes(size), humanize.IBytes(limit))
		return nil
	}
	defer func() {
		if x := recover(); x != nil {
			warnf("region: slab of %v: %v\n", humanize.IBytes(size), x)
			s = nil
		}
	}()
	return &slab[T]{data: make([]T, units)}
}

func (r *Region[T]) take(s *slab[T], n, units int) []T {
	off := s.used
	s.used += units
	r.allocated += int64(units * r.unitsize)
	r.peak = max(r.peak, r.allocated)
	r.avgsize.Add(int64(n * r.unitsize))
	return s.data[off : off+n : off+n]
}

// Allocone return a pointer to a single zeroed value, nil when memory
// is not available.
func (r *Region[T]) Allocone() *T {
	if s := r.Alloc(1); s != nil {
		return &s[0]
	}
	return nil
}

// Reset implement api.Resetter interface. Every slab is kept for reuse,
// starting again from the first slab. Values handed out earlier must
// not be used after Reset.
func (r *Region[T]) Reset() {
	for _, s := range r.slabs {
		clear(s.data[:s.used])
		s.used = 0
	}
	r.cursor, r.allocated = 0, 0
}

// Destroy implement api.Resetter interface. The region can be used
// again after Destroy, it starts with no slabs and fresh counters.
func (r *Region[T]) Destroy() {
	r.slabs, r.cursor, r.allocated, r.peak = nil, 0, 0, 0
	r.avgsize.Reset()
}

// Stats return region counters.
func (r *Region[T]) Stats() Regionstats {
	stats := Regionstats{
		Allocated: r.allocated,
		Blocks:    int64(len(r.slabs)),
		Peak:      r.peak,
		Minsize:   r.avgsize.Min(),
		Maxsize:   r.avgsize.Max(),
		Meansize:  r.avgsize.Mean(),
		SDsize:    r.avgsize.SD(),
	}
	for _, s := range r.slabs {
		stats.Blockbytes += int64(len(s.data) * r.unitsize)
	}
	return stats
}

// Regionstats counters of a region, in bytes.
type Regionstats struct {
	Allocated  int64 // since last reset, including alignment padding
	Blockbytes int64 // capacity of all slabs
	Blocks     int64
	Peak       int64 // highest Allocated
	Minsize    int64 // request sizes
	Maxsize    int64
	Meansize   int64
	SDsize     float64
}

func (st Regionstats) String() string {
	return fmt.Sprintf("allocated:%v slabs:%v(%v) peak:%v request:%v..%v mean:%v sd:%.1f",
		humanize.IBytes(uint64(st.Allocated)), st.Blocks,
		humanize.IBytes(uint64(st.Blockbytes)),
		humanize.IBytes(uint64(st.Peak)), humanize.IBytes(uint64(st.Minsize)),
		humanize.IBytes(uint64(st.Maxsize)), humanize.IBytes(uint64(st.Meansize)),
		st.SDsize)
}

// Arena is a region of bytes.
type Arena = Region[byte]

var _ api.Resetter = (*Arena)(nil)

// NewArena return a byte arena with `blocksize` slabs.
func NewArena(blocksize int) *Arena {
	return New[byte](blocksize)
}

// Defaultsettings for regions.
//
// "blocksize" (int64, default: 32768)
//		Bytes in each slab, larger requests get a slab of their own size.
func Defaultsettings() lib.Settings {
	return lib.Settings{"blocksize": int64(Defaultblocksize)}
}

func roundup(n, align int) int {
	return ((n + align - 1) / align) * align
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
