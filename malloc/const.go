package malloc

// Alignment of every block handed out by this package.
const Alignment = int64(8)

// Hdrsize bytes of hidden header in front of every block.
const Hdrsize = int64(32)

// Poolmagic identify headers of blocks owned by an object pool.
const Poolmagic = uint32(0xABCD1234)

// Sysmagic identify headers of blocks from the system allocator.
const Sysmagic = uint32(0x5E5A110C)

// Hardmaxcache upper limit on cached blocks per size class in a
// ThreadCache.
const Hardmaxcache = 64

// Payload size of each size class.
const (
	Smallsize  = int64(256)
	Mediumsize = int64(1024)
	Largesize  = int64(4096)
)

// Default number of blocks preallocated for each class when the pool
// system is lazily initialized.
const (
	Defaultsmall  = int64(64)
	Defaultmedium = int64(32)
	Defaultlarge  = int64(16)
)

const (
	blockfree   = uint32(1)
	blockinuse  = uint32(2)
	blockcached = uint32(3) // held by a ThreadCache
)
