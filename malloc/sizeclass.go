package malloc

// Class of a request size.
type Class int

const (
	// Invalid class for zero or negative sizes.
	Invalid Class = iota - 1
	// Small requests up to 256 bytes.
	Small
	// Medium requests up to 1KB.
	Medium
	// Large requests up to 4KB.
	Large
	// Oversize requests go to the system allocator.
	Oversize
)

// Pooledclasses is the number of classes backed by a pool.
const Pooledclasses = 3

var classblocksizes = [Pooledclasses]int64{Smallsize, Mediumsize, Largesize}

// Classify size into a class.
func Classify(size int) Class {
	switch {
	case size <= 0:
		return Invalid
	case int64(size) <= Smallsize:
		return Small
	case int64(size) <= Mediumsize:
		return Medium
	case int64(size) <= Largesize:
		return Large
	}
	return Oversize
}

// Pooled return true for Small, Medium and Large.
func (c Class) Pooled() bool {
	return c >= Small && c <= Large
}

// Blocksize return the payload size of blocks in this class, zero for
// classes that are not pooled.
func (c Class) Blocksize() int64 {
	if c.Pooled() {
		return classblocksizes[c]
	}
	return 0
}

func (c Class) String() string {
	switch c {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	case Oversize:
		return "oversize"
	}
	return "invalid"
}

// classof return the pooled class whose payload is exactly `blocksize`,
// Invalid otherwise.
func classof(blocksize int64) Class {
	for c, size := range classblocksizes {
		if size == blocksize {
			return Class(c)
		}
	}
	return Invalid
}

func roundup(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}
