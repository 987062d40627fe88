package api

// Allocator hand out byte blocks and take them back. Returned blocks
// have len equal to the requested size, Free accepts exactly the slice
// returned by Alloc, nil blocks are ignored.
type Allocator interface {
	// Alloc a block of `size` bytes, return nil on failure.
	Alloc(size int) []byte

	// Free a block obtained from Alloc.
	Free(block []byte)
}

// Pooler manage fixed size blocks of a single size class.
type Pooler interface {
	// Blocksize return payload size of every block in this pool.
	Blocksize() int64

	// Alloc a block from pool.
	Alloc() ([]byte, error)

	// Free block back to pool.
	Free(block []byte) error

	// Destroy pool and all its blocks.
	Destroy()
}

// Resetter is implemented by region allocators whose memory is
// reclaimed in bulk.
type Resetter interface {
	// Reset forget all allocations, keeping capacity.
	Reset()

	// Destroy release all capacity.
	Destroy()
}
