// Package malloc supplies pooled memory management for small objects,
// with a limited scope:
//
//   - Requests are classified into small (256 bytes), medium (1KB) and
//     large (4KB) classes, each backed by an ObjectPool. Bigger requests
//     go to the system allocator, which is the Go heap.
//   - Every block carries a hidden header in front of it, inside the
//     same Go allocation, recording whether the block belongs to a pool
//     or to the system allocator. Callers need not remember how a block
//     was obtained, PoolFree and SafeFree read the header.
//   - Blocks must be returned exactly as handed out. Every block start
//     is registered, slices that were not obtained from this package
//     are rejected as foreign without reading memory in front of them.
//   - A block held by a ThreadCache is marked cached, freeing it again
//     is rejected as a double free.
//   - ObjectPool and PoolSystem are safe for concurrent use. ThreadCache
//     is owned by a single goroutine and holds no locks.
//   - Blocks are zero filled on allocation, with "debug" build tag they
//     are filled with 0xff on allocation and on free instead.
//
// Diagnostics are logged only after LogComponents is called.
package malloc
