// Package region implement bump allocators that hand out memory from
// large slabs and reclaim it all at once. Region[T] allocates runs of
// values of type T, so types carrying Go pointers stay visible to the
// garbage collector. Arena is the byte region.
//
// Typical use is to parse or build a short lived structure into a
// region, then Reset the region to reuse its slabs for the next one.
package region
