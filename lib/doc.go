// Package lib provide small helpers shared by the allocator packages:
// settings, running statistics and histograms. Nothing in here knows
// about pools, caches or regions, and the package shall not depend on
// anything other than the standard library.
package lib
