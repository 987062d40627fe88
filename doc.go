// Package mcpalloc implement memory management building blocks for
// request handling servers: fixed size object pools, a size class pool
// system, per goroutine thread caches, bump regions and an arena backed
// JSON value model.
//
// api:
//
// Interfaces and error values shared by the other packages.
//
// lib:
//
// Settings, running averages and histograms. Package shall not import
// packages other than golang's standard packages.
//
// log:
//
// Leveled logger used by all packages, applications can integrate their
// own logger via SetLogger.
//
// malloc:
//
// System allocator wrapper, object pools, pool system with small, medium
// and large classes, thread caches and the safe-free facade.
//
// region:
//
// Bump allocated regions of typed values, reclaimed in bulk.
//
// jsonv:
//
// JSON values allocated from an arena, parser and stringifier.
//
// tools/pools:
//
// Command line tool to inspect size classes, benchmark thread caches and
// parse JSON documents into arenas.
package mcpalloc
