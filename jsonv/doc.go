// Package jsonv is a JSON value model built for mixed allocation: nodes
// of a parsed document live in an Arena and are released together,
// while programmatically built nodes live on the Go heap. String bodies,
// array items and object buckets are always on the Go heap.
//
// Objects are hash tables with separate chaining over djb2 hashed keys,
// their iteration order is unspecified. By default the parser keeps
// escape sequences of strings as they appear in the input, and the
// stringifier always escapes, so parse followed by stringify is not an
// identity for escaped strings. Configure the parser with "unescape"
// to decode escapes.
package jsonv
