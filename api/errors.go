package api

import "errors"

// ErrorOutofMemory system allocator could not supply the memory.
var ErrorOutofMemory = errors.New("malloc.outofmemory")

// ErrorPoolExhausted bounded pool cannot grow beyond its maximum blocks.
var ErrorPoolExhausted = errors.New("malloc.poolexhausted")

// ErrorForeignBlock block was not allocated by the pool it is returned to.
var ErrorForeignBlock = errors.New("malloc.foreignblock")

// ErrorDoubleFree block is already on the pool's free-list.
var ErrorDoubleFree = errors.New("malloc.doublefree")

// ErrorPoolReleased pool is already destroyed.
var ErrorPoolReleased = errors.New("malloc.poolreleased")

// ErrorInvalidArgument size, count or configuration is out of range.
var ErrorInvalidArgument = errors.New("malloc.invalidargument")

// ErrorParse malformed JSON input.
var ErrorParse = errors.New("jsonv.parse")
