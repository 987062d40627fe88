package jsonv

import "github.com/bnclabs/mcpalloc/lib"
import "github.com/bnclabs/mcpalloc/region"

// Maxdepth default nesting limit for parser.
const Maxdepth = 100

// Defaultsettings for parser and arena.
//
// "maxdepth" (int64, default: 100)
//		Nesting limit of arrays and objects.
//
// "unescape" (bool, default: false)
//		Decode escape sequences in strings, by default string bodies
//		keep escape sequences as they appear in the input.
//
// "arena.blocksize" (int64, default: 32768)
//		Slab size in bytes for Fromsettings arenas.
func Defaultsettings() lib.Settings {
	return lib.Settings{
		"maxdepth":        int64(Maxdepth),
		"unescape":        false,
		"arena.blocksize": int64(region.Defaultblocksize),
	}
}
