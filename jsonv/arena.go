package jsonv

import "fmt"

import "github.com/bnclabs/mcpalloc/api"
import "github.com/bnclabs/mcpalloc/lib"
import "github.com/bnclabs/mcpalloc/region"

// Arena hold JSON nodes and object entries in regions, so that a parsed
// document is released in bulk by Reset or Destroy. Arena is not safe
// for concurrent use.
type Arena struct {
	values  *region.Region[Value]
	entries *region.Region[entry]
}

// NewArena return an arena whose regions use `blocksize` byte slabs,
// zero or negative selects region.Defaultblocksize.
func NewArena(blocksize int) *Arena {
	return &Arena{
		values:  region.New[Value](blocksize),
		entries: region.New[entry](blocksize),
	}
}

var _ api.Resetter = (*Arena)(nil)

// Fromsettings return an arena configured by "arena." parameters, refer
// to Defaultsettings.
func Fromsettings(setts lib.Settings) *Arena {
	setts = Defaultsettings().Mixin(setts)
	rsetts := setts.Section("arena.").Trim("arena.")
	return &Arena{
		values:  region.Fromsettings[Value](rsetts),
		entries: region.Fromsettings[entry](rsetts),
	}
}

// Reset implement api.Resetter interface. Every node allocated from
// this arena becomes invalid.
func (a *Arena) Reset() {
	a.values.Reset()
	a.entries.Reset()
}

// Destroy implement api.Resetter interface.
func (a *Arena) Destroy() {
	a.values.Destroy()
	a.entries.Destroy()
}

// Stats return counters for nodes and entries.
func (a *Arena) Stats() Arenastats {
	return Arenastats{Values: a.values.Stats(), Entries: a.entries.Stats()}
}

// Arenastats counters of node and entry regions.
type Arenastats struct {
	Values  region.Regionstats
	Entries region.Regionstats
}

func (st Arenastats) String() string {
	return fmt.Sprintf("values{%v} entries{%v}", st.Values, st.Entries)
}
