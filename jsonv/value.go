package jsonv

import "strings"

// Type of a JSON value.
type Type int

const (
	Null Type = iota
	Boolean
	Number
	String
	Array
	Object
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is a JSON node. A Value is either allocated from an Arena or
// from the Go heap, string bodies, array items and object buckets are
// always on the Go heap.
type Value struct {
	typ   Type
	b     bool
	n     float64
	s     string
	items []*Value
	table *table
	owner *Arena // nil for heap nodes
}

// newvalue return nil when arena is out of memory.
func newvalue(a *Arena, typ Type) *Value {
	var v *Value
	if a != nil {
		if v = a.values.Allocone(); v == nil {
			return nil
		}
	} else {
		v = &Value{}
	}
	v.typ, v.owner = typ, a
	return v
}

// NewNull return a null value, nil arena allocates from Go heap.
// Constructors return nil when the arena cannot supply memory.
func NewNull(a *Arena) *Value {
	return newvalue(a, Null)
}

// NewBool return a boolean value.
func NewBool(a *Arena, b bool) *Value {
	v := newvalue(a, Boolean)
	if v != nil {
		v.b = b
	}
	return v
}

// NewNumber return a number value.
func NewNumber(a *Arena, n float64) *Value {
	v := newvalue(a, Number)
	if v != nil {
		v.n = n
	}
	return v
}

// NewString return a string value holding a copy of `s`.
func NewString(a *Arena, s string) *Value {
	v := newvalue(a, String)
	if v != nil {
		v.s = strings.Clone(s)
	}
	return v
}

// NewArray return an empty array.
func NewArray(a *Arena) *Value {
	return newvalue(a, Array)
}

// NewObject return an empty object.
func NewObject(a *Arena) *Value {
	v := newvalue(a, Object)
	if v != nil {
		v.table = newtable()
	}
	return v
}

// Type of value, nil is Null.
func (v *Value) Type() Type {
	if v == nil {
		return Null
	}
	return v.typ
}

// Owner return the arena holding this node, nil for heap nodes.
func (v *Value) Owner() *Arena {
	if v == nil {
		return nil
	}
	return v.owner
}

// Bool return the boolean, false if value is not a boolean.
func (v *Value) Bool() (bool, bool) {
	if v.Type() != Boolean {
		return false, false
	}
	return v.b, true
}

// Number return the number, false if value is not a number.
func (v *Value) Number() (float64, bool) {
	if v.Type() != Number {
		return 0, false
	}
	return v.n, true
}

// Text return the string body, false if value is not a string.
func (v *Value) Text() (string, bool) {
	if v.Type() != String {
		return "", false
	}
	return v.s, true
}

// String implement fmt.Stringer, same as Stringify.
func (v *Value) String() string {
	return Stringify(v)
}

// Len return number of items in array or properties in object, zero
// for other types.
func (v *Value) Len() int {
	switch v.Type() {
	case Array:
		return len(v.items)
	case Object:
		return v.table.size()
	}
	return 0
}

// Push `item` at the end of array. Return false if value is not an
// array or item is nil.
func (v *Value) Push(item *Value) bool {
	if v.Type() != Array || item == nil {
		return false
	}
	if len(v.items) == cap(v.items) {
		items := make([]*Value, len(v.items), max(2*cap(v.items), 8))
		copy(items, v.items)
		v.items = items
	}
	v.items = append(v.items, item)
	return true
}

// Index return the i-th array item, nil if value is not an array or
// index is out of range.
func (v *Value) Index(i int) *Value {
	if v.Type() != Array || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Put property `key`, replacing and destroying the old value. Return
// false if value is not an object or val is nil.
func (v *Value) Put(key string, val *Value) bool {
	if v.Type() != Object || val == nil {
		return false
	}
	if e := v.table.lookup(key); e != nil {
		if e.value != val {
			Destroy(e.value)
			e.value = val
		}
		return true
	}
	if v.table == nil {
		v.table = newtable()
	}
	v.table.insert(v.owner, key, val)
	return true
}

// Get property `key`, nil if missing or value is not an object.
func (v *Value) Get(key string) *Value {
	if v.Type() != Object {
		return nil
	}
	if e := v.table.lookup(key); e != nil {
		return e.value
	}
	return nil
}

// Has return whether object has property `key`.
func (v *Value) Has(key string) bool {
	return v.Type() == Object && v.table.lookup(key) != nil
}

// Delete property `key` and destroy its value. Return false if missing
// or value is not an object.
func (v *Value) Delete(key string) bool {
	if v.Type() != Object {
		return false
	}
	e := v.table.remove(key)
	if e == nil {
		return false
	}
	Destroy(e.value)
	return true
}

// Names of object properties, in unspecified order.
func (v *Value) Names() []string {
	if v.Type() != Object {
		return nil
	}
	names := make([]string, 0, v.table.size())
	v.table.foreach(func(key string, _ *Value) {
		names = append(names, strings.Clone(key))
	})
	return names
}

// Destroy release memory held by `v` and its descendants. Nodes from an
// arena keep their storage until the arena is reset, heap nodes are
// cleared to Null. `v` must not be used after Destroy.
func Destroy(v *Value) {
	if v == nil {
		return
	}
	switch v.typ {
	case Array:
		for i, item := range v.items {
			Destroy(item)
			v.items[i] = nil
		}
	case Object:
		v.table.foreach(func(_ string, val *Value) { Destroy(val) })
	}
	v.s, v.items, v.table = "", nil, nil
	if v.owner == nil {
		*v = Value{}
	}
}
