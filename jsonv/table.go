package jsonv

import "strings"

const initbuckets = 16

type entry struct {
	key   string
	value *Value
	next  *entry
}

// table is a hash table with separate chaining, buckets are a power of
// two and double when load exceeds 3/4.
type table struct {
	buckets []*entry
	count   int
}

func newtable() *table {
	return &table{buckets: make([]*entry, initbuckets)}
}

func djb2(key string) uint32 {
	hash := uint32(5381)
	for i := 0; i < len(key); i++ {
		hash = hash*33 + uint32(key[i])
	}
	return hash
}

func (t *table) bucket(key string) int {
	return int(djb2(key) & uint32(len(t.buckets)-1))
}

func (t *table) lookup(key string) *entry {
	if t == nil {
		return nil
	}
	for e := t.buckets[t.bucket(key)]; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

// insert a new entry, caller has checked the key is missing. Entries
// come from arena `a` when not nil.
func (t *table) insert(a *Arena, key string, val *Value) {
	if float64(t.count+1)/float64(len(t.buckets)) > 0.75 {
		t.resize(len(t.buckets) * 2)
	}
	var e *entry
	if a != nil {
		e = a.entries.Allocone()
	}
	if e == nil { // heap node or arena out of memory
		e = &entry{}
	}
	n := t.bucket(key)
	e.key, e.value, e.next = strings.Clone(key), val, t.buckets[n]
	t.buckets[n] = e
	t.count++
}

func (t *table) remove(key string) *entry {
	if t == nil {
		return nil
	}
	for link := &t.buckets[t.bucket(key)]; *link != nil; link = &(*link).next {
		if e := *link; e.key == key {
			*link, e.next = e.next, nil
			t.count--
			return e
		}
	}
	return nil
}

func (t *table) resize(size int) {
	buckets := make([]*entry, size)
	mask := uint32(size - 1)
	for _, e := range t.buckets {
		for e != nil {
			next := e.next
			n := djb2(e.key) & mask
			e.next, buckets[n] = buckets[n], e
			e = next
		}
	}
	t.buckets = buckets
}

func (t *table) size() int {
	if t == nil {
		return 0
	}
	return t.count
}

// foreach property in bucket order.
func (t *table) foreach(fn func(key string, val *Value)) {
	if t == nil {
		return
	}
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			fn(e.key, e.value)
		}
	}
}
