package jsonv

import "math"
import "strconv"

const hexdigits = "0123456789abcdef"

// Stringify return compact JSON text for `v`, nil is "null". Object
// properties are written in table order. Numbers are written with 17
// significant digits, non finite numbers as null.
func Stringify(v *Value) string {
	w := writer{buf: make([]byte, 0, 256)}
	w.value(v)
	return string(w.buf)
}

type writer struct {
	buf []byte
}

// grow by doubling, at least by `n` bytes.
func (w *writer) grow(n int) {
	if len(w.buf)+n <= cap(w.buf) {
		return
	}
	size := max(2*cap(w.buf), 256)
	for size < len(w.buf)+n {
		size *= 2
	}
	buf := make([]byte, len(w.buf), size)
	copy(buf, w.buf)
	w.buf = buf
}

func (w *writer) write(s string) {
	w.grow(len(s))
	w.buf = append(w.buf, s...)
}

func (w *writer) writebyte(ch byte) {
	w.grow(1)
	w.buf = append(w.buf, ch)
}

func (w *writer) value(v *Value) {
	switch v.Type() {
	case Null:
		w.write("null")
	case Boolean:
		if v.b {
			w.write("true")
		} else {
			w.write("false")
		}
	case Number:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			w.write("null")
			return
		}
		w.grow(32)
		w.buf = strconv.AppendFloat(w.buf, v.n, 'g', 17, 64)
	case String:
		w.quote(v.s)
	case Array:
		w.writebyte('[')
		for i, item := range v.items {
			if i > 0 {
				w.writebyte(',')
			}
			w.value(item)
		}
		w.writebyte(']')
	case Object:
		w.writebyte('{')
		first := true
		v.table.foreach(func(key string, val *Value) {
			if !first {
				w.writebyte(',')
			}
			first = false
			w.quote(key)
			w.writebyte(':')
			w.value(val)
		})
		w.writebyte('}')
	}
}

func (w *writer) quote(s string) {
	w.grow(len(s) + 2)
	w.buf = append(w.buf, '"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			w.write(`\"`)
		case '\\':
			w.write(`\\`)
		case '\b':
			w.write(`\b`)
		case '\f':
			w.write(`\f`)
		case '\n':
			w.write(`\n`)
		case '\r':
			w.write(`\r`)
		case '\t':
			w.write(`\t`)
		default:
			if ch < 0x20 {
				w.write(`\u00`)
				w.writebyte(hexdigits[ch>>4])
				w.writebyte(hexdigits[ch&0xf])
				continue
			}
			w.writebyte(ch)
		}
	}
	w.writebyte('"')
}
