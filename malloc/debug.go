//go:build debug

package malloc

// strictfree panic on frees that cannot be routed to their allocator.
const strictfree = true

var poolblkinit = make([]byte, 1024)

func init() {
	for i := range poolblkinit {
		poolblkinit[i] = 0xff
	}
}

// initblock fill a fresh block with 0xff, so that reads of
// uninitialized memory stand out.
func initblock(b []byte) {
	b = b[:cap(b)]
	for len(b) > 0 {
		b = b[copy(b, poolblkinit):]
	}
}

// poisonblock fill a freed block with 0xff.
func poisonblock(b []byte) {
	initblock(b)
}
