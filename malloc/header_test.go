package malloc

import "testing"
import "unsafe"

func TestHeaderof(t *testing.T) {
	if hdr := headerof(nil); hdr != nil {
		t.Errorf("expected nil, got %v", hdr)
	}

	mem := make([]byte, Hdrsize+64)
	b := stamp(mem, Poolmagic, 7, blockinuse)
	if headerof(b) != nil {
		t.Errorf("untracked block should not resolve")
	}
	trackblock(mem)
	defer untrackblock(addressof(b))
	if len(b) != 64 || cap(b) != 64 {
		t.Fatalf("unexpected len %v cap %v", len(b), cap(b))
	}
	hdr := headerof(b)
	if hdr == nil {
		t.Fatalf("expected header")
	} else if hdr.owner != 7 || hdr.size != 64 {
		t.Errorf("unexpected %+v", *hdr)
	} else if x := hdr.block(); unsafe.SliceData(x) != unsafe.SliceData(b) || len(x) != 64 {
		t.Errorf("block does not match payload")
	}
	if headerof(b[:10]) != hdr {
		t.Errorf("shortened block should resolve")
	}

	// a header copied to another address does not validate.
	other := make([]byte, Hdrsize+64)
	copy(other, mem[:Hdrsize])
	trackblock(other)
	defer untrackblock(addressof(other[Hdrsize:]))
	if headerof(other[Hdrsize:]) != nil {
		t.Errorf("copied header should not validate")
	}

	if !hdr.swapstate(blockinuse, blockfree) {
		t.Errorf("expected state swap")
	} else if hdr.swapstate(blockinuse, blockfree) {
		t.Errorf("unexpected state swap")
	}
	hdr.invalidate()
	if headerof(b) != nil {
		t.Errorf("invalidated header should not resolve")
	}
}

func TestKnown(t *testing.T) {
	pool, err := NewObjectPool(64, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	blocks := make([][]byte, 0, 6)
	for i := 0; i < 6; i++ { // 4 from slab, 2 grown
		b, err := pool.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		blocks = append(blocks, b)
	}
	for i, b := range blocks {
		if !known(b) {
			t.Errorf("block %v expected known", i)
		} else if known(b[1:]) || known(b[8:]) {
			t.Errorf("interior of block %v should not be known", i)
		}
	}
	if known(pool.slab) {
		t.Errorf("slab start is a header, not a payload")
	}
	if known(make([]byte, 100)) || known(nil) {
		t.Errorf("foreign memory should not be known")
	}

	pool.Destroy()
	for i, b := range blocks {
		if known(b) {
			t.Errorf("block %v of destroyed pool should not be known", i)
		}
	}
}
