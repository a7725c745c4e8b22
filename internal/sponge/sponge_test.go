package sponge

import (
	"testing"

	"lukechampine.com/frand"
)

func TestFieldOps(t *testing.T) {
	for i := 0; i < 1000; i++ {
		a := frand.Uint64n(Prime)
		b := frand.Uint64n(Prime)
		if Add(a, Sub(b, a)) != b {
			t.Fatalf("add/sub mismatch for %v %v", a, b)
		}
		if MontReduce(Montify(a)) != a {
			t.Fatalf("montgomery roundtrip mismatch for %v", a)
		}
	}
	// 2^64 ≡ 2^32 - 1
	if got := Mul(1<<32, 1<<32); got != 0xffffffff {
		t.Fatalf("2^64 mod p = %x", got)
	}
	if Mul(Prime-1, Prime-1) != 1 {
		t.Fatal("(-1)^2 != 1")
	}
}

func TestHashVarlen(t *testing.T) {
	in := make([]uint64, 17)
	for i := range in {
		in[i] = uint64(i)
	}
	d1 := HashVarlen(in)
	d2 := HashVarlen(in)
	if d1 != d2 {
		t.Fatal("hash not deterministic")
	}
	for _, v := range d1 {
		if v >= Prime {
			t.Fatalf("digest element %x not in field", v)
		}
	}
	// padding must distinguish lengths that differ only by trailing zeros
	if HashVarlen([]uint64{1, 0}) == HashVarlen([]uint64{1}) {
		t.Fatal("padding does not separate trailing zeros")
	}
	if HashVarlen(nil) == HashVarlen([]uint64{0}) {
		t.Fatal("padding does not separate empty input")
	}
}

func TestHashFixedAlignment(t *testing.T) {
	in := make([]uint64, Rate)
	for i := range in {
		in[i] = frand.Uint64n(Prime)
	}
	d1 := HashFixed(in)
	d2 := HashFixed(in)
	if d1 != d2 {
		t.Fatal("hash not deterministic")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unaligned unpadded input")
		}
	}()
	HashFixed(in[:Rate-1])
}
