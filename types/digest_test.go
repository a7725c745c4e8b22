package types

import (
	"testing"
)

func TestDigestBytesRoundtrip(t *testing.T) {
	for i := uint64(0); i < 64; i++ {
		d := HashUint64(i)
		e, err := DigestFromBytes(d.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if d != e {
			t.Fatalf("roundtrip mismatch: %v != %v", d, e)
		}
	}
}

func TestDigestFromBytesOverflow(t *testing.T) {
	var buf [DigestSize]byte
	for i := range buf {
		buf[i] = 0xff
	}
	if _, err := DigestFromBytes(buf); err == nil {
		t.Fatal("expected error for value outside the field")
	}
}

func TestDigestStringRoundtrip(t *testing.T) {
	d := HashUint64(12345)
	var e Digest
	if err := e.UnmarshalText([]byte(d.String())); err != nil {
		t.Fatal(err)
	}
	if d != e {
		t.Fatalf("roundtrip mismatch: %v != %v", d, e)
	}
	if _, err := ParseDigest("not*base58"); err == nil {
		t.Fatal("expected error for invalid base58")
	}
}

func TestDigestCmp(t *testing.T) {
	a := Digest{1, 0, 0, 0, 0}
	b := Digest{2, 0, 0, 0, 0}
	c := Digest{1, 1, 0, 0, 0}
	if a.Cmp(b) >= 0 || b.Cmp(a) <= 0 || a.Cmp(a) != 0 {
		t.Fatal("bad limb comparison")
	}
	if a.Cmp(c) >= 0 {
		t.Fatal("higher limbs should dominate")
	}
}

func TestHashConventions(t *testing.T) {
	if HashUint64(0) == HashUint64(1) {
		t.Fatal("distinct atoms should hash differently")
	}
	d := HashUint64(42)
	if d.Hash() != d {
		t.Fatal("a digest should hash to itself")
	}
	if hashBool(true) != HashUint64(0) || hashBool(false) != HashUint64(1) {
		t.Fatal("loobean hash convention violated")
	}
	if hashOption(nil) != HashUint64(0) {
		t.Fatal("an absent option should hash as the zero atom")
	}
	some := hashOption(&d)
	if some != hashPair(HashUint64(0), d) {
		t.Fatal("a present option should hash as (0, value)")
	}
}
