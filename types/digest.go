package types

import (
	"fmt"
	"math/bits"

	"github.com/btcsuite/btcd/btcutil/base58"
	"go.ztx.dev/core/internal/sponge"
)

// DigestSize is the size of a binary-encoded Digest in bytes.
const DigestSize = 40

// A Digest is the output of the sponge hash: five elements of the Goldilocks
// field, least significant limb first. Its integer value is
// d[0] + d[1]*p + d[2]*p^2 + d[3]*p^3 + d[4]*p^4,
// where p is the field prime.
type Digest [5]uint64

// Bytes returns the big-endian binary encoding of d.
func (d Digest) Bytes() (buf [DigestSize]byte) {
	var acc [5]uint64
	for i := 4; i >= 0; i-- {
		carry := d[i]
		for j := range acc {
			hi, lo := bits.Mul64(acc[j], sponge.Prime)
			lo, c := bits.Add64(lo, carry, 0)
			acc[j] = lo
			carry = hi + c
		}
	}
	for i := range acc {
		v := acc[4-i]
		for j := 7; j >= 0; j-- {
			buf[i*8+j] = byte(v)
			v >>= 8
		}
	}
	return
}

// DigestFromBytes parses the big-endian binary encoding of a Digest. It
// returns an error if the encoded integer is not expressible as five field
// elements.
func DigestFromBytes(buf [DigestSize]byte) (Digest, error) {
	var acc [5]uint64
	for i := range acc {
		var v uint64
		for j := 0; j < 8; j++ {
			v = v<<8 | uint64(buf[i*8+j])
		}
		acc[4-i] = v
	}
	var d Digest
	for i := range d {
		rem := uint64(0)
		for j := 4; j >= 0; j-- {
			acc[j], rem = bits.Div64(rem, acc[j], sponge.Prime)
		}
		d[i] = rem
	}
	for _, v := range acc {
		if v != 0 {
			return Digest{}, fmt.Errorf("digest value overflows five field elements")
		}
	}
	return d, nil
}

// Cmp compares two digests limb by limb, first limb foremost. This is the
// order used when sorting names; it is distinct from the big-endian byte
// order that decides treap placement.
func (d Digest) Cmp(e Digest) int {
	for i := range d {
		if d[i] < e[i] {
			return -1
		} else if d[i] > e[i] {
			return 1
		}
	}
	return 0
}

// Hash implements Hashable. A digest hashes to itself.
func (d Digest) Hash() Digest { return d }

// Noun implements NounEncoder. A digest is a chain of its five limbs.
func (d Digest) Noun() Noun {
	return Cell(Atom(d[0]), Cell(Atom(d[1]), Cell(Atom(d[2]), Cell(Atom(d[3]), Atom(d[4])))))
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	buf := d.Bytes()
	return base58.Encode(buf[:])
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(b []byte) error {
	v, err := ParseDigest(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDigest parses the base58 form of a Digest.
func ParseDigest(s string) (Digest, error) {
	raw := base58.Decode(s)
	if len(raw) == 0 && len(s) > 0 {
		return Digest{}, fmt.Errorf("invalid base58 digest %q", s)
	} else if len(raw) > DigestSize {
		return Digest{}, fmt.Errorf("digest too large: %d bytes", len(raw))
	}
	var buf [DigestSize]byte
	copy(buf[DigestSize-len(raw):], raw)
	return DigestFromBytes(buf)
}

func mustParseDigest(s string) Digest {
	d, err := ParseDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}
