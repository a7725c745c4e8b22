package types

import "go.ztx.dev/core/internal/sponge"

// A Hashable can compute its canonical content digest.
type Hashable interface {
	Hash() Digest
}

// A NounEncoder can render itself as a noun, the canonical tree form that
// decides hashing and treap placement.
type NounEncoder interface {
	Noun() Noun
}

func hashVarlen(belts []uint64) Digest { return sponge.HashVarlen(belts) }

// HashUint64 computes the digest of a single unsigned integer. It is the
// digest of the atom noun holding that integer.
func HashUint64(v uint64) Digest {
	return hashVarlen([]uint64{1, v})
}

// hashPair combines two digests with the fixed-width sponge.
func hashPair(a, b Digest) Digest {
	return sponge.HashFixed([]uint64{
		a[0], a[1], a[2], a[3], a[4],
		b[0], b[1], b[2], b[3], b[4],
	})
}

// hashTuple right-nests its arguments: (a, b, c) hashes as (a, (b, c)).
func hashTuple(ds ...Digest) Digest {
	if len(ds) == 0 {
		panic("hashTuple: empty tuple")
	}
	d := ds[len(ds)-1]
	for i := len(ds) - 2; i >= 0; i-- {
		d = hashPair(ds[i], d)
	}
	return d
}

func hashBool(b bool) Digest {
	if b {
		return HashUint64(0)
	}
	return HashUint64(1)
}

// hashOption hashes an optional value: absent values hash as the zero atom,
// present values as the pair (0, v).
func hashOption(d *Digest) Digest {
	if d == nil {
		return HashUint64(0)
	}
	return hashPair(HashUint64(0), *d)
}

// hashList hashes a sequence as a right-nested chain of pairs terminated by
// the zero atom. An empty sequence hashes as the zero atom alone.
func hashList(ds []Digest) Digest {
	d := HashUint64(0)
	for i := len(ds) - 1; i >= 0; i-- {
		d = hashPair(ds[i], d)
	}
	return d
}
