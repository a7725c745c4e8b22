// Package sponge implements the permutation-based sponge used for all
// canonical hashing. The sponge framing (state width, rate, Montgomery
// domain, padding, and digest extraction) is fixed; the inner permutation is
// pluggable so that an interpreter-supplied permutation can be dropped in.
package sponge

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

const (
	// Prime is the field modulus, 2^64 - 2^32 + 1.
	Prime = 0xffffffff00000001

	// StateSize and Rate are the sponge dimensions, in field elements.
	StateSize = 16
	Rate      = 10

	// DigestSize is the number of field elements extracted as a digest.
	DigestSize = 5

	// r = 2^64 mod Prime, the Montgomery radix residue, and its inverse.
	r    = 0xffffffff
	rInv = 0xfffffffe00000001
)

// Add returns a + b mod Prime.
func Add(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= Prime {
		s -= Prime
	}
	return s
}

// Sub returns a - b mod Prime.
func Sub(a, b uint64) uint64 {
	d, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		d += Prime
	}
	return d
}

// reduce folds a 128-bit product into the field. 2^64 ≡ 2^32 - 1 and
// 2^96 ≡ -1 mod Prime, so the high word reduces with two corrections.
func reduce(hi, lo uint64) uint64 {
	hiHi := hi >> 32
	hiLo := hi & 0xffffffff
	t, borrow := bits.Sub64(lo, hiHi, 0)
	if borrow != 0 {
		t -= 0xffffffff
	}
	s, carry := bits.Add64(t, hiLo*0xffffffff, 0)
	if carry != 0 {
		s += 0xffffffff
	}
	if s >= Prime {
		s -= Prime
	}
	return s
}

// Mul returns a * b mod Prime.
func Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return reduce(hi, lo)
}

// Montify brings x into the Montgomery domain (x * 2^64 mod Prime).
func Montify(x uint64) uint64 { return Mul(x, r) }

// MontReduce takes x out of the Montgomery domain (x * 2^-64 mod Prime).
func MontReduce(x uint64) uint64 { return Mul(x, rInv) }

// A Permutation scrambles the sponge state in place. It must be a bijection
// on field-element vectors; everything else about it is opaque to the
// framing.
type Permutation func(state *[StateSize]uint64)

// Permute is the permutation used by the package-level hash functions.
// The default is a BLAKE2b-derived construction; a deployment that must be
// bit-compatible with a particular interpreter replaces it before use.
var Permute Permutation = blakePermutation

// blakePermutation absorbs the state through BLAKE2b in XOF mode and maps
// the output back into field elements by rejection-free reduction.
func blakePermutation(state *[StateSize]uint64) {
	var buf [StateSize * 8]byte
	for i, v := range state {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	xof, err := blake2b.NewXOF(StateSize*8, nil)
	if err != nil {
		panic(err)
	}
	xof.Write(buf[:])
	if _, err := xof.Read(buf[:]); err != nil {
		panic(err)
	}
	for i := range state {
		v := binary.LittleEndian.Uint64(buf[i*8:])
		state[i] = reduce(0, v)
	}
}

// absorb writes successive rate-sized blocks over the front of the state,
// permuting after each. If pad is set, the input is extended with [1, 0...]
// to the next rate boundary (a full extra block when already aligned);
// otherwise the input length must be a multiple of Rate.
func absorb(state *[StateSize]uint64, input []uint64, pad bool) {
	if !pad && len(input)%Rate != 0 {
		panic("sponge: unpadded input not a multiple of the rate")
	}
	var block [Rate]uint64
	for len(input) >= Rate {
		copy(block[:], input[:Rate])
		input = input[Rate:]
		for i := range block {
			state[i] = Montify(block[i])
		}
		Permute(state)
	}
	if pad {
		n := copy(block[:], input)
		block[n] = 1
		for i := n + 1; i < Rate; i++ {
			block[i] = 0
		}
		for i := range block {
			state[i] = Montify(block[i])
		}
		Permute(state)
	}
}

func digest(state *[StateSize]uint64) (out [DigestSize]uint64) {
	for i := range out {
		out[i] = MontReduce(state[i])
	}
	return
}

// HashVarlen hashes an arbitrary-length vector of field elements.
func HashVarlen(input []uint64) [DigestSize]uint64 {
	var state [StateSize]uint64
	absorb(&state, input, true)
	return digest(&state)
}

// HashFixed hashes a vector whose length is a multiple of the rate,
// without padding. Used for fixed-width digest-pair hashing.
func HashFixed(input []uint64) [DigestSize]uint64 {
	var state [StateSize]uint64
	absorb(&state, input, false)
	return digest(&state)
}
