package types

import (
	"bytes"
	"fmt"
	"math/bits"
	"runtime"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"go.ztx.dev/core/internal/sponge"
	"lukechampine.com/frand"
)

// A PrivateKey is a secp256k1 scalar, serialized as 32 big-endian bytes.
type PrivateKey []byte

// A PublicKey is a point on the secp256k1 curve in affine coordinates. Its
// noun form is the pair of coordinates, each decomposed into six field
// limbs, followed by a flag that is set unless the point is at infinity.
type PublicKey struct {
	X, Y [32]byte
	Inf  bool
}

// A Signature is a Schnorr signature (c, s): the challenge scalar and the
// response scalar, both serialized as 32 little-endian bytes.
type Signature struct {
	C, S [32]byte
}

// GeneratePrivateKey creates a new key from a secure entropy source.
func GeneratePrivateKey() PrivateKey {
	var s btcec.ModNScalar
	for {
		seed := frand.Bytes(32)
		overflow := s.SetByteSlice(seed)
		frand.Read(seed) // don't keep the seed around
		if !overflow && !s.IsZero() {
			break
		}
	}
	buf := s.Bytes()
	s.Zero()
	return buf[:]
}

// Zero overwrites the key material with zeroes. The KeepAlive fence keeps
// the compiler from eliding the writes as dead stores.
func (priv PrivateKey) Zero() {
	for i := range priv {
		priv[i] = 0
	}
	runtime.KeepAlive(priv)
}

func (priv PrivateKey) scalar() *btcec.ModNScalar {
	if len(priv) != 32 {
		panic("invalid private key length")
	}
	var s btcec.ModNScalar
	s.SetByteSlice(priv)
	return &s
}

// PublicKey returns the point corresponding to priv.
func (priv PrivateKey) PublicKey() PublicKey {
	var p btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(priv.scalar(), &p)
	return publicKeyFromJacobian(&p)
}

func publicKeyFromJacobian(p *btcec.JacobianPoint) PublicKey {
	if (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero() {
		return PublicKey{Inf: true}
	}
	p.ToAffine()
	var pk PublicKey
	p.X.PutBytes(&pk.X)
	p.Y.PutBytes(&pk.Y)
	return pk
}

func (pk PublicKey) jacobian() *btcec.JacobianPoint {
	var p btcec.JacobianPoint
	if pk.Inf {
		return &p
	}
	p.X.SetBytes(&pk.X)
	p.Y.SetBytes(&pk.Y)
	p.Z.SetInt(1)
	return &p
}

// Cmp compares two public keys by their compressed encodings.
func (pk PublicKey) Cmp(other PublicKey) int {
	if pk.Inf || other.Inf {
		switch {
		case pk.Inf && other.Inf:
			return 0
		case pk.Inf:
			return -1
		default:
			return 1
		}
	}
	a, b := pk.compressed(), other.compressed()
	return bytes.Compare(a[:], b[:])
}

func (pk PublicKey) compressed() (buf [33]byte) {
	buf[0] = 0x02 | pk.Y[31]&1
	copy(buf[1:], pk.X[:])
	return
}

// coordBelts decomposes a 256-bit big-endian coordinate into six base-p
// limbs, least significant first.
func coordBelts(coord [32]byte) (belts [6]uint64) {
	var acc [4]uint64
	for i := range acc {
		var v uint64
		for j := 0; j < 8; j++ {
			v = v<<8 | uint64(coord[i*8+j])
		}
		acc[3-i] = v
	}
	for i := range belts {
		rem := uint64(0)
		for j := 3; j >= 0; j-- {
			acc[j], rem = bits.Div64(rem, acc[j], sponge.Prime)
		}
		belts[i] = rem
	}
	return
}

// scalarBelts splits a 256-bit little-endian scalar into eight 32-bit limbs,
// least significant first.
func scalarBelts(scalar [32]byte) (belts [8]uint64) {
	for i := range belts {
		belts[i] = uint64(scalar[i*4]) |
			uint64(scalar[i*4+1])<<8 |
			uint64(scalar[i*4+2])<<16 |
			uint64(scalar[i*4+3])<<24
	}
	return
}

func beltChain(belts []uint64) Noun {
	ns := make([]Noun, len(belts))
	for i, b := range belts {
		ns[i] = Atom(b)
	}
	return nounChain(ns...)
}

// Noun implements NounEncoder.
func (pk PublicKey) Noun() Noun {
	x, y := coordBelts(pk.X), coordBelts(pk.Y)
	return Cell(beltChain(x[:]), Cell(beltChain(y[:]), nounBool(!pk.Inf)))
}

// Hash implements Hashable.
func (pk PublicKey) Hash() Digest { return pk.Noun().Hash() }

// String implements fmt.Stringer.
func (pk PublicKey) String() string {
	buf := pk.compressed()
	return base58.Encode(buf[:])
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) { return []byte(pk.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(b []byte) error {
	raw := base58.Decode(string(b))
	parsed, err := btcec.ParsePubKey(raw)
	if err != nil {
		return fmt.Errorf("invalid public key %q: %w", string(b), err)
	}
	var x, y btcec.FieldVal
	x.SetByteSlice(parsed.X().Bytes())
	y.SetByteSlice(parsed.Y().Bytes())
	x.PutBytes(&pk.X)
	y.PutBytes(&pk.Y)
	pk.Inf = false
	return nil
}

// Noun implements NounEncoder. A signature is the pair of its scalars, each
// a chain of eight 32-bit limbs.
func (sig Signature) Noun() Noun {
	c, s := scalarBelts(sig.C), scalarBelts(sig.S)
	return Cell(beltChain(c[:]), beltChain(s[:]))
}

// Hash implements Hashable.
func (sig Signature) Hash() Digest { return sig.Noun().Hash() }

// scalarFromDigest maps a digest onto the scalar field of the curve.
func scalarFromDigest(d Digest) *btcec.ModNScalar {
	buf := d.Bytes()
	var s btcec.ModNScalar
	s.SetByteSlice(buf[8:])
	return &s
}

func scalarLE(s *btcec.ModNScalar) (buf [32]byte) {
	be := s.Bytes()
	for i := range buf {
		buf[i] = be[31-i]
	}
	return
}

func scalarFromLE(buf [32]byte) *btcec.ModNScalar {
	var be [32]byte
	for i := range be {
		be[i] = buf[31-i]
	}
	var s btcec.ModNScalar
	s.SetBytes(&be)
	return &s
}

// challenge binds the nonce point, the signing key, and the message into a
// challenge scalar.
func challenge(nonce, pk PublicKey, h Digest) *btcec.ModNScalar {
	nx, ny := coordBelts(nonce.X), coordBelts(nonce.Y)
	px, py := coordBelts(pk.X), coordBelts(pk.Y)
	belts := make([]uint64, 0, 29)
	belts = append(belts, nx[:]...)
	belts = append(belts, ny[:]...)
	belts = append(belts, px[:]...)
	belts = append(belts, py[:]...)
	belts = append(belts, h[:]...)
	return scalarFromDigest(hashVarlen(belts))
}

// nonceScalar derives a deterministic signing nonce from the key and the
// message.
func (priv PrivateKey) nonceScalar(h Digest) *btcec.ModNScalar {
	var le [32]byte
	for i := range le {
		le[i] = priv[31-i]
	}
	kb := scalarBelts(le)
	belts := make([]uint64, 0, 13)
	belts = append(belts, kb[:]...)
	belts = append(belts, h[:]...)
	k := scalarFromDigest(hashVarlen(belts))
	// don't leave key material in the temporaries
	le = [32]byte{}
	kb = [8]uint64{}
	for i := range belts {
		belts[i] = 0
	}
	runtime.KeepAlive(&le)
	runtime.KeepAlive(&kb)
	return k
}

// SignHash signs h with priv, committing to priv's own public key.
func (priv PrivateKey) SignHash(h Digest) Signature {
	k := priv.nonceScalar(h)
	var rp btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(k, &rp)
	r := publicKeyFromJacobian(&rp)

	c := challenge(r, priv.PublicKey(), h)

	// s = k + c*x
	s := new(btcec.ModNScalar).Mul2(c, priv.scalar()).Add(k)
	sig := Signature{C: scalarLE(c), S: scalarLE(s)}
	k.Zero()
	s.Zero()
	return sig
}

// VerifyHash verifies that sig is a valid signature of h by pk. The nonce
// point is recovered as s*G - c*P and checked against the challenge.
func (pk PublicKey) VerifyHash(h Digest, sig Signature) bool {
	if pk.Inf {
		return false
	}
	c := scalarFromLE(sig.C)
	s := scalarFromLE(sig.S)

	var sG, cP, rp btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(s, &sG)
	negC := new(btcec.ModNScalar).NegateVal(c)
	btcec.ScalarMultNonConst(negC, pk.jacobian(), &cP)
	btcec.AddNonConst(&sG, &cP, &rp)
	if rp.Z.IsZero() {
		return false
	}
	r := publicKeyFromJacobian(&rp)
	return challenge(r, pk, h).Equals(c)
}

// NonceFor returns the public nonce commitment priv would use when signing h
// collaboratively.
func (priv PrivateKey) NonceFor(h Digest) PublicKey {
	k := priv.nonceScalar(h)
	var p btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(k, &p)
	k.Zero()
	return publicKeyFromJacobian(&p)
}

// CombineNonces sums the public nonce commitments of all cosigners.
func CombineNonces(nonces ...PublicKey) PublicKey {
	return SumKeys(nonces...)
}

// SumKeys returns the sum of the given points. Summing the cosigners' public
// keys yields the aggregate key that verifies an aggregate signature.
func SumKeys(pks ...PublicKey) PublicKey {
	var acc btcec.JacobianPoint
	for _, pk := range pks {
		if pk.Inf {
			continue
		}
		var sum btcec.JacobianPoint
		btcec.AddNonConst(&acc, pk.jacobian(), &sum)
		acc = sum
	}
	return publicKeyFromJacobian(&acc)
}

// SignWithNonce produces priv's share of an aggregate signature of h. All
// cosigners must pass the same combined nonce and aggregate key.
func (priv PrivateKey) SignWithNonce(h Digest, nonce, aggregate PublicKey) Signature {
	k := priv.nonceScalar(h)
	c := challenge(nonce, aggregate, h)
	s := new(btcec.ModNScalar).Mul2(c, priv.scalar()).Add(k)
	sig := Signature{C: scalarLE(c), S: scalarLE(s)}
	k.Zero()
	s.Zero()
	return sig
}

// SumSignatures combines signature shares produced with SignWithNonce into a
// single signature, verifiable against the aggregate key.
func SumSignatures(sigs ...Signature) (Signature, error) {
	if len(sigs) == 0 {
		return Signature{}, fmt.Errorf("no signatures to combine")
	}
	var s btcec.ModNScalar
	for _, sig := range sigs {
		if sig.C != sigs[0].C {
			return Signature{}, fmt.Errorf("signature shares commit to different challenges")
		}
		s.Add(scalarFromLE(sig.S))
	}
	return Signature{C: sigs[0].C, S: scalarLE(&s)}, nil
}
