package types

import (
	"bytes"
	"testing"
)

// checkRoundtrip encodes v, decodes it into dst, and compares hashes.
func checkRoundtrip[T interface {
	EncoderTo
	Hashable
}](t *testing.T, v T, dst interface {
	DecoderFrom
	Hashable
}) {
	t.Helper()
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	v.EncodeTo(e)
	if err := e.Flush(); err != nil {
		t.Fatal(err)
	}
	d := NewBufDecoder(buf.Bytes())
	dst.DecodeFrom(d)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if v.Hash() != dst.Hash() {
		t.Fatalf("roundtrip changed hash: %v != %v", v.Hash(), dst.Hash())
	}
}

func TestEncoderRoundtripPrimitives(t *testing.T) {
	var d Digest
	checkRoundtrip(t, HashUint64(88), &d)

	n := Cell(Atom(1), Cell(Atom(2), Atom(1<<50)))
	var n2 Noun
	checkRoundtrip(t, n, &n2)
	if !n.Equal(n2) {
		t.Fatal("noun roundtrip changed structure")
	}

	var term Term
	checkRoundtrip(t, Term("lock"), &term)
	if term != "lock" {
		t.Fatal("term roundtrip mismatch")
	}
}

func TestEncoderRejectsBadBool(t *testing.T) {
	d := NewBufDecoder([]byte{2})
	d.ReadBool()
	if d.Err() == nil {
		t.Fatal("expected error for invalid bool byte")
	}
}

func TestEncoderRejectsBadLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.WriteUint64(1 << 40)
	e.Flush()
	d := NewBufDecoder(buf.Bytes())
	d.ReadBytes()
	if d.Err() == nil {
		t.Fatal("expected error for length prefix past end of stream")
	}
}

func TestEncoderRoundtripKeys(t *testing.T) {
	priv := GeneratePrivateKey()
	pk := priv.PublicKey()
	var pk2 PublicKey
	checkRoundtrip(t, pk, &pk2)
	if pk != pk2 {
		t.Fatal("public key roundtrip mismatch")
	}

	sig := priv.SignHash(HashUint64(3))
	ks := KeySignature{Key: pk, Signature: sig}
	var ks2 KeySignature
	checkRoundtrip(t, ks, &ks2)
}

func TestEncoderRoundtripLock(t *testing.T) {
	pkh := NewPkh(2, []Digest{HashUint64(1), HashUint64(2), HashUint64(3)})
	sc := NewPkhCondition(pkh)
	var sc2 SpendCondition
	checkRoundtrip(t, sc, &sc2)

	lr := LockRootLock(sc)
	var lr2 LockRoot
	checkRoundtrip(t, lr, &lr2)
	if _, ok := lr2.Lock(); !ok {
		t.Fatal("decoded root lost its condition")
	}

	nd := NoteDataFromPkh(pkh)
	var nd2 NoteData
	checkRoundtrip(t, nd, &nd2)
}

func TestEncoderRoundtripSpend(t *testing.T) {
	pkh := SinglePkh(HashUint64(10))
	seed := NewSinglePkhSeed(pkh.Hashes.Values()[0], 500, HashUint64(77), true)
	var seeds Seeds
	seeds.Insert(seed)

	sig := NewSigSpend(seeds, 256)
	var sig2 Spend
	checkRoundtrip(t, sig, &sig2)

	wit := NewWitnessSpend(NewWitness(NewPkhCondition(pkh)), seeds, 256)
	var wit2 Spend
	checkRoundtrip(t, wit, &wit2)

	var sp Spends
	sp.Insert(NewName(HashUint64(1), HashUint64(2)), wit)
	tx := NewRawTx(sp)
	var tx2 RawTx
	checkRoundtrip(t, &txHasher{tx}, &txHasherPtr{&tx2})
	if tx.ID != tx2.ID || tx2.CalcID() != tx2.ID {
		t.Fatal("transaction id did not survive the roundtrip")
	}
}

// RawTx has no content hash of its own; compare via the id.
type txHasher struct{ tx RawTx }

func (h *txHasher) EncodeTo(e *Encoder) { h.tx.EncodeTo(e) }
func (h *txHasher) Hash() Digest        { return h.tx.ID }

type txHasherPtr struct{ tx *RawTx }

func (h *txHasherPtr) DecodeFrom(d *Decoder) { h.tx.DecodeFrom(d) }
func (h *txHasherPtr) Hash() Digest          { return h.tx.ID }

func TestEncoderRoundtripTransaction(t *testing.T) {
	pkh := SinglePkh(HashUint64(10))
	seed := NewSinglePkhSeed(HashUint64(10), 500, HashUint64(77), true)
	var seeds Seeds
	seeds.Insert(seed)
	var sp Spends
	sp.Insert(NewName(HashUint64(1), HashUint64(2)), NewWitnessSpend(NewWitness(NewPkhCondition(pkh)), seeds, 256))
	raw := NewRawTx(sp)
	txn := raw.ToTransaction()

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	txn.EncodeTo(e)
	if err := e.Flush(); err != nil {
		t.Fatal(err)
	}
	var txn2 Transaction
	d := NewBufDecoder(buf.Bytes())
	txn2.DecodeFrom(d)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	raw2 := txn2.ToRawTx()
	if raw2.CalcID() != raw.ID {
		t.Fatal("witness split did not survive the roundtrip")
	}
}
