package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// An Encoder writes objects to an underlying stream.
type Encoder struct {
	w   io.Writer
	buf [1024]byte
	n   int
	err error
}

// Flush writes any pending data to the underlying stream. It returns the
// first error encountered by the Encoder.
func (e *Encoder) Flush() error {
	if e.err == nil && e.n > 0 {
		_, e.err = e.w.Write(e.buf[:e.n])
		e.n = 0
	}
	return e.err
}

// Write implements io.Writer.
func (e *Encoder) Write(p []byte) (int, error) {
	lenp := len(p)
	for e.err == nil && len(p) > 0 {
		if e.n == len(e.buf) {
			e.Flush()
		}
		c := copy(e.buf[e.n:], p)
		e.n += c
		p = p[c:]
	}
	return lenp, e.err
}

// WriteBool writes a bool value to the underlying stream.
func (e *Encoder) WriteBool(b bool) {
	var buf [1]byte
	if b {
		buf[0] = 1
	}
	e.Write(buf[:])
}

// WriteUint8 writes a uint8 value to the underlying stream.
func (e *Encoder) WriteUint8(u uint8) {
	e.Write([]byte{u})
}

// WriteUint64 writes a uint64 value to the underlying stream.
func (e *Encoder) WriteUint64(u uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	e.Write(buf[:])
}

// WriteBytes writes a length-prefixed []byte to the underlying stream.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUint64(uint64(len(b)))
	e.Write(b)
}

// WriteString writes a length-prefixed string to the underlying stream.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// Reset resets the Encoder to write to w. Any unflushed data, along with any
// error previously encountered, is discarded.
func (e *Encoder) Reset(w io.Writer) {
	e.w = w
	e.n = 0
	e.err = nil
}

// NewEncoder returns an Encoder that wraps the provided stream.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w: w,
	}
}

// An EncoderTo can encode itself to a stream via an Encoder.
type EncoderTo interface {
	EncodeTo(e *Encoder)
}

// EncoderFunc implements EncoderTo with a function.
type EncoderFunc func(*Encoder)

// EncodeTo implements EncoderTo.
func (fn EncoderFunc) EncodeTo(e *Encoder) { fn(e) }

// EncodePtr encodes a pointer to an object that implements EncoderTo.
func EncodePtr[T any, P interface {
	*T
	EncoderTo
}](e *Encoder, p P) {
	e.WriteBool(p != nil)
	if p != nil {
		p.EncodeTo(e)
	}
}

// EncodeSlice encodes a slice of objects that implement EncoderTo.
func EncodeSlice[T EncoderTo](e *Encoder, s []T) {
	e.WriteUint64(uint64(len(s)))
	for i := range s {
		s[i].EncodeTo(e)
	}
}

// A Decoder reads values from an underlying stream. Callers MUST check
// (*Decoder).Err before using any decoded values.
type Decoder struct {
	lr  io.LimitedReader
	buf [64]byte
	err error
}

// SetErr sets the Decoder's error if it has not already been set. SetErr
// should only be called from DecodeFrom methods.
func (d *Decoder) SetErr(err error) {
	if err != nil && d.err == nil {
		d.err = err
		// clear d.buf so that future reads always return zero
		d.buf = [len(d.buf)]byte{}
	}
}

// Err returns the first error encountered during decoding.
func (d *Decoder) Err() error { return d.err }

// Read implements the io.Reader interface. It always returns an error if
// fewer than len(p) bytes were read.
func (d *Decoder) Read(p []byte) (int, error) {
	n := 0
	for len(p[n:]) > 0 && d.err == nil {
		read, err := io.ReadFull(&d.lr, d.buf[:min(len(p[n:]), len(d.buf))])
		n += copy(p[n:], d.buf[:read])
		d.SetErr(err)
	}
	return n, d.err
}

// ReadBool reads a bool value from the underlying stream.
func (d *Decoder) ReadBool() bool {
	d.Read(d.buf[:1])
	switch d.buf[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		d.SetErr(fmt.Errorf("invalid bool value (%v)", d.buf[0]))
		return false
	}
}

// ReadUint8 reads a uint8 value from the underlying stream.
func (d *Decoder) ReadUint8() uint8 {
	d.Read(d.buf[:1])
	return d.buf[0]
}

// ReadUint64 reads a uint64 value from the underlying stream.
func (d *Decoder) ReadUint64() uint64 {
	d.Read(d.buf[:8])
	return binary.LittleEndian.Uint64(d.buf[:8])
}

// ReadBytes reads a length-prefixed []byte from the underlying stream.
func (d *Decoder) ReadBytes() []byte {
	n := d.ReadUint64()
	if n > uint64(d.lr.N) {
		d.SetErr(fmt.Errorf("encoded object contains invalid length prefix (%v elems > %v bytes left in stream)", n, d.lr.N))
		return nil
	}
	b := make([]byte, n)
	d.Read(b)
	return b
}

// ReadString reads a length-prefixed string from the underlying stream.
func (d *Decoder) ReadString() string {
	return string(d.ReadBytes())
}

// NewDecoder returns a Decoder that wraps the provided stream.
func NewDecoder(lr io.LimitedReader) *Decoder {
	return &Decoder{
		lr: lr,
	}
}

// A DecoderFrom can decode itself from a stream via a Decoder.
type DecoderFrom interface {
	DecodeFrom(d *Decoder)
}

// DecoderFunc implements DecoderFrom with a function.
type DecoderFunc func(*Decoder)

// DecodeFrom implements DecoderFrom.
func (fn DecoderFunc) DecodeFrom(d *Decoder) { fn(d) }

// DecodePtr decodes a pointer to an object that implements DecoderFrom.
func DecodePtr[T any, TP interface {
	*T
	DecoderFrom
}](d *Decoder, v **T) {
	if d.ReadBool() {
		*v = new(T)
		TP(*v).DecodeFrom(d)
	} else {
		*v = nil
	}
}

// DecodeSlice decodes a length-prefixed slice of type T, containing values
// read from the decoder.
func DecodeSlice[T any, DF interface {
	*T
	DecoderFrom
}](d *Decoder, s *[]T) {
	n := d.ReadUint64()
	if n > uint64(d.lr.N) {
		d.SetErr(fmt.Errorf("encoded object contains invalid length prefix (%v elems > %v bytes left in stream)", n, d.lr.N))
		return
	}
	*s = make([]T, n)
	for i := range *s {
		DF(&(*s)[i]).DecodeFrom(d)
		if d.Err() != nil {
			break
		}
	}
}

// NewBufDecoder returns a Decoder for the provided byte slice.
func NewBufDecoder(buf []byte) *Decoder {
	return NewDecoder(io.LimitedReader{
		R: bytes.NewReader(buf),
		N: int64(len(buf)),
	})
}

// EncodeSet encodes the members of a Set in traversal order. The shape is
// not encoded; it is recomputed on decode.
func EncodeSet[T interface {
	Value
	EncoderTo
}](e *Encoder, s Set[T]) {
	e.WriteUint64(uint64(s.Len()))
	for _, v := range s.Values() {
		v.EncodeTo(e)
	}
}

// DecodeSet decodes a Set encoded with EncodeSet.
func DecodeSet[T Value, TP interface {
	*T
	DecoderFrom
}](d *Decoder, s *Set[T]) {
	n := d.ReadUint64()
	if n > uint64(d.lr.N) {
		d.SetErr(fmt.Errorf("encoded object contains invalid length prefix (%v elems > %v bytes left in stream)", n, d.lr.N))
		return
	}
	*s = Set[T]{}
	for i := uint64(0); i < n && d.Err() == nil; i++ {
		var v T
		TP(&v).DecodeFrom(d)
		s.Insert(v)
	}
}

// EncodeMap encodes the pairs of a Map in traversal order. The shape is not
// encoded; it is recomputed on decode.
func EncodeMap[K interface {
	Value
	EncoderTo
}, V interface {
	Value
	EncoderTo
}](e *Encoder, m Map[K, V]) {
	e.WriteUint64(uint64(m.Len()))
	for _, entry := range m.Entries() {
		entry.Key.EncodeTo(e)
		entry.Value.EncodeTo(e)
	}
}

// DecodeMap decodes a Map encoded with EncodeMap.
func DecodeMap[K Value, V Value, KP interface {
	*K
	DecoderFrom
}, VP interface {
	*V
	DecoderFrom
}](d *Decoder, m *Map[K, V]) {
	n := d.ReadUint64()
	if n > uint64(d.lr.N) {
		d.SetErr(fmt.Errorf("encoded object contains invalid length prefix (%v elems > %v bytes left in stream)", n, d.lr.N))
		return
	}
	*m = Map[K, V]{}
	for i := uint64(0); i < n && d.Err() == nil; i++ {
		var k K
		var v V
		KP(&k).DecodeFrom(d)
		VP(&v).DecodeFrom(d)
		m.Insert(k, v)
	}
}

// EncodeTo implements EncoderTo.
func (d Digest) EncodeTo(e *Encoder) {
	buf := d.Bytes()
	e.Write(buf[:])
}

// DecodeFrom implements DecoderFrom.
func (dg *Digest) DecodeFrom(d *Decoder) {
	var buf [DigestSize]byte
	d.Read(buf[:])
	v, err := DigestFromBytes(buf)
	if err != nil {
		d.SetErr(err)
		return
	}
	*dg = v
}

// EncodeTo implements EncoderTo.
func (n Noun) EncodeTo(e *Encoder) {
	if n.IsAtom() {
		e.WriteBool(false)
		e.WriteUint64(n.atom)
		return
	}
	e.WriteBool(true)
	n.sub[0].EncodeTo(e)
	n.sub[1].EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (n *Noun) DecodeFrom(d *Decoder) {
	if !d.ReadBool() {
		*n = Atom(d.ReadUint64())
		return
	}
	var head, tail Noun
	head.DecodeFrom(d)
	tail.DecodeFrom(d)
	if d.Err() == nil {
		*n = Cell(head, tail)
	}
}

// EncodeTo implements EncoderTo.
func (t Term) EncodeTo(e *Encoder) { e.WriteString(string(t)) }

// DecodeFrom implements DecoderFrom.
func (t *Term) DecodeFrom(d *Decoder) {
	s := d.ReadString()
	if len(s) > MaxTermLen {
		d.SetErr(fmt.Errorf("term %q exceeds %d bytes", s, MaxTermLen))
		return
	}
	*t = Term(s)
}

// EncodeTo implements EncoderTo.
func (pk PublicKey) EncodeTo(e *Encoder) {
	e.Write(pk.X[:])
	e.Write(pk.Y[:])
	e.WriteBool(pk.Inf)
}

// DecodeFrom implements DecoderFrom.
func (pk *PublicKey) DecodeFrom(d *Decoder) {
	d.Read(pk.X[:])
	d.Read(pk.Y[:])
	pk.Inf = d.ReadBool()
}

// EncodeTo implements EncoderTo.
func (sig Signature) EncodeTo(e *Encoder) {
	e.Write(sig.C[:])
	e.Write(sig.S[:])
}

// DecodeFrom implements DecoderFrom.
func (sig *Signature) DecodeFrom(d *Decoder) {
	d.Read(sig.C[:])
	d.Read(sig.S[:])
}

// EncodeTo implements EncoderTo.
func (ks KeySignature) EncodeTo(e *Encoder) {
	ks.Key.EncodeTo(e)
	ks.Signature.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (ks *KeySignature) DecodeFrom(d *Decoder) {
	ks.Key.DecodeFrom(d)
	ks.Signature.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (n Nicks) EncodeTo(e *Encoder) { e.WriteUint64(uint64(n)) }

// DecodeFrom implements DecoderFrom.
func (n *Nicks) DecodeFrom(d *Decoder) { *n = Nicks(d.ReadUint64()) }

// EncodeTo implements EncoderTo.
func (h BlockHeight) EncodeTo(e *Encoder) { e.WriteUint64(uint64(h)) }

// DecodeFrom implements DecoderFrom.
func (h *BlockHeight) DecodeFrom(d *Decoder) { *h = BlockHeight(d.ReadUint64()) }

// EncodeTo implements EncoderTo.
func (v Version) EncodeTo(e *Encoder) { e.WriteUint8(uint8(v)) }

// DecodeFrom implements DecoderFrom.
func (v *Version) DecodeFrom(d *Decoder) {
	u := d.ReadUint8()
	if u > uint8(V2) {
		d.SetErr(fmt.Errorf("invalid version (%v)", u))
		return
	}
	*v = Version(u)
}

// EncodeTo implements EncoderTo.
func (s Source) EncodeTo(e *Encoder) {
	s.Hash.EncodeTo(e)
	e.WriteBool(s.IsCoinbase)
}

// DecodeFrom implements DecoderFrom.
func (s *Source) DecodeFrom(d *Decoder) {
	s.Hash.DecodeFrom(d)
	s.IsCoinbase = d.ReadBool()
}

// EncodeTo implements EncoderTo.
func (tr TimelockRange) EncodeTo(e *Encoder) {
	EncodePtr(e, tr.Min)
	EncodePtr(e, tr.Max)
}

// DecodeFrom implements DecoderFrom.
func (tr *TimelockRange) DecodeFrom(d *Decoder) {
	DecodePtr(d, &tr.Min)
	DecodePtr(d, &tr.Max)
}

// EncodeTo implements EncoderTo.
func (t Timelock) EncodeTo(e *Encoder) {
	t.Rel.EncodeTo(e)
	t.Abs.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (t *Timelock) DecodeFrom(d *Decoder) {
	t.Rel.DecodeFrom(d)
	t.Abs.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (ti TimelockIntent) EncodeTo(e *Encoder) {
	EncodePtr(e, ti.Tim)
}

// DecodeFrom implements DecoderFrom.
func (ti *TimelockIntent) DecodeFrom(d *Decoder) {
	DecodePtr(d, &ti.Tim)
}

// EncodeTo implements EncoderTo.
func (n Name) EncodeTo(e *Encoder) {
	n.First.EncodeTo(e)
	n.Last.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (n *Name) DecodeFrom(d *Decoder) {
	n.First.DecodeFrom(d)
	n.Last.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (s Sig) EncodeTo(e *Encoder) {
	e.WriteUint64(s.M)
	EncodeSlice(e, s.PublicKeys)
}

// DecodeFrom implements DecoderFrom.
func (s *Sig) DecodeFrom(d *Decoder) {
	s.M = d.ReadUint64()
	DecodeSlice(d, &s.PublicKeys)
}

// EncodeTo implements EncoderTo.
func (ls LegacySignature) EncodeTo(e *Encoder) {
	EncodeSlice(e, ls)
}

// DecodeFrom implements DecoderFrom.
func (ls *LegacySignature) DecodeFrom(d *Decoder) {
	DecodeSlice(d, (*[]KeySignature)(ls))
}

// EncodeTo implements EncoderTo.
func (s LegacySeed) EncodeTo(e *Encoder) {
	EncodePtr(e, s.OutputSource)
	s.Recipient.EncodeTo(e)
	s.TimelockIntent.EncodeTo(e)
	s.Gift.EncodeTo(e)
	s.ParentHash.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (s *LegacySeed) DecodeFrom(d *Decoder) {
	DecodePtr(d, &s.OutputSource)
	s.Recipient.DecodeFrom(d)
	s.TimelockIntent.DecodeFrom(d)
	s.Gift.DecodeFrom(d)
	s.ParentHash.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (ls LegacySeeds) EncodeTo(e *Encoder) {
	EncodeSlice(e, ls)
}

// DecodeFrom implements DecoderFrom.
func (ls *LegacySeeds) DecodeFrom(d *Decoder) {
	DecodeSlice(d, (*[]LegacySeed)(ls))
}

// EncodeTo implements EncoderTo.
func (s LegacySpend) EncodeTo(e *Encoder) {
	EncodePtr(e, s.Signature)
	s.Seeds.EncodeTo(e)
	s.Fee.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (s *LegacySpend) DecodeFrom(d *Decoder) {
	DecodePtr(d, &s.Signature)
	s.Seeds.DecodeFrom(d)
	s.Fee.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (n LegacyNote) EncodeTo(e *Encoder) {
	n.Version.EncodeTo(e)
	n.OriginPage.EncodeTo(e)
	n.Timelock.EncodeTo(e)
	n.Name.EncodeTo(e)
	n.Owners.EncodeTo(e)
	n.Source.EncodeTo(e)
	n.Assets.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (n *LegacyNote) DecodeFrom(d *Decoder) {
	n.Version.DecodeFrom(d)
	n.OriginPage.DecodeFrom(d)
	n.Timelock.DecodeFrom(d)
	n.Name.DecodeFrom(d)
	n.Owners.DecodeFrom(d)
	n.Source.DecodeFrom(d)
	n.Assets.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (in LegacyInput) EncodeTo(e *Encoder) {
	in.Note.EncodeTo(e)
	in.Spend.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (in *LegacyInput) DecodeFrom(d *Decoder) {
	in.Note.DecodeFrom(d)
	in.Spend.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (ni NamedLegacyInput) EncodeTo(e *Encoder) {
	ni.Name.EncodeTo(e)
	ni.Input.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (ni *NamedLegacyInput) DecodeFrom(d *Decoder) {
	ni.Name.DecodeFrom(d)
	ni.Input.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (li LegacyInputs) EncodeTo(e *Encoder) {
	EncodeSlice(e, li)
}

// DecodeFrom implements DecoderFrom.
func (li *LegacyInputs) DecodeFrom(d *Decoder) {
	DecodeSlice(d, (*[]NamedLegacyInput)(li))
}

// EncodeTo implements EncoderTo.
func (tx LegacyRawTx) EncodeTo(e *Encoder) {
	tx.ID.EncodeTo(e)
	tx.Inputs.EncodeTo(e)
	tx.TimelockRange.EncodeTo(e)
	tx.TotalFees.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (tx *LegacyRawTx) DecodeFrom(d *Decoder) {
	tx.ID.DecodeFrom(d)
	tx.Inputs.DecodeFrom(d)
	tx.TimelockRange.DecodeFrom(d)
	tx.TotalFees.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (p Pkh) EncodeTo(e *Encoder) {
	e.WriteUint64(p.M)
	EncodeSet(e, p.Hashes)
}

// DecodeFrom implements DecoderFrom.
func (p *Pkh) DecodeFrom(d *Decoder) {
	p.M = d.ReadUint64()
	DecodeSet(d, &p.Hashes)
}

// EncodeTo implements EncoderTo.
func (h Hax) EncodeTo(e *Encoder) {
	EncodeSet(e, h.Hashes)
}

// DecodeFrom implements DecoderFrom.
func (h *Hax) DecodeFrom(d *Decoder) {
	DecodeSet(d, &h.Hashes)
}

// Lock primitive type identifiers, used by the binary encoding.
const (
	primPkh uint8 = iota
	primTim
	primHax
	primBrn
)

// EncodeTo implements EncoderTo.
func (lp LockPrimitive) EncodeTo(e *Encoder) {
	switch v := lp.Type.(type) {
	case Pkh:
		e.WriteUint8(primPkh)
		v.EncodeTo(e)
	case Timelock:
		e.WriteUint8(primTim)
		v.EncodeTo(e)
	case Hax:
		e.WriteUint8(primHax)
		v.EncodeTo(e)
	case Burn:
		e.WriteUint8(primBrn)
	default:
		panic("unhandled lock primitive")
	}
}

// DecodeFrom implements DecoderFrom.
func (lp *LockPrimitive) DecodeFrom(d *Decoder) {
	switch tag := d.ReadUint8(); tag {
	case primPkh:
		var p Pkh
		p.DecodeFrom(d)
		lp.Type = p
	case primTim:
		var t Timelock
		t.DecodeFrom(d)
		lp.Type = t
	case primHax:
		var h Hax
		h.DecodeFrom(d)
		lp.Type = h
	case primBrn:
		lp.Type = Burn{}
	default:
		d.SetErr(fmt.Errorf("unknown lock primitive (%v)", tag))
	}
}

// EncodeTo implements EncoderTo.
func (sc SpendCondition) EncodeTo(e *Encoder) {
	EncodeSlice(e, sc)
}

// DecodeFrom implements DecoderFrom.
func (sc *SpendCondition) DecodeFrom(d *Decoder) {
	DecodeSlice(d, (*[]LockPrimitive)(sc))
}

// EncodeTo implements EncoderTo. A root carrying its condition in the clear
// is preserved as such.
func (lr LockRoot) EncodeTo(e *Encoder) {
	switch v := lr.Type.(type) {
	case Digest:
		e.WriteBool(false)
		v.EncodeTo(e)
	case SpendCondition:
		e.WriteBool(true)
		v.EncodeTo(e)
	default:
		panic("unhandled lock root")
	}
}

// DecodeFrom implements DecoderFrom.
func (lr *LockRoot) DecodeFrom(d *Decoder) {
	if d.ReadBool() {
		var sc SpendCondition
		sc.DecodeFrom(d)
		lr.Type = sc
	} else {
		var dg Digest
		dg.DecodeFrom(d)
		lr.Type = dg
	}
}

// EncodeTo implements EncoderTo.
func (nd NoteData) EncodeTo(e *Encoder) {
	EncodeMap(e, nd.Data)
}

// DecodeFrom implements DecoderFrom.
func (nd *NoteData) DecodeFrom(d *Decoder) {
	DecodeMap(d, &nd.Data)
}

// EncodeTo implements EncoderTo.
func (n V1Note) EncodeTo(e *Encoder) {
	n.Version.EncodeTo(e)
	n.OriginPage.EncodeTo(e)
	n.Name.EncodeTo(e)
	n.Data.EncodeTo(e)
	n.Assets.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (n *V1Note) DecodeFrom(d *Decoder) {
	n.Version.DecodeFrom(d)
	n.OriginPage.DecodeFrom(d)
	n.Name.DecodeFrom(d)
	n.Data.DecodeFrom(d)
	n.Assets.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (n Note) EncodeTo(e *Encoder) {
	switch v := n.Type.(type) {
	case LegacyNote:
		e.WriteUint8(uint8(V0))
		v.EncodeTo(e)
	case V1Note:
		e.WriteUint8(uint8(V1))
		v.EncodeTo(e)
	default:
		panic("unhandled note type")
	}
}

// DecodeFrom implements DecoderFrom.
func (n *Note) DecodeFrom(d *Decoder) {
	switch tag := d.ReadUint8(); Version(tag) {
	case V0:
		var v LegacyNote
		v.DecodeFrom(d)
		n.Type = v
	case V1:
		var v V1Note
		v.DecodeFrom(d)
		n.Type = v
	default:
		d.SetErr(fmt.Errorf("unknown note version (%v)", tag))
	}
}

// EncodeTo implements EncoderTo.
func (s Seed) EncodeTo(e *Encoder) {
	EncodePtr(e, s.OutputSource)
	s.LockRoot.EncodeTo(e)
	s.Data.EncodeTo(e)
	s.Gift.EncodeTo(e)
	s.ParentHash.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (s *Seed) DecodeFrom(d *Decoder) {
	DecodePtr(d, &s.OutputSource)
	s.LockRoot.DecodeFrom(d)
	s.Data.DecodeFrom(d)
	s.Gift.DecodeFrom(d)
	s.ParentHash.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (s Seeds) EncodeTo(e *Encoder) {
	EncodeSet(e, s.Set)
}

// DecodeFrom implements DecoderFrom.
func (s *Seeds) DecodeFrom(d *Decoder) {
	DecodeSet(d, &s.Set)
}

// EncodeTo implements EncoderTo.
func (mp MerkleProof) EncodeTo(e *Encoder) {
	mp.Root.EncodeTo(e)
	EncodeSlice(e, mp.Path)
}

// DecodeFrom implements DecoderFrom.
func (mp *MerkleProof) DecodeFrom(d *Decoder) {
	mp.Root.DecodeFrom(d)
	DecodeSlice(d, &mp.Path)
}

// EncodeTo implements EncoderTo.
func (lp LockMerkleProof) EncodeTo(e *Encoder) {
	lp.Condition.EncodeTo(e)
	e.WriteUint64(lp.Axis)
	lp.Proof.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (lp *LockMerkleProof) DecodeFrom(d *Decoder) {
	lp.Condition.DecodeFrom(d)
	lp.Axis = d.ReadUint64()
	lp.Proof.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (w Witness) EncodeTo(e *Encoder) {
	w.LockProof.EncodeTo(e)
	EncodeMap(e, w.Signatures)
	EncodeMap(e, w.Preimages)
}

// DecodeFrom implements DecoderFrom.
func (w *Witness) DecodeFrom(d *Decoder) {
	w.LockProof.DecodeFrom(d)
	DecodeMap(d, &w.Signatures)
	DecodeMap(d, &w.Preimages)
}

// EncodeTo implements EncoderTo.
func (s Spend) EncodeTo(e *Encoder) {
	switch v := s.Type.(type) {
	case *SigSpend:
		e.WriteUint8(uint8(V0))
		v.Signature.EncodeTo(e)
		v.Seeds.EncodeTo(e)
		v.Fee.EncodeTo(e)
	case *WitnessSpend:
		e.WriteUint8(uint8(V1))
		v.Witness.EncodeTo(e)
		v.Seeds.EncodeTo(e)
		v.Fee.EncodeTo(e)
	default:
		panic("unhandled spend type")
	}
}

// DecodeFrom implements DecoderFrom.
func (s *Spend) DecodeFrom(d *Decoder) {
	switch tag := d.ReadUint8(); Version(tag) {
	case V0:
		var v SigSpend
		v.Signature.DecodeFrom(d)
		v.Seeds.DecodeFrom(d)
		v.Fee.DecodeFrom(d)
		s.Type = &v
	case V1:
		var v WitnessSpend
		v.Witness.DecodeFrom(d)
		v.Seeds.DecodeFrom(d)
		v.Fee.DecodeFrom(d)
		s.Type = &v
	default:
		d.SetErr(fmt.Errorf("unknown spend version (%v)", tag))
	}
}

// EncodeTo implements EncoderTo.
func (sp Spends) EncodeTo(e *Encoder) {
	EncodeMap(e, sp.M)
}

// DecodeFrom implements DecoderFrom.
func (sp *Spends) DecodeFrom(d *Decoder) {
	DecodeMap(d, &sp.M)
}

// EncodeTo implements EncoderTo.
func (wd WitnessData) EncodeTo(e *Encoder) {
	EncodeMap(e, wd.Data)
}

// DecodeFrom implements DecoderFrom.
func (wd *WitnessData) DecodeFrom(d *Decoder) {
	DecodeMap(d, &wd.Data)
}

// EncodeTo implements EncoderTo.
func (tx RawTx) EncodeTo(e *Encoder) {
	tx.Version.EncodeTo(e)
	tx.ID.EncodeTo(e)
	tx.Spends.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (tx *RawTx) DecodeFrom(d *Decoder) {
	tx.Version.DecodeFrom(d)
	tx.ID.DecodeFrom(d)
	tx.Spends.DecodeFrom(d)
}

// EncodeTo implements EncoderTo.
func (lm LockMetadata) EncodeTo(e *Encoder) {
	lm.Lock.EncodeTo(e)
	e.WriteBool(lm.IncludeData)
}

// DecodeFrom implements DecoderFrom.
func (lm *LockMetadata) DecodeFrom(d *Decoder) {
	lm.Lock.DecodeFrom(d)
	lm.IncludeData = d.ReadBool()
}

// EncodeTo implements EncoderTo.
func (id InputDisplay) EncodeTo(e *Encoder) {
	switch v := id.Type.(type) {
	case nil:
		e.WriteUint8(uint8(V0))
		EncodeMap(e, Map[Name, Sig]{})
	case LegacyInputDisplay:
		e.WriteUint8(uint8(V0))
		EncodeMap(e, v.P)
	case V1InputDisplay:
		e.WriteUint8(uint8(V1))
		EncodeMap(e, v.P)
	default:
		panic("unhandled input display")
	}
}

// DecodeFrom implements DecoderFrom.
func (id *InputDisplay) DecodeFrom(d *Decoder) {
	switch tag := d.ReadUint8(); Version(tag) {
	case V0:
		var v LegacyInputDisplay
		DecodeMap(d, &v.P)
		id.Type = v
	case V1:
		var v V1InputDisplay
		DecodeMap(d, &v.P)
		id.Type = v
	default:
		d.SetErr(fmt.Errorf("unknown input display version (%v)", tag))
	}
}

// EncodeTo implements EncoderTo.
func (td TransactionDisplay) EncodeTo(e *Encoder) {
	td.Inputs.EncodeTo(e)
	EncodeMap(e, td.Outputs)
}

// DecodeFrom implements DecoderFrom.
func (td *TransactionDisplay) DecodeFrom(d *Decoder) {
	td.Inputs.DecodeFrom(d)
	DecodeMap(d, &td.Outputs)
}

// EncodeTo implements EncoderTo.
func (txn Transaction) EncodeTo(e *Encoder) {
	txn.Version.EncodeTo(e)
	txn.ID.EncodeTo(e)
	txn.Spends.EncodeTo(e)
	txn.Display.EncodeTo(e)
	txn.WitnessData.EncodeTo(e)
}

// DecodeFrom implements DecoderFrom.
func (txn *Transaction) DecodeFrom(d *Decoder) {
	txn.Version.DecodeFrom(d)
	txn.ID.DecodeFrom(d)
	txn.Spends.DecodeFrom(d)
	txn.Display.DecodeFrom(d)
	txn.WitnessData.DecodeFrom(d)
}
