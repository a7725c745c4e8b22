package types

// A Pkh requires signatures by m of the listed key hashes.
type Pkh struct {
	M      uint64      `json:"m"`
	Hashes Set[Digest] `json:"hashes"`
}

// NewPkh returns a lock requiring m signatures from the given key hashes.
func NewPkh(m uint64, hashes []Digest) Pkh {
	return Pkh{M: m, Hashes: SetOf(hashes...)}
}

// SinglePkh returns a lock requiring a signature by one key hash.
func SinglePkh(hash Digest) Pkh {
	return NewPkh(1, []Digest{hash})
}

// Hash implements Hashable.
func (p Pkh) Hash() Digest {
	return hashPair(HashUint64(p.M), p.Hashes.Hash())
}

// Noun implements NounEncoder.
func (p Pkh) Noun() Noun {
	return Cell(Atom(p.M), p.Hashes.Noun())
}

// A Hax requires revealing the preimages of the listed digests.
type Hax struct {
	Hashes Set[Digest] `json:"hashes"`
}

// Hash implements Hashable.
func (h Hax) Hash() Digest { return h.Hashes.Hash() }

// Noun implements NounEncoder.
func (h Hax) Noun() Noun { return h.Hashes.Noun() }

// A Burn makes a note unspendable.
type Burn struct{}

// A LockPrimitive is one clause of a spend condition: a key-hash threshold,
// a timelock, a preimage challenge, or a burn.
type LockPrimitive struct {
	Type interface {
		isLockPrimitive()
	}
}

func (Pkh) isLockPrimitive()      {}
func (Timelock) isLockPrimitive() {}
func (Hax) isLockPrimitive()      {}
func (Burn) isLockPrimitive()     {}

// Lock primitive tags, as they appear in the noun form.
const (
	tagPkh Term = "pkh"
	tagTim Term = "tim"
	tagHax Term = "hax"
	tagBrn Term = "brn"
)

// Hash implements Hashable.
func (lp LockPrimitive) Hash() Digest {
	switch v := lp.Type.(type) {
	case Pkh:
		return hashPair(tagPkh.Hash(), v.Hash())
	case Timelock:
		return hashPair(tagTim.Hash(), v.Hash())
	case Hax:
		return hashPair(tagHax.Hash(), v.Hash())
	case Burn:
		return hashPair(tagBrn.Hash(), HashUint64(0))
	default:
		panic("unhandled lock primitive")
	}
}

// Noun implements NounEncoder.
func (lp LockPrimitive) Noun() Noun {
	switch v := lp.Type.(type) {
	case Pkh:
		return Cell(tagPkh.Noun(), v.Noun())
	case Timelock:
		return Cell(tagTim.Noun(), v.Noun())
	case Hax:
		return Cell(tagHax.Noun(), v.Noun())
	case Burn:
		return Cell(tagBrn.Noun(), Atom(0))
	default:
		panic("unhandled lock primitive")
	}
}

// A SpendCondition is the conjunction of lock primitives that must all be
// satisfied to spend a note.
type SpendCondition []LockPrimitive

// NewPkhCondition returns a condition with a single key-hash clause.
func NewPkhCondition(pkh Pkh) SpendCondition {
	return SpendCondition{{Type: pkh}}
}

// Hash implements Hashable.
func (sc SpendCondition) Hash() Digest {
	ds := make([]Digest, len(sc))
	for i, lp := range sc {
		ds[i] = lp.Hash()
	}
	return hashList(ds)
}

// Noun implements NounEncoder.
func (sc SpendCondition) Noun() Noun {
	ns := make([]Noun, len(sc))
	for i, lp := range sc {
		ns[i] = lp.Noun()
	}
	return nounList(ns...)
}

// FirstName returns the name prefix of notes owned by this condition.
func (sc SpendCondition) FirstName() Digest {
	return hashPair(hashBool(true), sc.Hash())
}

// Pkh returns the key-hash clauses of the condition.
func (sc SpendCondition) Pkh() []Pkh {
	var ps []Pkh
	for _, lp := range sc {
		if p, ok := lp.Type.(Pkh); ok {
			ps = append(ps, p)
		}
	}
	return ps
}

// Tim returns the timelock clauses of the condition.
func (sc SpendCondition) Tim() []Timelock {
	var ts []Timelock
	for _, lp := range sc {
		if t, ok := lp.Type.(Timelock); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// Hax returns the preimage clauses of the condition.
func (sc SpendCondition) Hax() []Hax {
	var hs []Hax
	for _, lp := range sc {
		if h, ok := lp.Type.(Hax); ok {
			hs = append(hs, h)
		}
	}
	return hs
}

// Burn reports whether the condition contains a burn clause.
func (sc SpendCondition) Burn() bool {
	for _, lp := range sc {
		if _, ok := lp.Type.(Burn); ok {
			return true
		}
	}
	return false
}

// A LockRoot commits to the condition guarding a seed's output, either as a
// bare digest or as the condition itself. Both forms hash and encode
// identically, so carrying the condition reveals it without changing any
// commitment.
type LockRoot struct {
	Type interface {
		isLockRoot()
	}
}

func (Digest) isLockRoot()         {}
func (SpendCondition) isLockRoot() {}

// LockRootHash returns a root committing to an opaque digest.
func LockRootHash(d Digest) LockRoot {
	return LockRoot{Type: d}
}

// LockRootLock returns a root carrying the condition in the clear.
func LockRootLock(sc SpendCondition) LockRoot {
	return LockRoot{Type: sc}
}

// Hash implements Hashable.
func (lr LockRoot) Hash() Digest {
	switch v := lr.Type.(type) {
	case Digest:
		return v
	case SpendCondition:
		return v.Hash()
	default:
		panic("unhandled lock root")
	}
}

// Noun implements NounEncoder. Both variants encode as the root digest.
func (lr LockRoot) Noun() Noun {
	return lr.Hash().Noun()
}

// Lock returns the condition carried by the root, if it is in the clear.
func (lr LockRoot) Lock() (SpendCondition, bool) {
	sc, ok := lr.Type.(SpendCondition)
	return sc, ok
}

// nounPairHash digests a noun pairwise: atoms hash as scalars and cells as
// the pair of their sides. This is distinct from Noun.Hash, which commits to
// the leaves and shape in one absorb.
func nounPairHash(n Noun) Digest {
	if n.IsAtom() {
		return HashUint64(n.AtomValue())
	}
	return hashPair(nounPairHash(n.Head()), nounPairHash(n.Tail()))
}

// The key under which a note's lock information is recorded.
const lockTerm Term = "lock"

// NoteData carries arbitrary key/value pairs attached to a note.
type NoteData struct {
	Data Map[Term, Noun] `json:"data"`
}

// NoteDataFromPkh returns note data recording the given key-hash lock.
func NoteDataFromPkh(pkh Pkh) NoteData {
	var nd NoteData
	nd.PushPkh(pkh)
	return nd
}

// PushPkh records a key-hash lock under the lock key. An existing entry is
// left untouched.
func (nd *NoteData) PushPkh(pkh Pkh) {
	v := nounChain(Atom(0), Cell(tagPkh.Noun(), pkh.Noun()), Atom(0))
	nd.Data.Insert(lockTerm, v)
}

// PushLock records a full spend condition under the lock key. An existing
// entry is left untouched.
func (nd *NoteData) PushLock(sc SpendCondition) {
	nd.Data.Insert(lockTerm, Cell(Atom(0), sc.Noun()))
}

// Hash implements Hashable. Values are committed pairwise rather than by
// their full noun digest.
func (nd NoteData) Hash() Digest {
	var m Map[Term, Digest]
	for _, e := range nd.Data.Entries() {
		m.Insert(e.Key, nounPairHash(e.Value))
	}
	return m.Hash()
}

// Noun implements NounEncoder.
func (nd NoteData) Noun() Noun { return nd.Data.Noun() }

// Words returns the size of the note data in words, the unit fees are
// assessed in.
func (nd NoteData) Words() uint64 { return nd.Noun().Words() }
