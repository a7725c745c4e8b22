package types

import "fmt"

// A BlockHeight identifies a position in the chain.
type BlockHeight uint32

// Hash implements Hashable.
func (h BlockHeight) Hash() Digest { return HashUint64(uint64(h)) }

// Noun implements NounEncoder.
func (h BlockHeight) Noun() Noun { return Atom(uint64(h)) }

// NicksPerNock is the number of nicks in one nock, the unit amounts are
// displayed in.
const NicksPerNock = 65536

// Nicks is the atomic unit of value carried by notes.
type Nicks uint64

// SaturatingSub returns n - m, clamped at zero.
func (n Nicks) SaturatingSub(m Nicks) Nicks {
	if m > n {
		return 0
	}
	return n - m
}

// Parts splits n into whole nocks and the remaining nicks.
func (n Nicks) Parts() (uint64, Nicks) {
	return uint64(n) / NicksPerNock, n % NicksPerNock
}

// String implements fmt.Stringer.
func (n Nicks) String() string {
	nocks, nicks := n.Parts()
	return fmt.Sprintf("%d.%d", nocks, nicks)
}

// Hash implements Hashable.
func (n Nicks) Hash() Digest { return HashUint64(uint64(n)) }

// Noun implements NounEncoder.
func (n Nicks) Noun() Noun { return Atom(uint64(n)) }

// A Version distinguishes note and transaction generations.
type Version uint32

// The known versions. V0 is the legacy generation, owned by public key sets;
// V1 notes are owned by lock roots.
const (
	V0 Version = iota
	V1
	V2
)

// Hash implements Hashable.
func (v Version) Hash() Digest { return HashUint64(uint64(v)) }

// Noun implements NounEncoder.
func (v Version) Noun() Noun { return Atom(uint64(v)) }

// A Source commits to the provenance of a note: the hash of the seed set
// that created it, or the coinbase marker.
type Source struct {
	Hash       Digest `json:"hash"`
	IsCoinbase bool   `json:"isCoinbase"`
}

func hashSource(s Source) Digest {
	return hashPair(s.Hash, hashBool(s.IsCoinbase))
}

// Noun implements NounEncoder.
func (s Source) Noun() Noun {
	return Cell(s.Hash.Noun(), nounBool(s.IsCoinbase))
}

// A TimelockRange constrains spending to a window of block heights. A nil
// bound is unconstrained.
type TimelockRange struct {
	Min *BlockHeight `json:"min"`
	Max *BlockHeight `json:"max"`
}

// NewTimelockRange builds a range from optional bounds. A bound at height
// zero is treated as absent.
func NewTimelockRange(min, max *BlockHeight) TimelockRange {
	if min != nil && *min == 0 {
		min = nil
	}
	if max != nil && *max == 0 {
		max = nil
	}
	return TimelockRange{Min: min, Max: max}
}

func hashHeightOption(h *BlockHeight) Digest {
	if h == nil {
		return HashUint64(0)
	}
	d := h.Hash()
	return hashOption(&d)
}

func nounHeightOption(h *BlockHeight) Noun {
	if h == nil {
		return Atom(0)
	}
	return Cell(Atom(0), h.Noun())
}

// Hash implements Hashable.
func (tr TimelockRange) Hash() Digest {
	return hashPair(hashHeightOption(tr.Min), hashHeightOption(tr.Max))
}

// Noun implements NounEncoder.
func (tr TimelockRange) Noun() Noun {
	return Cell(nounHeightOption(tr.Min), nounHeightOption(tr.Max))
}

// A Timelock pairs a relative and an absolute height constraint.
type Timelock struct {
	Rel TimelockRange `json:"rel"`
	Abs TimelockRange `json:"abs"`
}

// CoinbaseTimelock returns the lock applied to coinbase outputs: spendable
// no sooner than 100 blocks after creation.
func CoinbaseTimelock() Timelock {
	min := BlockHeight(100)
	return Timelock{Rel: NewTimelockRange(&min, nil)}
}

// Hash implements Hashable.
func (t Timelock) Hash() Digest { return hashPair(t.Rel.Hash(), t.Abs.Hash()) }

// Noun implements NounEncoder.
func (t Timelock) Noun() Noun { return Cell(t.Rel.Noun(), t.Abs.Noun()) }

// A TimelockIntent optionally requests a timelock on an output.
type TimelockIntent struct {
	Tim *Timelock `json:"tim"`
}

// Hash implements Hashable.
func (ti TimelockIntent) Hash() Digest {
	if ti.Tim == nil {
		return HashUint64(0)
	}
	d := ti.Tim.Hash()
	return hashOption(&d)
}

// Noun implements NounEncoder.
func (ti TimelockIntent) Noun() Noun {
	if ti.Tim == nil {
		return Atom(0)
	}
	return Cell(Atom(0), ti.Tim.Noun())
}

// A Name identifies a note. The first digest commits to the owning lock, the
// last to the note's source; a trailing zero atom closes the form.
type Name struct {
	First Digest `json:"first"`
	Last  Digest `json:"last"`
}

// NewName constructs a Name from its two digests.
func NewName(first, last Digest) Name {
	return Name{First: first, Last: last}
}

// V1Name derives the name of a v1 note from its lock root hash and source.
func V1Name(lock Digest, source Source) Name {
	first := hashPair(hashBool(true), lock)
	last := hashTuple(hashBool(true), hashSource(source), HashUint64(0))
	return NewName(first, last)
}

// LegacyName derives the name of a legacy note from its owner set, source,
// and timelock intent.
func LegacyName(owners Sig, source Source, timelock TimelockIntent) Name {
	first := hashTuple(hashBool(true), hashBool(timelock.Tim != nil), owners.Hash(), HashUint64(0))
	last := hashTuple(hashBool(true), hashSource(source), timelock.Hash(), HashUint64(0))
	return NewName(first, last)
}

// Cmp compares names first-digest foremost.
func (n Name) Cmp(other Name) int {
	if c := n.First.Cmp(other.First); c != 0 {
		return c
	}
	return n.Last.Cmp(other.Last)
}

// Hash implements Hashable.
func (n Name) Hash() Digest {
	return hashTuple(n.First, n.Last, HashUint64(0))
}

// Noun implements NounEncoder.
func (n Name) Noun() Noun {
	return nounChain(n.First.Noun(), n.Last.Noun(), Atom(0))
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return fmt.Sprintf("[%v %v]", n.First, n.Last)
}

// A LegacyNote is a v0 output, owned by a public key set and optionally
// timelocked.
type LegacyNote struct {
	Version    Version        `json:"version"`
	OriginPage BlockHeight    `json:"originPage"`
	Timelock   TimelockIntent `json:"timelock"`
	Name       Name           `json:"name"`
	Owners     Sig            `json:"owners"`
	Source     Source         `json:"source"`
	Assets     Nicks          `json:"assets"`
}

func (n LegacyNote) inner() (Digest, Noun) {
	h := hashTuple(n.Version.Hash(), n.OriginPage.Hash(), n.Timelock.Hash())
	nn := nounChain(n.Version.Noun(), n.OriginPage.Noun(), n.Timelock.Noun())
	return h, nn
}

// Hash implements Hashable.
func (n LegacyNote) Hash() Digest {
	inner, _ := n.inner()
	return hashTuple(inner, n.Name.Hash(), n.Owners.Hash(), hashSource(n.Source), n.Assets.Hash())
}

// Noun implements NounEncoder.
func (n LegacyNote) Noun() Noun {
	_, inner := n.inner()
	return nounChain(inner, n.Name.Noun(), n.Owners.Noun(), n.Source.Noun(), n.Assets.Noun())
}

// A V1Note is an output owned by a lock root, carrying arbitrary note data.
type V1Note struct {
	Version    Version     `json:"version"`
	OriginPage BlockHeight `json:"originPage"`
	Name       Name        `json:"name"`
	Data       NoteData    `json:"data"`
	Assets     Nicks       `json:"assets"`
}

// Hash implements Hashable.
func (n V1Note) Hash() Digest {
	return hashTuple(n.Version.Hash(), n.OriginPage.Hash(), n.Name.Hash(), n.Data.Hash(), n.Assets.Hash())
}

// Noun implements NounEncoder.
func (n V1Note) Noun() Noun {
	return nounChain(n.Version.Noun(), n.OriginPage.Noun(), n.Name.Noun(), n.Data.Noun(), n.Assets.Noun())
}

// A Note is a spendable output of either generation.
type Note struct {
	Type interface {
		isNote()
	}
}

func (LegacyNote) isNote() {}
func (V1Note) isNote()     {}

// Version returns the generation of the note.
func (n Note) Version() Version {
	switch n.Type.(type) {
	case LegacyNote:
		return V0
	case V1Note:
		return V1
	default:
		panic("unhandled note type")
	}
}

// Name returns the note's name.
func (n Note) Name() Name {
	switch v := n.Type.(type) {
	case LegacyNote:
		return v.Name
	case V1Note:
		return v.Name
	default:
		panic("unhandled note type")
	}
}

// Assets returns the value carried by the note.
func (n Note) Assets() Nicks {
	switch v := n.Type.(type) {
	case LegacyNote:
		return v.Assets
	case V1Note:
		return v.Assets
	default:
		panic("unhandled note type")
	}
}

// OriginPage returns the height at which the note was created.
func (n Note) OriginPage() BlockHeight {
	switch v := n.Type.(type) {
	case LegacyNote:
		return v.OriginPage
	case V1Note:
		return v.OriginPage
	default:
		panic("unhandled note type")
	}
}

// Hash implements Hashable.
func (n Note) Hash() Digest {
	switch v := n.Type.(type) {
	case LegacyNote:
		return v.Hash()
	case V1Note:
		return v.Hash()
	default:
		panic("unhandled note type")
	}
}

// Noun implements NounEncoder.
func (n Note) Noun() Noun {
	switch v := n.Type.(type) {
	case LegacyNote:
		return v.Noun()
	case V1Note:
		return v.Noun()
	default:
		panic("unhandled note type")
	}
}
