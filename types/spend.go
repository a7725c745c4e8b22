package types

// MinFee is the smallest total fee a transaction may carry.
const MinFee Nicks = 256

// A Seed is an output in the making: a gift of assets to a lock root,
// optionally carrying note data, tied to the note being spent.
type Seed struct {
	OutputSource *Source  `json:"outputSource"`
	LockRoot     LockRoot `json:"lockRoot"`
	Data         NoteData `json:"data"`
	Gift         Nicks    `json:"gift"`
	ParentHash   Digest   `json:"parentHash"`
}

// NewSinglePkhSeed returns a seed locked to a single key hash. If
// includeLockData is set, the lock is also recorded in the note data so the
// recipient can spend without out-of-band knowledge.
func NewSinglePkhSeed(pkh Digest, gift Nicks, parentHash Digest, includeLockData bool) Seed {
	var nd NoteData
	if includeLockData {
		nd.PushPkh(SinglePkh(pkh))
	}
	return Seed{
		LockRoot:   LockRootLock(NewPkhCondition(SinglePkh(pkh))),
		Data:       nd,
		Gift:       gift,
		ParentHash: parentHash,
	}
}

// Hash implements Hashable. The output source is omitted, so a seed's
// content digest is stable before and after its destination note is known.
func (s Seed) Hash() Digest {
	return hashTuple(s.LockRoot.Hash(), s.Data.Hash(), s.Gift.Hash(), s.ParentHash)
}

// SigningHash is the digest committed to by signatures; unlike Hash it
// includes the output source.
func (s Seed) SigningHash() Digest {
	return hashTuple(hashSourceOption(s.OutputSource), s.LockRoot.Hash(), s.Data.Hash(), s.Gift.Hash(), s.ParentHash)
}

// Noun implements NounEncoder.
func (s Seed) Noun() Noun {
	return nounChain(nounSourceOption(s.OutputSource), s.LockRoot.Noun(), s.Data.Noun(), s.Gift.Noun(), s.ParentHash.Noun())
}

// Words returns the note data size in words, the unit fees are assessed in.
func (s Seed) Words() uint64 { return s.Data.Words() }

type signingSeedV1 struct{ Seed }

func (s signingSeedV1) Hash() Digest { return s.SigningHash() }

// Seeds is the output set of a spend.
type Seeds struct {
	Set Set[Seed] `json:"set"`
}

// Insert adds a seed, returning false if it was already present.
func (s *Seeds) Insert(seed Seed) bool { return s.Set.Insert(seed) }

// Retain drops all seeds for which keep returns false.
func (s *Seeds) Retain(keep func(Seed) bool) { s.Set.Retain(keep) }

// Len returns the number of seeds.
func (s Seeds) Len() int { return s.Set.Len() }

// Values returns the seeds in canonical traversal order.
func (s Seeds) Values() []Seed { return s.Set.Values() }

// Clone returns a copy that can be mutated independently.
func (s Seeds) Clone() Seeds { return Seeds{Set: s.Set.Clone()} }

// Hash implements Hashable.
func (s Seeds) Hash() Digest { return s.Set.Hash() }

// Noun implements NounEncoder.
func (s Seeds) Noun() Noun { return s.Set.Noun() }

// SigningHash is the set digest committed to by signatures, which includes
// each seed's output source.
func (s Seeds) SigningHash() Digest {
	var set Set[signingSeedV1]
	for _, seed := range s.Values() {
		set.Insert(signingSeedV1{seed})
	}
	return set.Hash()
}

// A MerkleProof locates a leaf under a commitment root.
type MerkleProof struct {
	Root Digest   `json:"root"`
	Path []Digest `json:"path"`
}

// Hash implements Hashable.
func (mp MerkleProof) Hash() Digest {
	return hashPair(mp.Root, hashList(mp.Path))
}

// Noun implements NounEncoder.
func (mp MerkleProof) Noun() Noun {
	ns := make([]Noun, len(mp.Path))
	for i, d := range mp.Path {
		ns[i] = d.Noun()
	}
	return Cell(mp.Root.Noun(), nounList(ns...))
}

// axisMoldHash is folded into every lock proof digest by consensus.
var axisMoldHash = mustParseDigest("6mhCSwJQDvbkbiPAUNjetJtVoo1VLtEhmEYoU4hmdGd6ep1F6ayaV4A")

// A LockMerkleProof reveals a spend condition and proves its place under
// the lock root.
type LockMerkleProof struct {
	Condition SpendCondition `json:"condition"`
	Axis      uint64         `json:"axis"`
	Proof     MerkleProof    `json:"proof"`
}

// Hash implements Hashable.
func (lp LockMerkleProof) Hash() Digest {
	return hashTuple(lp.Condition.Hash(), axisMoldHash, lp.Proof.Hash())
}

// Noun implements NounEncoder.
func (lp LockMerkleProof) Noun() Noun {
	return nounChain(lp.Condition.Noun(), Atom(lp.Axis), lp.Proof.Noun())
}

// A Witness satisfies a spend condition: it reveals the condition and
// gathers the signatures and preimages its clauses demand.
type Witness struct {
	LockProof  LockMerkleProof          `json:"lockProof"`
	Signatures Map[Digest, KeySignature] `json:"signatures"`
	Preimages  Map[Digest, Noun]         `json:"preimages"`
}

// NewWitness returns a witness for a condition sitting alone under its lock
// root: the proof path is empty and the root is the condition hash.
func NewWitness(sc SpendCondition) Witness {
	return Witness{
		LockProof: LockMerkleProof{
			Condition: sc,
			Axis:      1,
			Proof:     MerkleProof{Root: sc.Hash()},
		},
	}
}

// TakeData moves the gathered signatures and preimages into a new witness
// carrying the same lock proof, leaving w with the proof only.
func (w *Witness) TakeData() Witness {
	taken := Witness{
		LockProof:  w.LockProof,
		Signatures: w.Signatures,
		Preimages:  w.Preimages,
	}
	w.Signatures = Map[Digest, KeySignature]{}
	w.Preimages = Map[Digest, Noun]{}
	return taken
}

// Hash implements Hashable.
func (w Witness) Hash() Digest {
	return hashTuple(w.LockProof.Hash(), w.Signatures.Hash(), w.Preimages.Hash(), HashUint64(0))
}

// Noun implements NounEncoder.
func (w Witness) Noun() Noun {
	return nounChain(w.LockProof.Noun(), w.Signatures.Noun(), w.Preimages.Noun(), Atom(0))
}

// A SigSpend authorizes a spend with legacy key-set signatures.
type SigSpend struct {
	Signature LegacySignature `json:"signature"`
	Seeds     Seeds           `json:"seeds"`
	Fee       Nicks           `json:"fee"`
}

// A WitnessSpend authorizes a spend with a witness against a lock root.
type WitnessSpend struct {
	Witness Witness `json:"witness"`
	Seeds   Seeds   `json:"seeds"`
	Fee     Nicks   `json:"fee"`
}

// A Spend moves a note's assets into seeds, authorized either by legacy
// signatures or by a witness.
type Spend struct {
	Type interface {
		isSpend()
	}
}

func (*SigSpend) isSpend()     {}
func (*WitnessSpend) isSpend() {}

// NewSigSpend returns an empty legacy-authorized spend.
func NewSigSpend(seeds Seeds, fee Nicks) Spend {
	return Spend{Type: &SigSpend{Seeds: seeds, Fee: fee}}
}

// NewWitnessSpend returns a witness-authorized spend.
func NewWitnessSpend(w Witness, seeds Seeds, fee Nicks) Spend {
	return Spend{Type: &WitnessSpend{Witness: w, Seeds: seeds, Fee: fee}}
}

// Version returns the authorization generation of the spend.
func (s Spend) Version() Version {
	switch s.Type.(type) {
	case *SigSpend:
		return V0
	case *WitnessSpend:
		return V1
	default:
		panic("unhandled spend type")
	}
}

// Fee returns the fee portion carried by this spend.
func (s Spend) Fee() Nicks {
	switch v := s.Type.(type) {
	case *SigSpend:
		return v.Fee
	case *WitnessSpend:
		return v.Fee
	default:
		panic("unhandled spend type")
	}
}

// SetFee replaces the fee portion.
func (s Spend) SetFee(fee Nicks) {
	switch v := s.Type.(type) {
	case *SigSpend:
		v.Fee = fee
	case *WitnessSpend:
		v.Fee = fee
	default:
		panic("unhandled spend type")
	}
}

// Seeds returns the spend's output set.
func (s Spend) Seeds() *Seeds {
	switch v := s.Type.(type) {
	case *SigSpend:
		return &v.Seeds
	case *WitnessSpend:
		return &v.Seeds
	default:
		panic("unhandled spend type")
	}
}

// SigningHash is the digest that keys sign: the seed signing set paired with
// the fee.
func (s Spend) SigningHash() Digest {
	return hashPair(s.Seeds().SigningHash(), s.Fee().Hash())
}

// AddSignature records a signature. Witness spends key it by the signer's
// key hash.
func (s Spend) AddSignature(pk PublicKey, sig Signature) {
	switch v := s.Type.(type) {
	case *SigSpend:
		v.Signature.Add(pk, sig)
	case *WitnessSpend:
		v.Witness.Signatures.Insert(pk.Hash(), KeySignature{Key: pk, Signature: sig})
	default:
		panic("unhandled spend type")
	}
}

// AddPreimage records a revealed preimage, returning its digest. Legacy
// spends carry no preimages.
func (s Spend) AddPreimage(preimage Noun) Digest {
	digest := preimage.Hash()
	if v, ok := s.Type.(*WitnessSpend); ok {
		v.Witness.Preimages.Insert(digest, preimage)
	}
	return digest
}

// ClearSignatures drops all recorded signatures. Preimages are kept.
func (s Spend) ClearSignatures() {
	switch v := s.Type.(type) {
	case *SigSpend:
		v.Signature.Clear()
	case *WitnessSpend:
		v.Witness.Signatures = Map[Digest, KeySignature]{}
	default:
		panic("unhandled spend type")
	}
}

// Hash implements Hashable.
func (s Spend) Hash() Digest {
	switch v := s.Type.(type) {
	case *SigSpend:
		return hashTuple(V0.Hash(), v.Signature.Hash(), v.Seeds.Hash(), v.Fee.Hash())
	case *WitnessSpend:
		return hashTuple(V1.Hash(), v.Witness.Hash(), v.Seeds.Hash(), v.Fee.Hash())
	default:
		panic("unhandled spend type")
	}
}

// Noun implements NounEncoder.
func (s Spend) Noun() Noun {
	switch v := s.Type.(type) {
	case *SigSpend:
		return nounChain(V0.Noun(), v.Signature.Noun(), v.Seeds.Noun(), v.Fee.Noun())
	case *WitnessSpend:
		return nounChain(V1.Noun(), v.Witness.Noun(), v.Seeds.Noun(), v.Fee.Noun())
	default:
		panic("unhandled spend type")
	}
}

// CalcWords returns the fee-assessed size of the spend: the note data words
// of its seeds and the words of its authorization.
func (s Spend) CalcWords() (seedWords, authWords uint64) {
	for _, seed := range s.Seeds().Values() {
		seedWords += seed.Words()
	}
	switch v := s.Type.(type) {
	case *SigSpend:
		authWords = v.Signature.Noun().Words()
	case *WitnessSpend:
		authWords = v.Witness.Noun().Words()
	default:
		panic("unhandled spend type")
	}
	return
}

// UnclampedFee returns the fee this spend owes at the given rate, before the
// transaction-wide minimum is applied.
func (s Spend) UnclampedFee(perWord Nicks) Nicks {
	seedWords, authWords := s.CalcWords()
	return perWord * Nicks(seedWords+authWords)
}

// Clone returns a deep copy of the spend.
func (s Spend) Clone() Spend {
	switch v := s.Type.(type) {
	case *SigSpend:
		c := *v
		c.Signature = append(LegacySignature(nil), v.Signature...)
		c.Seeds = v.Seeds.Clone()
		return Spend{Type: &c}
	case *WitnessSpend:
		c := *v
		c.Witness.Signatures = v.Witness.Signatures.Clone()
		c.Witness.Preimages = v.Witness.Preimages.Clone()
		c.Seeds = v.Seeds.Clone()
		return Spend{Type: &c}
	default:
		panic("unhandled spend type")
	}
}

// FeeForMany sums the unclamped fees of the given spends and applies the
// transaction-wide minimum.
func FeeForMany(spends []Spend, perWord Nicks) Nicks {
	var fee Nicks
	for _, s := range spends {
		fee += s.UnclampedFee(perWord)
	}
	if fee < MinFee {
		return MinFee
	}
	return fee
}

// Spends is the input map of a transaction, keyed by the name of the note
// each spend consumes.
type Spends struct {
	M Map[Name, Spend] `json:"m"`
}

// Insert adds a spend under the given note name.
func (sp *Spends) Insert(name Name, s Spend) bool { return sp.M.Insert(name, s) }

// Fee sums the unclamped fees of all spends at the given rate and applies
// the transaction-wide minimum.
func (sp Spends) Fee(perWord Nicks) Nicks {
	var spends []Spend
	for _, e := range sp.M.Entries() {
		spends = append(spends, e.Value)
	}
	return FeeForMany(spends, perWord)
}

// Hash implements Hashable.
func (sp Spends) Hash() Digest { return sp.M.Hash() }

// Noun implements NounEncoder.
func (sp Spends) Noun() Noun { return sp.M.Noun() }

// SplitWitness separates the gathered signatures and preimages from the
// spends, leaving each witness spend with its lock proof only. The removed
// data is returned keyed by note name, ready to travel beside the
// transaction.
func (sp Spends) SplitWitness() (Spends, WitnessData) {
	var spends Spends
	var wd WitnessData
	for _, e := range sp.M.Entries() {
		spend := e.Value.Clone()
		if v, ok := spend.Type.(*WitnessSpend); ok {
			wd.Data.Insert(e.Key, v.Witness.TakeData())
		}
		spends.Insert(e.Key, spend)
	}
	return spends, wd
}

// ApplyWitness returns a copy of the spends with each witness replaced by
// the one recorded under its note name, reversing SplitWitness.
func (sp Spends) ApplyWitness(wd WitnessData) Spends {
	var spends Spends
	for _, e := range sp.M.Entries() {
		spend := e.Value.Clone()
		if v, ok := spend.Type.(*WitnessSpend); ok {
			if w, ok := wd.Data.Get(e.Key); ok {
				v.Witness = w
			}
		}
		spends.Insert(e.Key, spend)
	}
	return spends
}

// WitnessData carries the signatures and preimages of a transaction's
// spends, keyed by note name.
type WitnessData struct {
	Data Map[Name, Witness] `json:"data"`
}

// Noun implements NounEncoder.
func (wd WitnessData) Noun() Noun {
	return Cell(Atom(uint64(V1)), wd.Data.Noun())
}
