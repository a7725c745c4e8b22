package types

import "sort"

// A Sig is a legacy owner set: any m of the listed keys may spend.
type Sig struct {
	M          uint64      `json:"m"`
	PublicKeys []PublicKey `json:"publicKeys"`
}

// SingleSig returns an owner set spendable by one key.
func SingleSig(pk PublicKey) Sig {
	return Sig{M: 1, PublicKeys: []PublicKey{pk}}
}

func (s Sig) keySet() Set[PublicKey] {
	return SetOf(s.PublicKeys...)
}

// Hash implements Hashable. The key list hashes as a set, so ordering does
// not matter.
func (s Sig) Hash() Digest {
	return hashPair(HashUint64(s.M), s.keySet().Hash())
}

// Noun implements NounEncoder.
func (s Sig) Noun() Noun {
	return Cell(Atom(s.M), s.keySet().Noun())
}

// Cmp orders owner sets by threshold, then by their keys.
func (s Sig) Cmp(other Sig) int {
	switch {
	case s.M < other.M:
		return -1
	case s.M > other.M:
		return 1
	}
	for i := range s.PublicKeys {
		if i >= len(other.PublicKeys) {
			return 1
		}
		if c := s.PublicKeys[i].Cmp(other.PublicKeys[i]); c != 0 {
			return c
		}
	}
	if len(s.PublicKeys) < len(other.PublicKeys) {
		return -1
	}
	return 0
}

// A KeySignature pairs a public key with a signature it produced.
type KeySignature struct {
	Key       PublicKey `json:"key"`
	Signature Signature `json:"signature"`
}

// Hash implements Hashable.
func (ks KeySignature) Hash() Digest {
	return hashPair(ks.Key.Hash(), ks.Signature.Hash())
}

// Noun implements NounEncoder.
func (ks KeySignature) Noun() Noun {
	return Cell(ks.Key.Noun(), ks.Signature.Noun())
}

// A LegacySignature collects the signatures gathered for a legacy spend.
type LegacySignature []KeySignature

// Add appends a signature by pk.
func (ls *LegacySignature) Add(pk PublicKey, sig Signature) {
	*ls = append(*ls, KeySignature{Key: pk, Signature: sig})
}

// Clear drops all gathered signatures.
func (ls *LegacySignature) Clear() { *ls = nil }

func (ls LegacySignature) sigMap() Map[PublicKey, Signature] {
	var m Map[PublicKey, Signature]
	for _, ks := range ls {
		m.Insert(ks.Key, ks.Signature)
	}
	return m
}

// Hash implements Hashable.
func (ls LegacySignature) Hash() Digest { return ls.sigMap().Hash() }

// Noun implements NounEncoder.
func (ls LegacySignature) Noun() Noun { return ls.sigMap().Noun() }

// A LegacySeed is a v0 output in the making, addressed to an owner set.
type LegacySeed struct {
	OutputSource   *Source        `json:"outputSource"`
	Recipient      Sig            `json:"recipient"`
	TimelockIntent TimelockIntent `json:"timelockIntent"`
	Gift           Nicks          `json:"gift"`
	ParentHash     Digest         `json:"parentHash"`
}

// NewLegacySeed returns a seed giving gift to a single key.
func NewLegacySeed(pk PublicKey, gift Nicks, parentHash Digest) LegacySeed {
	return LegacySeed{
		Recipient:  SingleSig(pk),
		Gift:       gift,
		ParentHash: parentHash,
	}
}

func hashSourceOption(s *Source) Digest {
	if s == nil {
		return HashUint64(0)
	}
	d := hashSource(*s)
	return hashOption(&d)
}

func nounSourceOption(s *Source) Noun {
	if s == nil {
		return Atom(0)
	}
	return Cell(Atom(0), s.Noun())
}

// Hash implements Hashable. The output source is omitted, so a seed's
// content digest is stable before and after its destination note is known.
func (s LegacySeed) Hash() Digest {
	return hashTuple(s.Recipient.Hash(), s.TimelockIntent.Hash(), s.Gift.Hash(), s.ParentHash)
}

// SigningHash is the digest committed to by signatures; unlike Hash it
// includes the output source.
func (s LegacySeed) SigningHash() Digest {
	return hashTuple(hashSourceOption(s.OutputSource), s.Recipient.Hash(), s.TimelockIntent.Hash(), s.Gift.Hash(), s.ParentHash)
}

// Noun implements NounEncoder.
func (s LegacySeed) Noun() Noun {
	return nounChain(nounSourceOption(s.OutputSource), s.Recipient.Noun(), s.TimelockIntent.Noun(), s.Gift.Noun(), s.ParentHash.Noun())
}

// signingSeed hashes as the signing digest but keeps the seed's noun form,
// so the signing set places entries exactly where the content set does.
type signingSeed struct{ LegacySeed }

func (s signingSeed) Hash() Digest { return s.SigningHash() }

// LegacySeeds is the seed list of a legacy spend.
type LegacySeeds []LegacySeed

func (ls LegacySeeds) contentSet() Set[LegacySeed] {
	return SetOf(ls...)
}

// Hash implements Hashable.
func (ls LegacySeeds) Hash() Digest { return ls.contentSet().Hash() }

// Noun implements NounEncoder.
func (ls LegacySeeds) Noun() Noun { return ls.contentSet().Noun() }

// SigningHash is the set digest committed to by signatures.
func (ls LegacySeeds) SigningHash() Digest {
	var set Set[signingSeed]
	for _, s := range ls {
		set.Insert(signingSeed{s})
	}
	return set.Hash()
}

// A LegacySpend authorizes moving a legacy note's assets into seeds.
type LegacySpend struct {
	Signature *LegacySignature `json:"signature"`
	Seeds     LegacySeeds      `json:"seeds"`
	Fee       Nicks            `json:"fee"`
}

// SigningHash is the digest that owners sign: the seed signing set paired
// with the fee.
func (s LegacySpend) SigningHash() Digest {
	return hashPair(s.Seeds.SigningHash(), s.Fee.Hash())
}

func (s LegacySpend) hashSignatureOption() Digest {
	if s.Signature == nil {
		return HashUint64(0)
	}
	d := s.Signature.Hash()
	return hashOption(&d)
}

// Hash implements Hashable.
func (s LegacySpend) Hash() Digest {
	return hashTuple(s.hashSignatureOption(), s.Seeds.Hash(), s.Fee.Hash())
}

// Noun implements NounEncoder.
func (s LegacySpend) Noun() Noun {
	sig := Atom(0)
	if s.Signature != nil {
		sig = Cell(Atom(0), s.Signature.Noun())
	}
	return nounChain(sig, s.Seeds.Noun(), s.Fee.Noun())
}

// A LegacyInput pairs a legacy note with the spend consuming it.
type LegacyInput struct {
	Note  LegacyNote  `json:"note"`
	Spend LegacySpend `json:"spend"`
}

// Hash implements Hashable.
func (in LegacyInput) Hash() Digest {
	return hashPair(in.Note.Hash(), in.Spend.Hash())
}

// Noun implements NounEncoder.
func (in LegacyInput) Noun() Noun {
	return Cell(in.Note.Noun(), in.Spend.Noun())
}

// A NamedLegacyInput is an input entry keyed by the consumed note's name.
type NamedLegacyInput struct {
	Name  Name        `json:"name"`
	Input LegacyInput `json:"input"`
}

// LegacyInputs is the input list of a legacy transaction.
type LegacyInputs []NamedLegacyInput

func (li LegacyInputs) inputMap() Map[Name, LegacyInput] {
	var m Map[Name, LegacyInput]
	for _, e := range li {
		m.Insert(e.Name, e.Input)
	}
	return m
}

// Hash implements Hashable.
func (li LegacyInputs) Hash() Digest { return li.inputMap().Hash() }

// Noun implements NounEncoder.
func (li LegacyInputs) Noun() Noun { return li.inputMap().Noun() }

// A LegacyRawTx is a v0 transaction.
type LegacyRawTx struct {
	ID            TransactionID `json:"id"`
	Inputs        LegacyInputs  `json:"inputs"`
	TimelockRange TimelockRange `json:"timelockRange"`
	TotalFees     Nicks         `json:"totalFees"`
}

// NewLegacyRawTx assembles a legacy transaction and computes its ID.
func NewLegacyRawTx(inputs LegacyInputs, tr TimelockRange, totalFees Nicks) LegacyRawTx {
	tx := LegacyRawTx{Inputs: inputs, TimelockRange: tr, TotalFees: totalFees}
	tx.ID = tx.CalcID()
	return tx
}

// CalcID recomputes the transaction ID from its contents.
func (tx LegacyRawTx) CalcID() TransactionID {
	return hashTuple(tx.Inputs.Hash(), tx.TimelockRange.Hash(), tx.TotalFees.Hash())
}

// Noun implements NounEncoder.
func (tx LegacyRawTx) Noun() Noun {
	return nounChain(Digest(tx.ID).Noun(), tx.Inputs.Noun(), tx.TimelockRange.Noun(), tx.TotalFees.Noun())
}

// Outputs combines the seeds of all inputs into one note per recipient
// owner set.
func (tx LegacyRawTx) Outputs() []LegacyNote {
	type accum struct {
		sig      Sig
		timelock TimelockIntent
		assets   Nicks
		seeds    Set[LegacySeed]
	}
	byRecipient := make(map[Digest]*accum)
	inputs := tx.Inputs.inputMap()
	for _, e := range inputs.Entries() {
		for _, seed := range e.Value.Spend.Seeds {
			key := seed.Recipient.Hash()
			acc := byRecipient[key]
			if acc == nil {
				acc = &accum{sig: seed.Recipient}
				byRecipient[key] = acc
			}
			// The timelock intent of the last seed wins, matching
			// consensus behavior.
			if seed.TimelockIntent.Tim != nil && *seed.TimelockIntent.Tim != (Timelock{}) {
				acc.timelock = seed.TimelockIntent
			}
			acc.assets += seed.Gift
			acc.seeds.Insert(seed)
		}
	}

	accs := make([]*accum, 0, len(byRecipient))
	for _, acc := range byRecipient {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].sig.Cmp(accs[j].sig) < 0 })

	outputs := make([]LegacyNote, 0, len(accs))
	for _, acc := range accs {
		source := Source{Hash: acc.seeds.Hash()}
		outputs = append(outputs, LegacyNote{
			Version:  V0,
			Timelock: acc.timelock,
			Name:     LegacyName(acc.sig, source, acc.timelock),
			Owners:   acc.sig,
			Source:   source,
			Assets:   acc.assets,
		})
	}
	return outputs
}
