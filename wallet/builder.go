// Package wallet implements transaction construction: assembling spends from
// notes, balancing refunds against fees, and collecting authorizations.
package wallet

import (
	"fmt"
	"sort"

	"go.ztx.dev/core/types"
)

// A MissingUnlock describes an authorization a spend still needs before it
// can be accepted.
type MissingUnlock interface {
	isMissingUnlock()
}

// MissingSigs reports legacy owner signatures that have not been collected.
type MissingSigs struct {
	NumSigs uint64
	SigOf   []types.PublicKey
}

// MissingPkhSigs reports key-hash signatures a witness still needs.
type MissingPkhSigs struct {
	NumSigs uint64
	SigOf   []types.Digest
}

// MissingPreimages reports hash preimages a witness still needs.
type MissingPreimages struct {
	PreimagesFor []types.Digest
}

// MissingBurn marks a spend condition that can never be satisfied.
type MissingBurn struct{}

func (MissingSigs) isMissingUnlock()      {}
func (MissingPkhSigs) isMissingUnlock()   {}
func (MissingPreimages) isMissingUnlock() {}
func (MissingBurn) isMissingUnlock()      {}

// String implements fmt.Stringer.
func (m MissingSigs) String() string {
	return fmt.Sprintf("Sig { num_sigs: %d, sig_of: %v }", m.NumSigs, m.SigOf)
}

// String implements fmt.Stringer.
func (m MissingPkhSigs) String() string {
	return fmt.Sprintf("Pkh { num_sigs: %d, sig_of: %v }", m.NumSigs, m.SigOf)
}

// String implements fmt.Stringer.
func (m MissingPreimages) String() string {
	return fmt.Sprintf("Hax { preimages_for: %v }", m.PreimagesFor)
}

// String implements fmt.Stringer.
func (MissingBurn) String() string { return "Brn" }

// A SpendBuilder assembles the spend of a single note: its seeds, its fee
// portion, and its authorizations. If a refund lock is set, the builder can
// rebalance the spend by adjusting a refund seed under that lock.
type SpendBuilder struct {
	note       types.Note
	spend      types.Spend
	refundLock *types.SpendCondition
}

// NewSpendBuilder starts a spend of the given note. Witness-authorized notes
// require the spend condition that hashes to their lock root.
func NewSpendBuilder(note types.Note, sc, refundLock *types.SpendCondition) (*SpendBuilder, error) {
	var spend types.Spend
	if note.Version() == types.V0 {
		spend = types.NewSigSpend(types.Seeds{}, 0)
	} else {
		if sc == nil {
			return nil, ErrMissingSpendCondition
		}
		spend = types.NewWitnessSpend(types.NewWitness(*sc), types.Seeds{}, 0)
	}
	return &SpendBuilder{
		note:       note,
		spend:      spend,
		refundLock: refundLock,
	}, nil
}

// SpendBuilderFromSpend resumes building from an existing spend, typically
// one decoded from a partially signed transaction. It returns false if the
// spend's authorization generation does not match the note's version.
func SpendBuilderFromSpend(spend types.Spend, note types.Note, refundLock *types.SpendCondition) (*SpendBuilder, bool) {
	if note.Version() != spend.Version() {
		return nil, false
	}
	return &SpendBuilder{
		note:       note,
		spend:      spend,
		refundLock: refundLock,
	}, true
}

// Note returns the note being spent.
func (b *SpendBuilder) Note() types.Note { return b.note }

// Spend returns the spend under construction.
func (b *SpendBuilder) Spend() types.Spend { return b.spend }

// SetFee sets the fee portion of the spend. Changing the fee invalidates any
// collected signatures.
func (b *SpendBuilder) SetFee(fee types.Nicks) *SpendBuilder {
	if b.spend.Fee() != fee {
		b.InvalidateSigs()
	}
	b.spend.SetFee(fee)
	return b
}

// ComputeRefund rebuilds the refund seed so that the spend balances: any
// assets not consumed by the fee or by other seeds return to the refund
// lock. A spend with no refund lock is left untouched.
func (b *SpendBuilder) ComputeRefund(includeLockData bool) *SpendBuilder {
	if b.refundLock == nil {
		return b
	}
	b.InvalidateSigs()
	rl := *b.refundLock
	rootHash := types.LockRootLock(rl).Hash()
	b.spend.Seeds().Retain(func(s types.Seed) bool {
		return s.LockRoot.Hash() != rootHash
	})
	spent := b.spend.Fee()
	for _, s := range b.spend.Seeds().Values() {
		spent += s.Gift
	}
	if b.note.Assets() > spent {
		b.spend.Seeds().Insert(b.BuildSeed(rl, b.note.Assets()-spent, includeLockData))
	}
	return b
}

// CurRefund returns the refund seed, if one is present.
func (b *SpendBuilder) CurRefund() (types.Seed, bool) {
	if b.refundLock == nil {
		return types.Seed{}, false
	}
	rootHash := types.LockRootLock(*b.refundLock).Hash()
	for _, s := range b.spend.Seeds().Values() {
		if s.LockRoot.Hash() == rootHash {
			return s, true
		}
	}
	return types.Seed{}, false
}

// IsBalanced reports whether the note's assets exactly cover the seeds and
// the fee.
func (b *SpendBuilder) IsBalanced() bool {
	var sum types.Nicks
	for _, s := range b.spend.Seeds().Values() {
		sum += s.Gift
	}
	return b.note.Assets() == sum+b.spend.Fee()
}

// BuildSeed returns a seed paying gift to the given lock, parented to the
// note being spent.
func (b *SpendBuilder) BuildSeed(lock types.SpendCondition, gift types.Nicks, includeLockData bool) types.Seed {
	var nd types.NoteData
	if includeLockData {
		nd.PushLock(lock)
	}
	return types.Seed{
		LockRoot:   types.LockRootLock(lock),
		Data:       nd,
		Gift:       gift,
		ParentHash: b.note.Hash(),
	}
}

// AddSeed appends a seed to the spend, invalidating any collected
// signatures.
func (b *SpendBuilder) AddSeed(seed types.Seed) *SpendBuilder {
	b.InvalidateSigs()
	b.spend.Seeds().Insert(seed)
	return b
}

// InvalidateSigs drops all collected signatures.
func (b *SpendBuilder) InvalidateSigs() *SpendBuilder {
	b.spend.ClearSignatures()
	return b
}

// MissingUnlocks returns the authorizations the spend still needs.
func (b *SpendBuilder) MissingUnlocks() []MissingUnlock {
	var missing []MissingUnlock
	switch v := b.spend.Type.(type) {
	case *types.SigSpend:
		note, ok := b.note.Type.(types.LegacyNote)
		if !ok {
			panic("legacy spend of a non-legacy note")
		}
		present := make(map[types.PublicKey]bool)
		for _, ks := range v.Signature {
			present[ks.Key] = true
		}
		var checked uint64
		var sigOf []types.PublicKey
		for _, pk := range note.Owners.PublicKeys {
			if present[pk] {
				checked++
			} else {
				sigOf = append(sigOf, pk)
			}
		}
		if checked < note.Owners.M {
			sort.Slice(sigOf, func(i, j int) bool { return sigOf[i].Cmp(sigOf[j]) < 0 })
			missing = append(missing, MissingSigs{
				NumSigs: note.Owners.M - checked,
				SigOf:   sigOf,
			})
		}
	case *types.WitnessSpend:
		sc := v.Witness.LockProof.Condition
		for _, p := range sc.Pkh() {
			var checked uint64
			var sigOf []types.Digest
			for _, h := range p.Hashes.Values() {
				if v.Witness.Signatures.Contains(h) {
					checked++
				} else {
					sigOf = append(sigOf, h)
				}
			}
			if checked < p.M {
				sort.Slice(sigOf, func(i, j int) bool { return sigOf[i].Cmp(sigOf[j]) < 0 })
				missing = append(missing, MissingPkhSigs{
					NumSigs: p.M - checked,
					SigOf:   sigOf,
				})
			}
		}
		for _, h := range sc.Hax() {
			var preimagesFor []types.Digest
			for _, dg := range h.Hashes.Values() {
				if !v.Witness.Preimages.Contains(dg) {
					preimagesFor = append(preimagesFor, dg)
				}
			}
			if len(preimagesFor) > 0 {
				sort.Slice(preimagesFor, func(i, j int) bool { return preimagesFor[i].Cmp(preimagesFor[j]) < 0 })
				missing = append(missing, MissingPreimages{PreimagesFor: preimagesFor})
			}
		}
		if sc.Burn() {
			missing = append(missing, MissingBurn{})
		}
	}
	return missing
}

// AddPreimage reveals a preimage if some hash clause of the spend condition
// commits to it, returning its digest.
func (b *SpendBuilder) AddPreimage(preimage types.Noun) (types.Digest, bool) {
	v, ok := b.spend.Type.(*types.WitnessSpend)
	if !ok {
		return types.Digest{}, false
	}
	digest := preimage.Hash()
	for _, h := range v.Witness.LockProof.Condition.Hax() {
		if h.Hashes.Contains(digest) {
			v.Witness.Preimages.Insert(digest, preimage)
			return digest, true
		}
	}
	return types.Digest{}, false
}

// Sign signs the spend with the given key, returning false if the key does
// not appear in the note's owners or the witness spend condition.
func (b *SpendBuilder) Sign(priv types.PrivateKey) bool {
	pk := priv.PublicKey()
	switch v := b.spend.Type.(type) {
	case *types.WitnessSpend:
		pkh := pk.Hash()
		for _, p := range v.Witness.LockProof.Condition.Pkh() {
			if p.Hashes.Contains(pkh) {
				b.spend.AddSignature(pk, priv.SignHash(b.spend.SigningHash()))
				return true
			}
		}
	case *types.SigSpend:
		note, ok := b.note.Type.(types.LegacyNote)
		if !ok {
			panic("legacy spend of a non-legacy note")
		}
		for _, owner := range note.Owners.PublicKeys {
			if owner == pk {
				b.spend.AddSignature(pk, priv.SignHash(b.spend.SigningHash()))
				return true
			}
		}
	}
	return false
}

// unclampedFee is the spend's fee requirement at the given rate, padded with
// an estimate for each signature not yet collected.
func (b *SpendBuilder) unclampedFee(perWord types.Nicks) types.Nicks {
	fee := b.spend.UnclampedFee(perWord)
	for _, mu := range b.MissingUnlocks() {
		if p, ok := mu.(MissingPkhSigs); ok {
			// Heuristic for missing signatures. It is perhaps 30, but perhaps not.
			fee += perWord * 35 * types.Nicks(p.NumSigs)
		}
	}
	return fee
}
