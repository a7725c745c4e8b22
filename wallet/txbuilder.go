package wallet

import (
	"sort"

	"go.ztx.dev/core/types"
)

// An InputNote pairs a spendable note with the spend condition behind its
// lock root. Legacy notes carry no condition.
type InputNote struct {
	Note      types.Note
	Condition *types.SpendCondition
}

// A TxBuilder assembles a transaction from spend builders. Notes that end up
// contributing nothing wait in a fee pool and are pulled in only when the
// fee requires them.
type TxBuilder struct {
	spends     map[types.Name]*SpendBuilder
	feePool    []*SpendBuilder
	feePerWord types.Nicks
}

// NewTxBuilder returns an empty builder charging the given rate per word.
func NewTxBuilder(feePerWord types.Nicks) *TxBuilder {
	return &TxBuilder{
		spends:     make(map[types.Name]*SpendBuilder),
		feePerWord: feePerWord,
	}
}

// TxBuilderFromTx resumes building from an existing transaction, typically
// to add signatures. The caller supplies the note and spend condition behind
// each input.
func TxBuilderFromTx(tx types.RawTx, notes map[types.Name]InputNote) (*TxBuilder, error) {
	if tx.Version != types.V1 {
		return nil, ErrInvalidVersion
	}
	tb := &TxBuilder{
		spends:     make(map[types.Name]*SpendBuilder),
		feePerWord: 1 << 15,
	}
	for _, entry := range tx.Spends.M.Entries() {
		in, ok := notes[entry.Key]
		if !ok {
			return nil, &NoteNotFoundError{Name: entry.Key}
		}
		sb, ok := SpendBuilderFromSpend(entry.Value, in.Note, in.Condition)
		if !ok {
			return nil, ErrInvalidSpendCondition
		}
		tb.spends[entry.Key] = sb
	}
	return tb, nil
}

// AddSpend adds a spend builder keyed by its note's name, returning any
// builder it displaced.
func (tb *TxBuilder) AddSpend(sb *SpendBuilder) *SpendBuilder {
	name := sb.note.Name()
	prev := tb.spends[name]
	tb.spends[name] = sb
	return prev
}

// sortedNames returns the spend names in ascending order.
func (tb *TxBuilder) sortedNames() []types.Name {
	names := make([]types.Name, 0, len(tb.spends))
	for name := range tb.spends {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Cmp(names[j]) < 0 })
	return names
}

// sortedSpends returns the spend builders in ascending name order.
func (tb *TxBuilder) sortedSpends() []*SpendBuilder {
	names := tb.sortedNames()
	sbs := make([]*SpendBuilder, len(names))
	for i, name := range names {
		sbs[i] = tb.spends[name]
	}
	return sbs
}

// SimpleSpendBase spreads a gift to the recipient across the given notes,
// refunding any remainder of each note to the refund key hash. Notes whose
// assets are not needed for the gift go to the fee pool. The fee is left at
// zero; callers follow up with RecalcAndSetFee or SetFeeAndBalanceRefund.
func (tb *TxBuilder) SimpleSpendBase(notes []InputNote, recipient types.Digest, gift types.Nicks, refundPkh types.Digest, includeLockData bool) error {
	if gift == 0 {
		return ErrZeroGift
	}
	refundLock := types.NewPkhCondition(types.SinglePkh(refundPkh))
	remaining := gift
	for _, in := range notes {
		portion := remaining
		if assets := in.Note.Assets(); portion > assets {
			portion = assets
		}
		remaining -= portion

		sb, err := NewSpendBuilder(in.Note, in.Condition, &refundLock)
		if err != nil {
			return err
		}
		if portion > 0 {
			seed := sb.BuildSeed(types.NewPkhCondition(types.SinglePkh(recipient)), portion, includeLockData)
			sb.AddSeed(seed)
			sb.ComputeRefund(includeLockData)
			if !sb.IsBalanced() {
				panic("unbalanced spend after refund")
			}
			tb.AddSpend(sb)
		} else {
			sb.ComputeRefund(includeLockData)
			if !sb.IsBalanced() {
				panic("unbalanced spend after refund")
			}
			tb.feePool = append(tb.feePool, sb)
		}
	}
	if remaining > 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// SimpleSpend is SimpleSpendBase followed by RecalcAndSetFee.
func (tb *TxBuilder) SimpleSpend(notes []InputNote, recipient types.Digest, gift types.Nicks, refundPkh types.Digest, includeLockData bool) error {
	if err := tb.SimpleSpendBase(notes, recipient, gift, refundPkh, includeLockData); err != nil {
		return err
	}
	return tb.RecalcAndSetFee(includeLockData)
}

// AddPreimage reveals a preimage to every spend whose condition commits to
// it, returning its digest.
func (tb *TxBuilder) AddPreimage(preimage types.Noun) (types.Digest, bool) {
	var digest types.Digest
	var found bool
	for _, sb := range tb.spends {
		if d, ok := sb.AddPreimage(preimage); ok {
			digest, found = d, true
		}
	}
	return digest, found
}

// Sign signs every spend the key can authorize.
func (tb *TxBuilder) Sign(priv types.PrivateKey) *TxBuilder {
	for _, sb := range tb.sortedSpends() {
		sb.Sign(priv)
	}
	return tb
}

// Validate checks that the transaction carries enough fee, that every spend
// balances, and that no authorizations are missing.
func (tb *TxBuilder) Validate() error {
	curFee := tb.CurFee()
	neededFee := tb.CalcFee()
	if curFee < neededFee {
		return &InvalidFeeError{Needed: neededFee, Got: curFee}
	}
	for _, sb := range tb.spends {
		if !sb.IsBalanced() {
			return ErrUnbalancedSpends
		}
	}
	var unlocks []MissingUnlock
	for _, sb := range tb.sortedSpends() {
		unlocks = append(unlocks, sb.MissingUnlocks()...)
	}
	if len(unlocks) > 0 {
		return &MissingUnlocksError{Unlocks: unlocks}
	}
	return nil
}

// Build assembles the final transaction, including the display metadata that
// wallets use to describe the inputs and outputs.
func (tb *TxBuilder) Build() types.Transaction {
	var display types.TransactionDisplay
	var spends types.Spends
	for _, name := range tb.sortedNames() {
		sb := tb.spends[name]
		switch v := sb.spend.Type.(type) {
		case *types.SigSpend:
			if note, ok := sb.note.Type.(types.LegacyNote); ok {
				switch d := display.Inputs.Type.(type) {
				case nil:
					var m types.Map[types.Name, types.Sig]
					m.Insert(name, note.Owners)
					display.Inputs.Type = types.LegacyInputDisplay{P: m}
				case types.LegacyInputDisplay:
					d.P.Insert(name, note.Owners)
					display.Inputs.Type = d
				}
			}
		case *types.WitnessSpend:
			sc := v.Witness.LockProof.Condition
			switch d := display.Inputs.Type.(type) {
			case types.V1InputDisplay:
				d.P.Insert(name, sc)
				display.Inputs.Type = d
			default:
				// the first witness spend switches the display to v1,
				// dropping any legacy entries
				var m types.Map[types.Name, types.SpendCondition]
				m.Insert(name, sc)
				display.Inputs.Type = types.V1InputDisplay{P: m}
			}
		}
		for _, seed := range sb.spend.Seeds().Values() {
			if lock, ok := seed.LockRoot.Lock(); ok {
				display.Outputs.Insert(lock.Hash(), types.LockMetadata{Lock: lock})
			}
		}
		spends.Insert(name, sb.spend.Clone())
	}
	txn := types.NewRawTx(spends).ToTransaction()
	txn.Display = display
	return txn
}

// AllNotes returns each input's note and spend condition, keyed by name.
func (tb *TxBuilder) AllNotes() map[types.Name]InputNote {
	notes := make(map[types.Name]InputNote, len(tb.spends))
	for name, sb := range tb.spends {
		var sc *types.SpendCondition
		if v, ok := sb.spend.Type.(*types.WitnessSpend); ok {
			cond := v.Witness.LockProof.Condition
			sc = &cond
		}
		notes[name] = InputNote{Note: sb.note, Condition: sc}
	}
	return notes
}

// AllSpends returns the spend builders, keyed by note name.
func (tb *TxBuilder) AllSpends() map[types.Name]*SpendBuilder {
	return tb.spends
}

// CurFee sums the fee portions currently set across all spends.
func (tb *TxBuilder) CurFee() types.Nicks {
	var fee types.Nicks
	for _, sb := range tb.spends {
		fee += sb.spend.Fee()
	}
	return fee
}

// CalcFee returns the fee the transaction requires at the builder's rate,
// with the consensus minimum applied.
func (tb *TxBuilder) CalcFee() types.Nicks {
	var fee types.Nicks
	for _, sb := range tb.spends {
		fee += sb.unclampedFee(tb.feePerWord)
	}
	if fee < types.MinFee {
		return types.MinFee
	}
	return fee
}

// RecalcAndSetFee recomputes the required fee and rebalances the refunds to
// carry it.
func (tb *TxBuilder) RecalcAndSetFee(includeLockData bool) error {
	return tb.SetFeeAndBalanceRefund(tb.CalcFee(), true, includeLockData)
}

// SetFeeAndBalanceRefund moves the transaction's total fee to the given
// value by shaving or growing refund seeds. When raising the fee runs out of
// refunds, notes are pulled from the fee pool, largest assets first; spends
// that no longer pay anything are returned to the pool. If adjustFee is set,
// the fee target tracks the words gained or lost as refund seeds and pool
// notes appear or vanish.
func (tb *TxBuilder) SetFeeAndBalanceRefund(fee types.Nicks, adjustFee, includeLockData bool) error {
	curFee := tb.CurFee()
	if curFee == fee {
		return nil
	}

	spends := tb.sortedSpends()
	if curFee < fee {
		feeLeft := fee - curFee

		// prioritize refunds from used-up notes
		sort.SliceStable(spends, func(i, j int) bool {
			a, b := spends[i], spends[j]
			anra := a.note.Assets() - refundGift(a)
			bnra := b.note.Assets() - refundGift(b)
			if anra != bnra {
				return anra > bnra
			}
			if a.spend.Fee() != b.spend.Fee() {
				return a.spend.Fee() > b.spend.Fee()
			}
			return a.note.Name().Cmp(b.note.Name()) > 0
		})

		for _, s := range spends {
			rs, ok := s.CurRefund()
			if !ok {
				continue
			}
			words := rs.Data.Words()
			subRefund := rs.Gift
			if feeLeft < subRefund {
				subRefund = feeLeft
			}
			if subRefund > 0 {
				s.SetFee(s.spend.Fee() + subRefund)
				feeLeft -= subRefund
				s.ComputeRefund(includeLockData)

				// the refund seed's words vanish with it
				if _, still := s.CurRefund(); adjustFee && !still {
					credit := tb.feePerWord * types.Nicks(words)
					if credit > feeLeft {
						credit = feeLeft
					}
					feeLeft -= credit
				}
			}
		}

		// pull notes from the fee pool to cover the rest, largest first
		sort.SliceStable(tb.feePool, func(i, j int) bool {
			return tb.feePool[i].note.Assets() < tb.feePool[j].note.Assets()
		})
		for feeLeft > 0 && len(tb.feePool) > 0 {
			r := tb.feePool[len(tb.feePool)-1]
			tb.feePool = tb.feePool[:len(tb.feePool)-1]
			r.ComputeRefund(includeLockData)
			rs, ok := r.CurRefund()
			if !ok {
				panic("fee pool entry must have refund")
			}
			if adjustFee {
				feeLeft += r.unclampedFee(tb.feePerWord)
			}
			subRefund := rs.Gift
			if feeLeft < subRefund {
				subRefund = feeLeft
			}
			if subRefund > 0 {
				r.SetFee(r.spend.Fee() + subRefund)
				feeLeft -= subRefund
				r.ComputeRefund(includeLockData)
			}
			tb.AddSpend(r)
		}

		if feeLeft > 0 {
			return ErrInsufficientFunds
		}
		return nil
	}

	refundLeft := curFee - fee

	// prefer spends whose only seed is the refund: lowering their fee does
	// not change what anyone receives
	sort.SliceStable(spends, func(i, j int) bool {
		a, b := spends[i], spends[j]
		aor := a.spend.Seeds().Len() == 1 && hasRefund(a)
		bor := b.spend.Seeds().Len() == 1 && hasRefund(b)
		if aor != bor {
			return aor
		}
		if a.spend.Fee() != b.spend.Fee() {
			return a.spend.Fee() < b.spend.Fee()
		}
		anra := a.note.Assets() - refundGift(a)
		bnra := b.note.Assets() - refundGift(b)
		if anra != bnra {
			return anra < bnra
		}
		return a.note.Name().Cmp(b.note.Name()) > 0
	})

	var returnToPool []types.Name
	for _, s := range spends {
		if s.refundLock == nil {
			continue
		}
		addRefund := s.spend.Fee()
		if refundLeft < addRefund {
			addRefund = refundLeft
		}
		if addRefund > 0 {
			s.SetFee(s.spend.Fee() - addRefund)
			refundLeft -= addRefund
			s.ComputeRefund(includeLockData)
		}
		if s.spend.Fee() == addRefund {
			returnToPool = append(returnToPool, s.note.Name())
			// the note becomes unused, so its own fee requirement
			// disappears with it
			refundLeft = refundLeft.SaturatingSub(s.unclampedFee(tb.feePerWord))
		}
	}
	for _, name := range returnToPool {
		sb := tb.spends[name]
		delete(tb.spends, name)
		tb.feePool = append(tb.feePool, sb)
	}

	if refundLeft > 0 {
		return ErrAccountingMismatch
	}
	return nil
}

func refundGift(sb *SpendBuilder) types.Nicks {
	if rs, ok := sb.CurRefund(); ok {
		return rs.Gift
	}
	return 0
}

func hasRefund(sb *SpendBuilder) bool {
	_, ok := sb.CurRefund()
	return ok
}
