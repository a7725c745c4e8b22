package types

import "sort"

// A TransactionID uniquely identifies a transaction.
type TransactionID = Digest

// A RawTx is a v1 transaction as consensus sees it: the spend map plus the
// ID derived from it.
type RawTx struct {
	Version Version       `json:"version"`
	ID      TransactionID `json:"id"`
	Spends  Spends        `json:"spends"`
}

// NewRawTx assembles a transaction from its spends and computes its ID.
func NewRawTx(spends Spends) RawTx {
	tx := RawTx{Version: V1, Spends: spends}
	tx.ID = tx.CalcID()
	return tx
}

// CalcID recomputes the transaction ID from its contents.
func (tx RawTx) CalcID() TransactionID {
	return hashPair(V1.Hash(), tx.Spends.Hash())
}

// Outputs combines the seeds of all spends into one note per lock root. The
// note data of the last seed in traversal order wins; sources are derived
// from the seed set with output sources stripped.
func (tx RawTx) Outputs() []V1Note {
	type accum struct {
		root  Digest
		seeds Set[Seed]
	}
	byRoot := make(map[Digest]*accum)
	for _, e := range tx.Spends.M.Entries() {
		for _, seed := range e.Value.Seeds().Values() {
			root := seed.LockRoot.Hash()
			acc := byRoot[root]
			if acc == nil {
				acc = &accum{root: root}
				byRoot[root] = acc
			}
			acc.seeds.Insert(seed)
		}
	}

	accs := make([]*accum, 0, len(byRoot))
	for _, acc := range byRoot {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].root.Cmp(accs[j].root) < 0 })

	outputs := make([]V1Note, 0, len(accs))
	for _, acc := range accs {
		seeds := acc.seeds.Values()
		if len(seeds) == 0 {
			continue
		}
		var total Nicks
		for _, s := range seeds {
			total += s.Gift
		}
		noteData := seeds[len(seeds)-1].Data

		var normalized Set[Seed]
		for _, s := range seeds {
			s.OutputSource = nil
			normalized.Insert(s)
		}
		source := Source{Hash: normalized.Hash()}

		outputs = append(outputs, V1Note{
			Version: V1,
			Name:    V1Name(acc.root, source),
			Data:    noteData,
			Assets:  total,
		})
	}
	return outputs
}

// ToTransaction wraps the raw transaction for relay, splitting the witness
// data out of the spends.
func (tx RawTx) ToTransaction() Transaction {
	spends, wd := tx.Spends.SplitWitness()
	return Transaction{
		Version:     tx.Version,
		ID:          tx.ID,
		Spends:      spends,
		WitnessData: wd,
	}
}

// LockMetadata describes an output lock for display purposes.
type LockMetadata struct {
	Lock        SpendCondition `json:"lock"`
	IncludeData bool           `json:"includeData"`
}

// Hash implements Hashable.
func (lm LockMetadata) Hash() Digest {
	return hashPair(lm.Lock.Hash(), hashBool(lm.IncludeData))
}

// Noun implements NounEncoder.
func (lm LockMetadata) Noun() Noun {
	return Cell(lm.Lock.Noun(), nounBool(lm.IncludeData))
}

// An InputDisplay summarizes a transaction's inputs for wallets: legacy
// inputs by their owner sets, v1 inputs by their spend conditions.
type InputDisplay struct {
	Type interface {
		isInputDisplay()
	}
}

// A LegacyInputDisplay lists legacy inputs by owner set.
type LegacyInputDisplay struct {
	P Map[Name, Sig] `json:"p"`
}

// A V1InputDisplay lists v1 inputs by spend condition.
type V1InputDisplay struct {
	P Map[Name, SpendCondition] `json:"p"`
}

func (LegacyInputDisplay) isInputDisplay() {}
func (V1InputDisplay) isInputDisplay()     {}

// Noun implements NounEncoder.
func (d InputDisplay) Noun() Noun {
	switch v := d.Type.(type) {
	case nil:
		return Cell(Atom(uint64(V0)), Atom(0))
	case LegacyInputDisplay:
		return Cell(Atom(uint64(V0)), v.P.Noun())
	case V1InputDisplay:
		return Cell(Atom(uint64(V1)), v.P.Noun())
	default:
		panic("unhandled input display")
	}
}

// A TransactionDisplay carries human-oriented context alongside a relayed
// transaction. It does not affect the transaction ID.
type TransactionDisplay struct {
	Inputs  InputDisplay              `json:"inputs"`
	Outputs Map[Digest, LockMetadata] `json:"outputs"`
}

// Noun implements NounEncoder.
func (td TransactionDisplay) Noun() Noun {
	return Cell(td.Inputs.Noun(), td.Outputs.Noun())
}

// A Transaction is the relay form of a RawTx: witness data rides separately
// from the spends, and a display section carries wallet-facing context.
type Transaction struct {
	Version     Version            `json:"version"`
	ID          TransactionID      `json:"id"`
	Spends      Spends             `json:"spends"`
	Display     TransactionDisplay `json:"display"`
	WitnessData WitnessData        `json:"witnessData"`
}

// ToRawTx restores the consensus form by applying the witness data back
// onto the spends.
func (txn Transaction) ToRawTx() RawTx {
	return RawTx{
		Version: txn.Version,
		ID:      txn.ID,
		Spends:  txn.Spends.ApplyWitness(txn.WitnessData),
	}
}

// Outputs returns the notes the transaction creates.
func (txn Transaction) Outputs() []V1Note {
	return txn.ToRawTx().Outputs()
}
