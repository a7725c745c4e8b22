package types

import "testing"

func testLegacyNote(owners Sig, assets Nicks, sourceHash Digest) LegacyNote {
	source := Source{Hash: sourceHash}
	return LegacyNote{
		Version: V0,
		Name:    LegacyName(owners, source, TimelockIntent{}),
		Owners:  owners,
		Source:  source,
		Assets:  assets,
	}
}

func TestLegacyOutputs(t *testing.T) {
	pkA := GeneratePrivateKey().PublicKey()
	pkB := GeneratePrivateKey().PublicKey()
	sigA, sigB := SingleSig(pkA), SingleSig(pkB)

	noteA := testLegacyNote(sigA, 175, HashUint64(1))
	noteB := testLegacyNote(sigB, 25, HashUint64(2))
	inputs := LegacyInputs{
		{Name: noteA.Name, Input: LegacyInput{
			Note: noteA,
			Spend: LegacySpend{Seeds: LegacySeeds{
				{Recipient: sigA, Gift: 100, ParentHash: noteA.Hash()},
				{Recipient: sigB, Gift: 50, ParentHash: noteA.Hash()},
			}, Fee: 25},
		}},
		{Name: noteB.Name, Input: LegacyInput{
			Note: noteB,
			Spend: LegacySpend{Seeds: LegacySeeds{
				{Recipient: sigA, Gift: 25, ParentHash: noteB.Hash()},
			}},
		}},
	}
	tx := NewLegacyRawTx(inputs, TimelockRange{}, 25)
	if tx.CalcID() != tx.ID {
		t.Fatal("transaction ID does not match its contents")
	}

	outputs := tx.Outputs()
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}
	byOwner := make(map[Digest]LegacyNote)
	for i, o := range outputs {
		if i > 0 && outputs[i-1].Owners.Cmp(o.Owners) >= 0 {
			t.Fatal("outputs not sorted by owner set")
		}
		byOwner[o.Owners.Hash()] = o
	}
	a, ok := byOwner[sigA.Hash()]
	if !ok || a.Assets != 125 {
		t.Fatalf("expected 125 nicks to %v, got %v", pkA, a.Assets)
	}
	b, ok := byOwner[sigB.Hash()]
	if !ok || b.Assets != 50 {
		t.Fatalf("expected 50 nicks to %v, got %v", pkB, b.Assets)
	}
	// the output name commits to the combined seed set
	if a.Name != LegacyName(sigA, a.Source, TimelockIntent{}) {
		t.Fatal("output name does not match its owner set and source")
	}
}
