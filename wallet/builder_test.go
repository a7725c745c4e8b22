package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.ztx.dev/core/types"
)

func testNote(originPage types.BlockHeight, last uint64, assets types.Nicks) types.Note {
	return types.Note{Type: types.V1Note{
		Version:    types.V1,
		OriginPage: originPage,
		Name:       types.NewName(types.HashUint64(1), types.HashUint64(last)),
		Assets:     assets,
	}}
}

func testCondition(pkh types.Digest) types.SpendCondition {
	return types.SpendCondition{
		{Type: types.SinglePkh(pkh)},
		{Type: types.CoinbaseTimelock()},
	}
}

func TestSimpleSpendFee(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 4294967296)
	sc := testCondition(priv.PublicKey().Hash())
	recipient := types.HashUint64(2)
	refundPkh := types.HashUint64(6)

	feePerWord := types.Nicks(40000)
	builder := NewTxBuilder(feePerWord)
	require.NoError(t, builder.SimpleSpend(
		[]InputNote{{Note: note, Condition: &sc}},
		recipient, 1234567, refundPkh, false,
	))

	// 2 seeds with empty note data, a 26-word witness, and a 35-word
	// allowance for the uncollected signature
	assert.Equal(t, types.Nicks(2520000), builder.CalcFee())

	builder.Sign(priv)
	require.NoError(t, builder.Validate())
	txn := builder.Build()

	// signing replaces the 35-word allowance with the real signature entry
	raw := txn.ToRawTx()
	assert.Equal(t, types.Nicks(2520000), raw.Spends.Fee(feePerWord))
	assert.Equal(t, raw.CalcID(), raw.ID)
}

func TestZeroGift(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 1000)
	sc := testCondition(priv.PublicKey().Hash())

	builder := NewTxBuilder(1)
	err := builder.SimpleSpendBase(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 0, types.HashUint64(6), false,
	)
	assert.ErrorIs(t, err, ErrZeroGift)
}

func TestInsufficientFunds(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 1000)
	sc := testCondition(priv.PublicKey().Hash())

	builder := NewTxBuilder(1)
	err := builder.SimpleSpendBase(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 5000, types.HashUint64(6), false,
	)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestInvalidFee(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 4294967296)
	sc := testCondition(priv.PublicKey().Hash())

	// a rate this high cannot be covered by a fee set at a lower one
	builder := NewTxBuilder(1 << 17)
	require.NoError(t, builder.SimpleSpendBase(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 1234567, types.HashUint64(6), true,
	))
	require.NoError(t, builder.SetFeeAndBalanceRefund(2850816, false, true))
	builder.Sign(priv)

	var feeErr *InvalidFeeError
	assert.ErrorAs(t, builder.Validate(), &feeErr)
}

func TestFeeCalcsUp(t *testing.T) {
	priv := types.GeneratePrivateKey()
	sc := testCondition(priv.PublicKey().Hash())
	notes := []InputNote{
		{Note: testNote(13, 7, 3000), Condition: &sc},
		{Note: testNote(14, 6, 3000), Condition: &sc},
		{Note: testNote(15, 5, 3000), Condition: &sc},
	}

	builder := NewTxBuilder(8)
	require.NoError(t, builder.SimpleSpendBase(notes, types.HashUint64(2), 2700, types.HashUint64(6), false))

	// only one note is spent at first; the other two wait in the fee pool
	assert.Equal(t, types.Nicks(504), builder.CalcFee())

	// rebalancing pulls a pool note in to cover the fee
	require.NoError(t, builder.RecalcAndSetFee(false))
	assert.Equal(t, types.Nicks(992), builder.CalcFee())
	assert.Equal(t, types.Nicks(992), builder.CurFee())

	// a second rebalance must not make the fee jump back and forth
	require.NoError(t, builder.RecalcAndSetFee(false))
	assert.Equal(t, types.Nicks(992), builder.CalcFee())
	assert.Equal(t, types.Nicks(992), builder.CurFee())

	// signing must not change the fee either
	builder.Sign(priv)
	assert.Equal(t, types.Nicks(992), builder.CalcFee())
	assert.Equal(t, types.Nicks(992), builder.CurFee())

	require.NoError(t, builder.Validate())
}

func TestMissingUnlock(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 4294967296)
	sc := testCondition(priv.PublicKey().Hash())

	builder := NewTxBuilder(1)
	require.NoError(t, builder.SimpleSpendBase(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 1234567, types.HashUint64(6), true,
	))
	require.NoError(t, builder.SetFeeAndBalanceRefund(2850816, false, true))

	var unlocks []MissingUnlock
	for _, sb := range builder.AllSpends() {
		unlocks = append(unlocks, sb.MissingUnlocks()...)
	}
	require.Len(t, unlocks, 1)
	assert.Equal(t, MissingPkhSigs{
		NumSigs: 1,
		SigOf:   []types.Digest{priv.PublicKey().Hash()},
	}, unlocks[0])

	// after signing, nothing is missing and validation passes
	builder.Sign(priv)
	require.NoError(t, builder.Validate())
}

func TestMissingUnlockHax(t *testing.T) {
	preimage := types.Atom(0)
	sc := types.SpendCondition{
		{Type: types.SinglePkh(types.HashUint64(9))},
		{Type: types.Hax{Hashes: types.SetOf(preimage.Hash(), types.HashUint64(3))}},
	}
	note := testNote(13, 7, 4294967296)

	builder := NewTxBuilder(1)
	require.NoError(t, builder.SimpleSpendBase(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 1234567, types.HashUint64(6), true,
	))
	require.NoError(t, builder.SetFeeAndBalanceRefund(2850816, false, true))

	if _, ok := builder.AddPreimage(preimage); !ok {
		t.Fatal("preimage should match a hash clause")
	}

	var unlocks []MissingUnlock
	for _, sb := range builder.AllSpends() {
		unlocks = append(unlocks, sb.MissingUnlocks()...)
	}
	require.Len(t, unlocks, 2)
	assert.Equal(t, MissingPkhSigs{
		NumSigs: 1,
		SigOf:   []types.Digest{types.HashUint64(9)},
	}, unlocks[0])
	assert.Equal(t, MissingPreimages{
		PreimagesFor: []types.Digest{types.HashUint64(3)},
	}, unlocks[1])
}

func TestFromTxResumesSigning(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 4294967296)
	sc := testCondition(priv.PublicKey().Hash())

	// the resumed builder always assumes the default rate
	builder := NewTxBuilder(1 << 15)
	require.NoError(t, builder.SimpleSpend(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 1234567, types.HashUint64(6), false,
	))
	txn := builder.Build()

	resumed, err := TxBuilderFromTx(txn.ToRawTx(), builder.AllNotes())
	require.NoError(t, err)
	resumed.Sign(priv)
	require.NoError(t, resumed.Validate())
	assert.Equal(t, builder.Sign(priv).Build().ID, resumed.Build().ID)
}

func TestFromTxMissingNote(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 4294967296)
	sc := testCondition(priv.PublicKey().Hash())

	builder := NewTxBuilder(1)
	require.NoError(t, builder.SimpleSpend(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 1234567, types.HashUint64(6), false,
	))
	txn := builder.Build()

	_, err := TxBuilderFromTx(txn.ToRawTx(), nil)
	var notFound *NoteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, note.Name(), notFound.Name)
}

func TestFeeTargetPathIndependence(t *testing.T) {
	priv := types.GeneratePrivateKey()
	build := func() *TxBuilder {
		note := testNote(13, 7, 4294967296)
		sc := testCondition(priv.PublicKey().Hash())
		builder := NewTxBuilder(1)
		require.NoError(t, builder.SimpleSpend(
			[]InputNote{{Note: note, Condition: &sc}},
			types.HashUint64(2), 1234567, types.HashUint64(6), false,
		))
		return builder
	}
	sameState := func(a, b *TxBuilder) {
		t.Helper()
		assert.Equal(t, a.CurFee(), b.CurFee())
		spends := b.AllSpends()
		require.Equal(t, len(a.AllSpends()), len(spends))
		for name, sb := range a.AllSpends() {
			other, ok := spends[name]
			require.True(t, ok)
			assert.Equal(t, sb.Spend().Hash(), other.Spend().Hash())
		}
	}

	// raising through an intermediate target lands on the same state as
	// raising directly
	stepped := build()
	require.NoError(t, stepped.SetFeeAndBalanceRefund(1000000, false, false))
	require.NoError(t, stepped.SetFeeAndBalanceRefund(2520000, false, false))
	direct := build()
	require.NoError(t, direct.SetFeeAndBalanceRefund(2520000, false, false))
	sameState(direct, stepped)

	// lowering retraces it
	require.NoError(t, stepped.SetFeeAndBalanceRefund(300, false, false))
	lowered := build()
	require.NoError(t, lowered.SetFeeAndBalanceRefund(300, false, false))
	sameState(lowered, stepped)
}

func TestMinFeeFloor(t *testing.T) {
	priv := types.GeneratePrivateKey()
	note := testNote(13, 7, 5000)
	sc := testCondition(priv.PublicKey().Hash())

	builder := NewTxBuilder(1)
	require.NoError(t, builder.SimpleSpendBase(
		[]InputNote{{Note: note, Condition: &sc}},
		types.HashUint64(2), 100, types.HashUint64(6), false,
	))
	assert.Equal(t, types.MinFee, builder.CalcFee())
}
