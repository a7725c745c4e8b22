package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.ztx.dev/core/types"
)

func TestNoteStore(t *testing.T) {
	ns, err := OpenNoteStore(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	defer ns.Close()

	priv := types.GeneratePrivateKey()
	sc := testCondition(priv.PublicKey().Hash())
	n1 := testNote(13, 7, 3000)
	n2 := testNote(14, 6, 5000)

	require.NoError(t, ns.AddNote(n1, &sc))
	require.NoError(t, ns.AddNote(n2, nil))

	in, found, err := ns.Note(n1.Name())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, n1.Hash(), in.Note.Hash())
	require.NotNil(t, in.Condition)
	assert.Equal(t, sc.Hash(), in.Condition.Hash())

	notes, err := ns.Notes()
	require.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Nil(t, notes[n2.Name()].Condition)

	balance, err := ns.Balance()
	require.NoError(t, err)
	assert.Equal(t, types.Nicks(8000), balance)

	require.NoError(t, ns.RemoveNote(n1.Name()))
	_, found, err = ns.Note(n1.Name())
	require.NoError(t, err)
	assert.False(t, found)
}
