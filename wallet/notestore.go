package wallet

import (
	"bytes"
	"fmt"

	"go.etcd.io/bbolt"
	"go.ztx.dev/core/types"
)

var bucketNotes = []byte("Notes")

// A NoteStore persists spendable notes alongside the spend conditions that
// unlock them.
type NoteStore struct {
	db *bbolt.DB
}

// OpenNoteStore opens or creates a note store at the given path.
func OpenNoteStore(path string) (*NoteStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open note store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketNotes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &NoteStore{db: db}, nil
}

// Close flushes and closes the underlying database.
func (ns *NoteStore) Close() error {
	return ns.db.Close()
}

func nameKey(name types.Name) []byte {
	var buf bytes.Buffer
	e := types.NewEncoder(&buf)
	name.EncodeTo(e)
	e.Flush()
	return buf.Bytes()
}

func encodeInputNote(in InputNote) []byte {
	var buf bytes.Buffer
	e := types.NewEncoder(&buf)
	in.Note.EncodeTo(e)
	types.EncodePtr(e, in.Condition)
	e.Flush()
	return buf.Bytes()
}

func decodeInputNote(b []byte) (InputNote, error) {
	var in InputNote
	d := types.NewBufDecoder(b)
	in.Note.DecodeFrom(d)
	types.DecodePtr(d, &in.Condition)
	return in, d.Err()
}

// AddNote stores a note, keyed by its name. The condition may be nil for
// legacy notes.
func (ns *NoteStore) AddNote(note types.Note, sc *types.SpendCondition) error {
	return ns.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketNotes).Put(nameKey(note.Name()), encodeInputNote(InputNote{Note: note, Condition: sc}))
	})
}

// Note retrieves a note by name.
func (ns *NoteStore) Note(name types.Name) (InputNote, bool, error) {
	var in InputNote
	var found bool
	err := ns.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketNotes).Get(nameKey(name))
		if b == nil {
			return nil
		}
		var err error
		in, err = decodeInputNote(b)
		found = err == nil
		return err
	})
	return in, found, err
}

// RemoveNote deletes a note, typically after it has been spent.
func (ns *NoteStore) RemoveNote(name types.Name) error {
	return ns.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketNotes).Delete(nameKey(name))
	})
}

// Notes returns all stored notes, keyed by name.
func (ns *NoteStore) Notes() (map[types.Name]InputNote, error) {
	notes := make(map[types.Name]InputNote)
	err := ns.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(_, v []byte) error {
			in, err := decodeInputNote(v)
			if err != nil {
				return err
			}
			notes[in.Note.Name()] = in
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Balance sums the assets of all stored notes.
func (ns *NoteStore) Balance() (types.Nicks, error) {
	var total types.Nicks
	err := ns.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(_, v []byte) error {
			in, err := decodeInputNote(v)
			if err != nil {
				return err
			}
			total += in.Note.Assets()
			return nil
		})
	})
	return total, err
}
