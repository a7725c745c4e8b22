package types

import "testing"

func TestNounWords(t *testing.T) {
	tests := []struct {
		n    Noun
		want uint64
	}{
		{Atom(0), 1},
		{Atom(1 << 40), 1},
		{Cell(Atom(1), Atom(2)), 2},
		{Cell(Atom(1), Cell(Atom(2), Atom(3))), 3},
		{Cell(Cell(Atom(1), Atom(2)), Cell(Atom(3), Atom(4))), 4},
	}
	for _, tt := range tests {
		if got := tt.n.Words(); got != tt.want {
			t.Errorf("Words() = %d, want %d", got, tt.want)
		}
	}
}

func TestNounEqual(t *testing.T) {
	a := Cell(Atom(1), Cell(Atom(2), Atom(3)))
	b := Cell(Atom(1), Cell(Atom(2), Atom(3)))
	c := Cell(Atom(1), Cell(Atom(2), Atom(4)))
	if !a.Equal(b) {
		t.Fatal("identical nouns should be equal")
	}
	if a.Equal(c) || a.Equal(Atom(1)) {
		t.Fatal("distinct nouns should not be equal")
	}
}

func TestNounHashShape(t *testing.T) {
	// same leaves, different tree shape
	a := Cell(Cell(Atom(1), Atom(2)), Atom(3))
	b := Cell(Atom(1), Cell(Atom(2), Atom(3)))
	if a.Hash() == b.Hash() {
		t.Fatal("tree shape must affect the hash")
	}
	if Atom(7).Hash() != HashUint64(7) {
		t.Fatal("an atom should hash like a bare value")
	}
}

func TestTermAtom(t *testing.T) {
	tests := []struct {
		t    Term
		want uint64
	}{
		{"", 0},
		{"a", 0x61},
		{"pkh", 0x686b70},
		{"lock", 0x6b636f6c},
	}
	for _, tt := range tests {
		if got := tt.t.Atom(); got != tt.want {
			t.Errorf("Term(%q).Atom() = %#x, want %#x", tt.t, got, tt.want)
		}
	}
}

func TestTermTooLong(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for term over 8 bytes")
		}
	}()
	Term("ninechars").Atom()
}
