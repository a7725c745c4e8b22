package types

import (
	"testing"

	"lukechampine.com/frand"
)

func TestSetShapeIndependence(t *testing.T) {
	vals := make([]Nicks, 32)
	for i := range vals {
		vals[i] = Nicks(frand.Uint64n(1 << 40))
	}
	var fwd Set[Nicks]
	for _, v := range vals {
		fwd.Insert(v)
	}
	var rev Set[Nicks]
	for i := len(vals) - 1; i >= 0; i-- {
		rev.Insert(vals[i])
	}
	shuf := SetOf(vals...)
	if fwd.Hash() != rev.Hash() || fwd.Hash() != shuf.Hash() {
		t.Fatal("set hash depends on insertion order")
	}
	if !fwd.Noun().Equal(rev.Noun()) {
		t.Fatal("set noun depends on insertion order")
	}
	fv, rv := fwd.Values(), rev.Values()
	for i := range fv {
		if fv[i] != rv[i] {
			t.Fatalf("traversal order differs at %d: %v != %v", i, fv[i], rv[i])
		}
	}
}

func TestSetInsertDuplicate(t *testing.T) {
	var s Set[Nicks]
	if !s.Insert(7) {
		t.Fatal("first insert should report true")
	}
	if s.Insert(7) {
		t.Fatal("duplicate insert should report false")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 value, got %d", s.Len())
	}
	if !s.Contains(7) || s.Contains(8) {
		t.Fatal("bad membership")
	}
}

func TestSetEmptyHash(t *testing.T) {
	var s Set[Nicks]
	if s.Hash() != HashUint64(0) {
		t.Fatal("empty set should hash as the zero atom")
	}
	if !s.Noun().Equal(Atom(0)) {
		t.Fatal("empty set noun should be the zero atom")
	}
}

func TestSetRetain(t *testing.T) {
	s := SetOf[Nicks](1, 2, 3, 4, 5)
	s.Retain(func(n Nicks) bool { return n%2 == 0 })
	if s.Len() != 2 || !s.Contains(2) || !s.Contains(4) || s.Contains(3) {
		t.Fatal("retain kept the wrong values")
	}
	if s.Hash() != SetOf[Nicks](2, 4).Hash() {
		t.Fatal("retained set is not canonical")
	}
}

func TestSetClone(t *testing.T) {
	s := SetOf[Nicks](1, 2, 3)
	c := s.Clone()
	c.Insert(4)
	if s.Len() != 3 || s.Contains(4) {
		t.Fatal("mutating the clone affected the original")
	}
	if c.Len() != 4 || !c.Contains(4) {
		t.Fatal("clone did not accept the insert")
	}
}

func TestMapNoOverwrite(t *testing.T) {
	var m Map[Term, Nicks]
	if !m.Insert("a", 1) {
		t.Fatal("first insert should report true")
	}
	if m.Insert("a", 2) {
		t.Fatal("duplicate key insert should report false")
	}
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("expected original value 1, got %v", v)
	}
	if _, ok := m.Get("b"); ok {
		t.Fatal("lookup of absent key succeeded")
	}
}

func TestMapShapeIndependence(t *testing.T) {
	keys := []Term{"a", "bb", "ccc", "dddd", "lock", "pkh"}
	var fwd, rev Map[Term, Nicks]
	for i, k := range keys {
		fwd.Insert(k, Nicks(i))
	}
	for i := len(keys) - 1; i >= 0; i-- {
		rev.Insert(keys[i], Nicks(i))
	}
	if fwd.Hash() != rev.Hash() {
		t.Fatal("map hash depends on insertion order")
	}
	fe, re := fwd.Entries(), rev.Entries()
	for i := range fe {
		if fe[i] != re[i] {
			t.Fatalf("traversal order differs at %d", i)
		}
	}
}

func TestMapPlacementIgnoresValue(t *testing.T) {
	var a, b Map[Term, Nicks]
	a.Insert("x", 1)
	a.Insert("y", 2)
	b.Insert("x", 100)
	b.Insert("y", 200)
	an, bn := a.Noun(), b.Noun()
	// same keys, different values: same shape, different content
	if a.Hash() == b.Hash() {
		t.Fatal("maps with different values should hash differently")
	}
	if an.Words() != bn.Words() {
		t.Fatal("maps with the same keys should have the same shape")
	}
}

func TestMapGetMut(t *testing.T) {
	var m Map[Term, Nicks]
	m.Insert(Term("fee"), 100)
	m.Insert(Term("gift"), 200)

	if m.GetMut(Term("lock")) != nil {
		t.Fatal("expected nil for an absent key")
	}
	before := m.Hash()
	v := m.GetMut(Term("fee"))
	if v == nil || *v != 100 {
		t.Fatalf("expected 100, got %v", v)
	}
	*v = 300
	if got, _ := m.Get(Term("fee")); got != 300 {
		t.Fatal("replacement not visible through Get")
	}
	if m.Hash() == before {
		t.Fatal("hash should reflect the replaced value")
	}

	var rebuilt Map[Term, Nicks]
	rebuilt.Insert(Term("gift"), 200)
	rebuilt.Insert(Term("fee"), 300)
	if rebuilt.Hash() != m.Hash() {
		t.Fatal("mutated map should hash like a map built with the new value")
	}
}
