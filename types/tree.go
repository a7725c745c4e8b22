package types

import "bytes"

// A Value can be stored in a Set or used as a Map key or value. Its noun
// form decides placement within the tree; its content digest feeds the
// structural hash.
type Value interface {
	Hashable
	NounEncoder
}

// A PriorityFunc derives the heap priority of a tree entry from its
// placement key. Entries with smaller priority bytes sit closer to the root.
type PriorityFunc func(key Digest) Digest

// DefaultPriority is the priority used by Set and Map: the key digest
// paired with itself.
var DefaultPriority PriorityFunc = func(key Digest) Digest {
	return hashPair(key, key)
}

type treeEntry interface {
	keyNoun() Noun
	pairHash() Digest
	pairNoun() Noun
}

type node[E treeEntry] struct {
	entry E
	key   [DigestSize]byte
	prio  [DigestSize]byte
	left  *node[E]
	right *node[E]
}

func newNode[E treeEntry](e E, prio PriorityFunc) *node[E] {
	key := e.keyNoun().Hash()
	return &node[E]{
		entry: e,
		key:   key.Bytes(),
		prio:  prio(key).Bytes(),
	}
}

// insertNode adds leaf to the tree rooted at n, restoring the heap property
// with a single rotation per level on the way back up. An entry whose key is
// already present is dropped and the tree is unchanged.
func insertNode[E treeEntry](n, leaf *node[E]) (*node[E], bool) {
	if n == nil {
		return leaf, true
	}
	switch bytes.Compare(leaf.key[:], n.key[:]) {
	case 0:
		return n, false
	case -1:
		l, ok := insertNode(n.left, leaf)
		n.left = l
		if bytes.Compare(n.prio[:], l.prio[:]) >= 0 {
			n.left = l.right
			l.right = n
			return l, ok
		}
		return n, ok
	default:
		r, ok := insertNode(n.right, leaf)
		n.right = r
		if bytes.Compare(n.prio[:], r.prio[:]) >= 0 {
			n.right = r.left
			r.left = n
			return r, ok
		}
		return n, ok
	}
}

func findNode[E treeEntry](n *node[E], key [DigestSize]byte) *node[E] {
	for n != nil {
		switch bytes.Compare(key[:], n.key[:]) {
		case 0:
			return n
		case -1:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil
}

func hashNode[E treeEntry](n *node[E]) Digest {
	if n == nil {
		return HashUint64(0)
	}
	return hashPair(n.entry.pairHash(), hashPair(hashNode(n.left), hashNode(n.right)))
}

func nounNode[E treeEntry](n *node[E]) Noun {
	if n == nil {
		return Atom(0)
	}
	return Cell(n.entry.pairNoun(), Cell(nounNode(n.left), nounNode(n.right)))
}

func cloneNode[E treeEntry](n *node[E]) *node[E] {
	if n == nil {
		return nil
	}
	c := *n
	c.left = cloneNode(n.left)
	c.right = cloneNode(n.right)
	return &c
}

// walkNode yields entries in canonical traversal order: each node is visited
// before its subtrees, and the right subtree drains before the left.
func walkNode[E treeEntry](root *node[E], fn func(E)) {
	if root == nil {
		return
	}
	stack := []*node[E]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n.entry)
		if n.left != nil {
			stack = append(stack, n.left)
		}
		if n.right != nil {
			stack = append(stack, n.right)
		}
	}
}

type setEntry[T Value] struct{ v T }

func (e setEntry[T]) keyNoun() Noun    { return e.v.Noun() }
func (e setEntry[T]) pairHash() Digest { return e.v.Hash() }
func (e setEntry[T]) pairNoun() Noun   { return e.v.Noun() }

// A Set is a canonical hash treap of values. Placement within the tree is a
// pure function of the member digests, so any two sets with the same members
// have the same shape, hash, and noun form. The zero value is an empty set
// ready for use.
type Set[T Value] struct {
	root *node[setEntry[T]]
	n    int
}

// Insert adds v to the set, returning false if a value with the same noun
// digest was already present.
func (s *Set[T]) Insert(v T) bool {
	root, ok := insertNode(s.root, newNode(setEntry[T]{v}, DefaultPriority))
	s.root = root
	if ok {
		s.n++
	}
	return ok
}

// Contains reports whether the set holds a value with the same noun digest
// as v.
func (s *Set[T]) Contains(v T) bool {
	return findNode(s.root, v.Noun().Hash().Bytes()) != nil
}

// Len returns the number of values in the set.
func (s *Set[T]) Len() int { return s.n }

// Values returns the members in canonical traversal order.
func (s *Set[T]) Values() []T {
	vs := make([]T, 0, s.n)
	walkNode(s.root, func(e setEntry[T]) { vs = append(vs, e.v) })
	return vs
}

// Retain rebuilds the set keeping only values for which keep returns true.
func (s *Set[T]) Retain(keep func(T) bool) {
	vs := s.Values()
	*s = Set[T]{}
	for _, v := range vs {
		if keep(v) {
			s.Insert(v)
		}
	}
}

// Clone returns a deep copy of the set structure. Members are shared.
func (s *Set[T]) Clone() Set[T] {
	return Set[T]{root: cloneNode(s.root), n: s.n}
}

// Hash implements Hashable. An empty set hashes as the zero atom; a node
// hashes as (value, (left, right)).
func (s Set[T]) Hash() Digest { return hashNode(s.root) }

// Noun implements NounEncoder.
func (s Set[T]) Noun() Noun { return nounNode(s.root) }

// SetOf builds a Set from the given values.
func SetOf[T Value](vs ...T) Set[T] {
	var s Set[T]
	for _, v := range vs {
		s.Insert(v)
	}
	return s
}

// A MapEntry is a key/value pair yielded by Map.Entries.
type MapEntry[K, V Value] struct {
	Key   K
	Value V
}

type mapEntry[K, V Value] struct {
	k K
	v V
}

func (e mapEntry[K, V]) keyNoun() Noun    { return e.k.Noun() }
func (e mapEntry[K, V]) pairHash() Digest { return hashPair(e.k.Hash(), e.v.Hash()) }
func (e mapEntry[K, V]) pairNoun() Noun   { return Cell(e.k.Noun(), e.v.Noun()) }

// A Map is a canonical hash treap of key/value pairs. Placement depends only
// on the key digests; any two maps with the same pairs have the same shape,
// hash, and noun form. The zero value is an empty map ready for use.
type Map[K, V Value] struct {
	root *node[mapEntry[K, V]]
	n    int
}

// Insert adds the pair (k, v), returning false if the key was already
// present. An existing pair is never overwritten.
func (m *Map[K, V]) Insert(k K, v V) bool {
	root, ok := insertNode(m.root, newNode(mapEntry[K, V]{k, v}, DefaultPriority))
	m.root = root
	if ok {
		m.n++
	}
	return ok
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if n := findNode(m.root, k.Noun().Hash().Bytes()); n != nil {
		return n.entry.v, true
	}
	var zero V
	return zero, false
}

// GetMut returns a pointer to the value stored under k, or nil if k is
// absent. Placement depends only on the key, so the value may be replaced in
// place; the map's hash and noun form change accordingly.
func (m *Map[K, V]) GetMut(k K) *V {
	if n := findNode(m.root, k.Noun().Hash().Bytes()); n != nil {
		return &n.entry.v
	}
	return nil
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool {
	return findNode(m.root, k.Noun().Hash().Bytes()) != nil
}

// Len returns the number of pairs in the map.
func (m *Map[K, V]) Len() int { return m.n }

// Entries returns the pairs in canonical traversal order.
func (m *Map[K, V]) Entries() []MapEntry[K, V] {
	es := make([]MapEntry[K, V], 0, m.n)
	walkNode(m.root, func(e mapEntry[K, V]) {
		es = append(es, MapEntry[K, V]{e.k, e.v})
	})
	return es
}

// Clone returns a deep copy of the map structure. Keys and values are
// shared.
func (m *Map[K, V]) Clone() Map[K, V] {
	return Map[K, V]{root: cloneNode(m.root), n: m.n}
}

// Hash implements Hashable. An empty map hashes as the zero atom; a node
// hashes as ((key, value), (left, right)).
func (m Map[K, V]) Hash() Digest { return hashNode(m.root) }

// Noun implements NounEncoder.
func (m Map[K, V]) Noun() Noun { return nounNode(m.root) }
