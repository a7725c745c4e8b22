package types

import "fmt"

// A Noun is a binary tree whose leaves are unsigned integers. Every value
// that participates in hashing or treap placement first renders itself as a
// noun; the digest of the noun is the value's placement key.
type Noun struct {
	atom uint64
	sub  *[2]Noun
}

// Atom returns a leaf noun holding v.
func Atom(v uint64) Noun { return Noun{atom: v} }

// Cell returns an interior noun with the given head and tail.
func Cell(head, tail Noun) Noun { return Noun{sub: &[2]Noun{head, tail}} }

// IsAtom reports whether n is a leaf.
func (n Noun) IsAtom() bool { return n.sub == nil }

// AtomValue returns the integer held by a leaf noun. It panics if n is a
// cell.
func (n Noun) AtomValue() uint64 {
	if n.sub != nil {
		panic("AtomValue called on cell")
	}
	return n.atom
}

// Head returns the head of a cell noun. It panics if n is an atom.
func (n Noun) Head() Noun {
	if n.sub == nil {
		panic("Head called on atom")
	}
	return n.sub[0]
}

// Tail returns the tail of a cell noun. It panics if n is an atom.
func (n Noun) Tail() Noun {
	if n.sub == nil {
		panic("Tail called on atom")
	}
	return n.sub[1]
}

// Words returns the number of leaves in n. Fees are assessed per word.
func (n Noun) Words() uint64 {
	if n.sub == nil {
		return 1
	}
	return n.sub[0].Words() + n.sub[1].Words()
}

// Noun implements NounEncoder.
func (n Noun) Noun() Noun { return n }

func (n Noun) visit(leaves, dyck *[]uint64) {
	if n.sub == nil {
		*leaves = append(*leaves, n.atom)
		return
	}
	*dyck = append(*dyck, 0)
	n.sub[0].visit(leaves, dyck)
	*dyck = append(*dyck, 1)
	n.sub[1].visit(leaves, dyck)
}

// Hash implements Hashable. The digest commits to both the leaves and the
// tree structure: the sponge absorbs the leaf count, the leaves in visit
// order, and the Dyck word of the tree shape.
func (n Noun) Hash() Digest {
	var leaves, dyck []uint64
	n.visit(&leaves, &dyck)
	belts := make([]uint64, 0, 1+len(leaves)+len(dyck))
	belts = append(belts, uint64(len(leaves)))
	belts = append(belts, leaves...)
	belts = append(belts, dyck...)
	return hashVarlen(belts)
}

// Equal reports whether two nouns have identical structure and leaves.
func (n Noun) Equal(m Noun) bool {
	if (n.sub == nil) != (m.sub == nil) {
		return false
	}
	if n.sub == nil {
		return n.atom == m.atom
	}
	return n.sub[0].Equal(m.sub[0]) && n.sub[1].Equal(m.sub[1])
}

// nounChain right-nests its arguments without a terminator:
// (a, b, c) becomes [a [b c]].
func nounChain(ns ...Noun) Noun {
	if len(ns) == 0 {
		panic("nounChain: empty chain")
	}
	n := ns[len(ns)-1]
	for i := len(ns) - 2; i >= 0; i-- {
		n = Cell(ns[i], n)
	}
	return n
}

// nounList right-nests its arguments terminated by the zero atom. An empty
// list is the zero atom alone.
func nounList(ns ...Noun) Noun {
	n := Atom(0)
	for i := len(ns) - 1; i >= 0; i-- {
		n = Cell(ns[i], n)
	}
	return n
}

func nounBool(b bool) Noun {
	if b {
		return Atom(0)
	}
	return Atom(1)
}

// nounOption renders an optional value: absent is the zero atom, present is
// the cell (0, v).
func nounOption(v NounEncoder) Noun {
	if v == nil {
		return Atom(0)
	}
	return Cell(Atom(0), v.Noun())
}

// A Term is a short textual key, at most eight bytes, stored as a single
// atom with the bytes packed little-endian.
type Term string

// MaxTermLen is the longest representable Term.
const MaxTermLen = 8

// Atom returns the packed integer form of t. It panics if t exceeds
// MaxTermLen bytes.
func (t Term) Atom() uint64 {
	if len(t) > MaxTermLen {
		panic(fmt.Sprintf("term %q exceeds %d bytes", string(t), MaxTermLen))
	}
	var v uint64
	for i := 0; i < len(t); i++ {
		v |= uint64(t[i]) << (8 * i)
	}
	return v
}

// Noun implements NounEncoder.
func (t Term) Noun() Noun { return Atom(t.Atom()) }

// Hash implements Hashable.
func (t Term) Hash() Digest { return HashUint64(t.Atom()) }
