// Package snapgene reads and writes SnapGene (.dna) files.
//
// A file is a flat list of segments, each one byte of identifier, four bytes
// of big-endian length and the content itself. Segment 0 holds the DNA
// sequence prefixed with a single byte of type flags; segment 9 must come
// first and serves as file signature. Everything else is kept opaque.
package snapgene

import (
	"bytes"
	"fmt"
	"math"
)

const (
	// SequenceID identifies the segment carrying sequence type flags and bases.
	SequenceID byte = 0
	// HeaderID identifies the signature segment which must open every file.
	HeaderID byte = 9
)

// NOTE: names are informational only, codec never depends on them.
var knownNames = map[byte]string{
	SequenceID: "DNA",
	5:          "Primers",
	6:          "Notes",
	HeaderID:   "Cookie",
	10:         "Features",
}

// Name returns human readable name for well known segment identifiers and
// empty string for everything else.
func Name(id byte) string {
	return knownNames[id]
}

// Segment is one typed length-prefixed chunk of the file. The only
// implementations are Plain and Sequence.
//
// Segments are values: content returned by accessors must not be modified.
type Segment interface {
	ID() byte
	Content() []byte
	Size() uint32

	segment()
}

// Plain is a segment with opaque content. Zero value is not a valid segment
// and cannot be encoded, use New.
type Plain struct {
	id      byte
	content []byte
}

func (p Plain) ID() byte        { return p.id }
func (p Plain) Content() []byte { return p.content }
func (p Plain) Size() uint32    { return uint32(len(p.content)) }
func (Plain) segment()          {}

func (p Plain) String() string {
	return fmt.Sprintf("segment %d (%d bytes)", p.id, len(p.content))
}

// Sequence is the segment with identifier 0. Its content is a single type
// flags byte followed by sequence bases, content is always at least one byte
// long. Zero value cannot be encoded, use NewSequence.
type Sequence struct {
	content []byte
}

// NewSequence builds sequence segment content from type flags and bases.
func NewSequence(flags byte, bases []byte) Sequence {
	content := make([]byte, 0, len(bases)+1)
	content = append(content, flags)
	content = append(content, bases...)
	return Sequence{content: content}
}

func (Sequence) ID() byte          { return SequenceID }
func (s Sequence) Content() []byte { return s.content }
func (s Sequence) Size() uint32    { return uint32(len(s.content)) }
func (Sequence) segment()          {}

// TypeFlags returns sequence properties bitfield, see Describe.
func (s Sequence) TypeFlags() byte {
	if len(s.content) == 0 {
		return 0
	}
	return s.content[0]
}

// Bases returns raw sequence bytes.
func (s Sequence) Bases() []byte {
	if len(s.content) == 0 {
		return nil
	}
	return s.content[1:]
}

// WithTypeFlags returns copy of the segment with new type flags. Content is
// re-synthesized so encoder always sees consistent data.
func (s Sequence) WithTypeFlags(flags byte) Sequence {
	return NewSequence(flags, s.Bases())
}

func (s Sequence) String() string {
	return fmt.Sprintf("sequence %d bases [%s]", len(s.Bases()), DescribeString(s.TypeFlags()))
}

// New makes segment of the proper shape for identifier. Content is copied.
func New(id byte, content []byte) (Segment, error) {
	if uint64(len(content)) > math.MaxUint32 {
		return nil, fmt.Errorf("segment %d: content too large (%d bytes)", id, len(content))
	}
	if id != SequenceID {
		return Plain{id: id, content: bytes.Clone(content)}, nil
	}
	if len(content) == 0 {
		return nil, ErrEmptySequence
	}
	return Sequence{content: bytes.Clone(content)}, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(id byte, content []byte) Segment {
	s, err := New(id, content)
	if err != nil {
		panic(err)
	}
	return s
}

// Equal reports whether two segments have the same identifier and content.
func Equal(a, b Segment) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID() && bytes.Equal(a.Content(), b.Content())
}

// IDs lists identifiers in order, handy for logging and tests.
func IDs(segs []Segment) []byte {
	out := make([]byte, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.ID())
	}
	return out
}

// FindSequence returns the first sequence segment of the list.
func FindSequence(segs []Segment) (Sequence, bool) {
	for _, s := range segs {
		if seq, ok := s.(Sequence); ok {
			return seq, true
		}
	}
	return Sequence{}, false
}
