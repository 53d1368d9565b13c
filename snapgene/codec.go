package snapgene

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// segment header: identifier (1 byte) and big-endian size (4 bytes)
const headerLen = 5

// Decode splits data into segments preserving on-disk order. It consumes the
// whole input and fails on the first malformed segment, no partial result is
// ever returned. Returned segments do not share memory with data.
func Decode(data []byte) ([]Segment, error) {
	r := &reader{data: data}
	segs := make([]Segment, 0, 16)

	for !r.done() {
		start, index := r.offset(), len(segs)

		id, err := r.readByte()
		if err != nil {
			return nil, &DecodeError{Offset: start, Index: index, Err: err}
		}
		fail := func(err error) error {
			return &DecodeError{Offset: start, Index: index, ID: id, HaveID: true, Err: err}
		}

		size, err := r.readUint32()
		if err != nil {
			return nil, fail(err)
		}
		content, err := r.readBytes(size)
		if err != nil {
			return nil, fail(err)
		}
		seg, err := New(id, content)
		if err != nil {
			return nil, fail(err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// Parse decodes data as SnapGene file. Input is rejected with
// ErrInvalidSignature before anything else is looked at if it does not start
// with header segment.
func Parse(data []byte) ([]Segment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidSignature)
	}
	if data[0] != HeaderID {
		return nil, fmt.Errorf("%w: first segment id is %d", ErrInvalidSignature, data[0])
	}
	return Decode(data)
}

// CheckSignature verifies that decoded list starts with header segment.
func CheckSignature(segs []Segment) error {
	if len(segs) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidSignature)
	}
	if id := segs[0].ID(); id != HeaderID {
		return fmt.Errorf("%w: first segment id is %d", ErrInvalidSignature, id)
	}
	return nil
}

// EncodedLen returns number of bytes Encode will produce.
func EncodedLen(segs []Segment) int {
	n := 0
	for _, s := range segs {
		n += headerLen + len(s.Content())
	}
	return n
}

// Encode serializes segments in order. Size field is always computed from
// current content.
func Encode(segs []Segment) []byte {
	out := make([]byte, 0, EncodedLen(segs))
	for _, s := range segs {
		out = appendSegment(out, s)
	}
	return out
}

// WriteTo writes encoded segments to w and returns number of bytes written.
func WriteTo(w io.Writer, segs []Segment) (int64, error) {
	var (
		total int64
		hdr   = make([]byte, 0, headerLen)
	)
	for i, s := range segs {
		hdr = appendHeader(hdr[:0], s)
		n, err := w.Write(hdr)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write segment #%d header: %w", i, err)
		}
		n, err = w.Write(s.Content())
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write segment #%d content: %w", i, err)
		}
	}
	return total, nil
}

// appendHeader panics on segments constructors never produce: oversized
// content and zero values of Plain and Sequence, which would encode into
// data Decode rejects.
func appendHeader(b []byte, s Segment) []byte {
	content := s.Content()
	if uint64(len(content)) > math.MaxUint32 {
		panic(fmt.Sprintf("segment %d content does not fit size field (%d bytes)", s.ID(), len(content)))
	}
	switch s.(type) {
	case Plain:
		if s.ID() == SequenceID {
			panic("plain segment with sequence identifier, use New")
		}
	case Sequence:
		if len(content) == 0 {
			panic("sequence segment without type flags, use New or NewSequence")
		}
	}
	b = append(b, s.ID())
	return binary.BigEndian.AppendUint32(b, uint32(len(content)))
}

func appendSegment(b []byte, s Segment) []byte {
	b = appendHeader(b, s)
	return append(b, s.Content()...)
}
