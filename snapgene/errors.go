package snapgene

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedSegment is returned when declared segment size exceeds
	// remaining input.
	ErrTruncatedSegment = errors.New("truncated segment")
	// ErrEmptySequence is returned when sequence segment has no type flags byte.
	ErrEmptySequence = errors.New("empty sequence segment content")
	// ErrInvalidSignature is returned when input does not start with header
	// segment, i.e. it is not a SnapGene file.
	ErrInvalidSignature = errors.New("not a SnapGene file")
)

// DecodeError describes where decoding stopped.
type DecodeError struct {
	// Offset of the first byte of the failed segment.
	Offset int
	// Index of the failed segment in the list.
	Index int
	// ID of the failed segment, valid when HaveID is set.
	ID     byte
	HaveID bool
	Err    error
}

func (e *DecodeError) Error() string {
	if e.HaveID {
		return fmt.Sprintf("segment #%d (id %d) at offset %d: %v", e.Index, e.ID, e.Offset, e.Err)
	}
	return fmt.Sprintf("segment #%d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
