package snapgene

import (
	"encoding/binary"
	"fmt"
)

// reader is a forward only cursor over immutable input.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) offset() int    { return r.pos }
func (r *reader) remaining() int { return len(r.data) - r.pos }
func (r *reader) done() bool     { return r.pos == len(r.data) }

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte, have %d", ErrTruncatedSegment, r.remaining())
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes for size, have %d", ErrTruncatedSegment, r.remaining())
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// readBytes returns next n bytes. Result aliases input.
func (r *reader) readBytes(n uint32) ([]byte, error) {
	if uint64(n) > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: declared %d bytes, have %d", ErrTruncatedSegment, n, r.remaining())
	}
	b := r.data[r.pos : r.pos+int(n) : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}
