package snapgene

import (
	"bytes"
	"errors"
	"testing"
)

// seg builds raw on-disk representation of a single segment.
func seg(id byte, content ...byte) []byte {
	n := len(content)
	out := []byte{id, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	return append(out, content...)
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func sampleFile() []byte {
	return join(
		seg(HeaderID, []byte("SnapGene\x00\x01\x00\x0f\x00\x13")...),
		seg(SequenceID, 0x13, 'A', 'C', 'G', 'T'),
		seg(5, []byte("<Primers/>")...),
		seg(6),
		seg(5, []byte("<Primers></Primers>")...),
	)
}

func TestDecode(t *testing.T) {
	segs, err := Decode(sampleFile())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wantIDs := []byte{9, 0, 5, 6, 5}
	if got := IDs(segs); !bytes.Equal(got, wantIDs) {
		t.Fatalf("IDs = %v, want %v", got, wantIDs)
	}

	for i, s := range segs {
		if int(s.Size()) != len(s.Content()) {
			t.Errorf("segment %d: Size() = %d, len(Content()) = %d", i, s.Size(), len(s.Content()))
		}
	}

	seq, ok := segs[1].(Sequence)
	if !ok {
		t.Fatalf("segment 1 is %T, want Sequence", segs[1])
	}
	if seq.TypeFlags() != 0x13 {
		t.Errorf("TypeFlags() = %#x, want 0x13", seq.TypeFlags())
	}
	if string(seq.Bases()) != "ACGT" {
		t.Errorf("Bases() = %q, want ACGT", seq.Bases())
	}

	for _, i := range []int{0, 2, 3, 4} {
		if _, ok := segs[i].(Plain); !ok {
			t.Errorf("segment %d is %T, want Plain", i, segs[i])
		}
	}
	if segs[3].Size() != 0 {
		t.Errorf("empty segment Size() = %d, want 0", segs[3].Size())
	}
}

func TestDecode_BigEndianSize(t *testing.T) {
	content := bytes.Repeat([]byte{'x'}, 0x0102)
	data := append([]byte{7, 0x00, 0x00, 0x01, 0x02}, content...)

	segs, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(segs) != 1 || segs[0].Size() != 0x0102 {
		t.Fatalf("got %d segments, size %d; want 1 segment of 258 bytes", len(segs), segs[0].Size())
	}
}

func TestDecode_Empty(t *testing.T) {
	segs, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) error = %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("Decode(nil) returned %d segments", len(segs))
	}
}

func TestDecode_DoesNotAliasInput(t *testing.T) {
	data := join(seg(HeaderID, 'a', 'b'), seg(SequenceID, 1, 'A'))
	segs, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	for i := range data {
		data[i] = 0xFF
	}
	if string(segs[0].Content()) != "ab" {
		t.Errorf("content changed with input: %q", segs[0].Content())
	}
	if seq := segs[1].(Sequence); seq.TypeFlags() != 1 || string(seq.Bases()) != "A" {
		t.Errorf("sequence changed with input: %v", seq)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   error
		offset int
		index  int
		id     byte
		haveID bool
	}{
		{
			name: "size exceeds remaining",
			data: join(seg(HeaderID, 'a'), []byte{5, 0, 0, 0, 10, 'x', 'y'}),
			want: ErrTruncatedSegment, offset: 6, index: 1, id: 5, haveID: true,
		},
		{
			name: "huge size",
			data: []byte{9, 0xFF, 0xFF, 0xFF, 0xFF, 1, 2, 3},
			want: ErrTruncatedSegment, offset: 0, index: 0, id: 9, haveID: true,
		},
		{
			name: "short size field",
			data: join(seg(HeaderID), []byte{3, 0, 0}),
			want: ErrTruncatedSegment, offset: 5, index: 1, id: 3, haveID: true,
		},
		{
			name: "empty sequence content",
			data: join(seg(HeaderID), seg(SequenceID)),
			want: ErrEmptySequence, offset: 5, index: 1, id: 0, haveID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := Decode(tt.data)
			if err == nil {
				t.Fatalf("Decode() = %d segments, want error", len(segs))
			}
			if segs != nil {
				t.Errorf("Decode() returned partial result of %d segments", len(segs))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DecodeError", err)
			}
			if de.Offset != tt.offset || de.Index != tt.index || de.ID != tt.id || de.HaveID != tt.haveID {
				t.Errorf("DecodeError = %+v, want offset %d index %d id %d", de, tt.offset, tt.index, tt.id)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"sample":     sampleFile(),
		"empty":      {},
		"duplicates": join(seg(9, 1), seg(2), seg(2, 'a'), seg(2), seg(0, 0)),
		"all ids": func() []byte {
			var b []byte
			for id := 0; id < 256; id++ {
				b = append(b, seg(byte(id), byte(id), 'x')...)
			}
			return b
		}(),
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			segs, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			out := Encode(segs)
			if !bytes.Equal(out, data) {
				t.Fatalf("Encode(Decode(b)) != b\n got: % x\nwant: % x", out, data)
			}
			if EncodedLen(segs) != len(data) {
				t.Errorf("EncodedLen() = %d, want %d", EncodedLen(segs), len(data))
			}

			again, err := Decode(out)
			if err != nil {
				t.Fatalf("second Decode() error = %v", err)
			}
			if len(again) != len(segs) {
				t.Fatalf("second Decode() = %d segments, want %d", len(again), len(segs))
			}
			for i := range segs {
				if !Equal(again[i], segs[i]) {
					t.Errorf("segment %d differs after round trip", i)
				}
			}
		})
	}
}

func TestEncode_RecomputesSize(t *testing.T) {
	seq := NewSequence(FlagCircular, []byte("ACGTACGT"))
	out := Encode([]Segment{MustNew(HeaderID, nil), seq.WithTypeFlags(FlagDoubleStranded)})

	want := join(seg(HeaderID), seg(SequenceID, FlagDoubleStranded, 'A', 'C', 'G', 'T', 'A', 'C', 'G', 'T'))
	if !bytes.Equal(out, want) {
		t.Errorf("Encode() = % x, want % x", out, want)
	}
}

func TestWriteTo(t *testing.T) {
	segs, err := Decode(sampleFile())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, segs)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(len(sampleFile())) {
		t.Errorf("WriteTo() = %d bytes, want %d", n, len(sampleFile()))
	}
	if !bytes.Equal(buf.Bytes(), sampleFile()) {
		t.Error("WriteTo() output differs from input")
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteTo_Error(t *testing.T) {
	segs, err := Decode(sampleFile())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, err := WriteTo(&failingWriter{after: 3}, segs); err == nil {
		t.Error("WriteTo() expected error from writer")
	}
}

func TestEncode_RejectsZeroValues(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
	}{
		{"plain", Plain{}},
		{"plain with sequence id", Plain{id: SequenceID, content: []byte("ACGT")}},
		{"sequence", Sequence{}},
	}
	for _, tt := range tests {
		segs := []Segment{MustNew(HeaderID, nil), tt.seg}
		t.Run(tt.name+"/Encode", func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Encode() expected panic")
				}
			}()
			Encode(segs)
		})
		t.Run(tt.name+"/WriteTo", func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("WriteTo() expected panic")
				}
			}()
			_, _ = WriteTo(&bytes.Buffer{}, segs)
		})
	}

	// valid segments with the same identifiers still encode into decodable data
	segs := []Segment{MustNew(HeaderID, nil), NewSequence(0, nil), MustNew(1, nil)}
	if _, err := Decode(Encode(segs)); err != nil {
		t.Errorf("Decode(Encode()) error = %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		segs, err := Parse(sampleFile())
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(segs) != 5 {
			t.Errorf("Parse() = %d segments, want 5", len(segs))
		}
	})

	t.Run("wrong first id", func(t *testing.T) {
		// second segment is truncated as well, signature must win
		data := join(seg(3, 'a'), []byte{0, 0, 0, 0, 99})
		_, err := Parse(data)
		if !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("Parse() error = %v, want ErrInvalidSignature", err)
		}
		if errors.Is(err, ErrTruncatedSegment) {
			t.Error("signature error must not be reported as truncation")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := Parse(nil); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("Parse(nil) error = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("truncated after header", func(t *testing.T) {
		data := join(seg(HeaderID, 'a'), []byte{0, 0, 0, 0, 99})
		if _, err := Parse(data); !errors.Is(err, ErrTruncatedSegment) {
			t.Errorf("Parse() error = %v, want ErrTruncatedSegment", err)
		}
	})
}

func TestCheckSignature(t *testing.T) {
	if err := CheckSignature([]Segment{MustNew(HeaderID, nil), MustNew(3, nil)}); err != nil {
		t.Errorf("CheckSignature() error = %v", err)
	}
	if err := CheckSignature([]Segment{MustNew(3, nil), MustNew(HeaderID, nil)}); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("CheckSignature() error = %v, want ErrInvalidSignature", err)
	}
	if err := CheckSignature(nil); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("CheckSignature(nil) error = %v, want ErrInvalidSignature", err)
	}
}
