// Package dump renders decoded SnapGene segments for humans and tools.
package dump

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sgtool/snapgene"
)

var csvHeader = []string{"Identifier", "Size", "Content", "TypeFlags", "Sequence"}

// HexString renders bytes as 0x prefixed upper case hex, empty input gives
// empty string.
func HexString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "0x" + strings.ToUpper(hex.EncodeToString(b))
}

// CSV writes one record per segment in file order.
func CSV(w io.Writer, segs []snapgene.Segment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range segs {
		rec := []string{
			strconv.Itoa(int(s.ID())),
			strconv.FormatUint(uint64(s.Size()), 10),
			HexString(s.Content()),
			"",
			"",
		}
		if seq, ok := s.(snapgene.Sequence); ok {
			rec[3] = strconv.Itoa(int(seq.TypeFlags()))
			rec[4] = HexString(seq.Bases())
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Text writes plain text listing of segments. Content is shown as UTF-8 text
// with invalid sequences replaced, limit > 0 cuts it to that many bytes.
func Text(w io.Writer, segs []snapgene.Segment, limit int) error {
	tw := &textWriter{w: w}
	for i, s := range segs {
		if i > 0 {
			tw.println("")
		}
		if name := snapgene.Name(s.ID()); name != "" {
			tw.printf("ID: %d (%s)\n", s.ID(), name)
		} else {
			tw.printf("ID: %d\n", s.ID())
		}
		tw.printf("Size: %d\n", s.Size())
		tw.println("Content:")
		tw.println(printable(s.Content(), limit))
		if seq, ok := s.(snapgene.Sequence); ok {
			tw.printf("Sequence Type: %d (%s)\n", seq.TypeFlags(), snapgene.DescribeString(seq.TypeFlags()))
			tw.println(printable(seq.Bases(), limit))
		}
	}
	return tw.err
}

// textWriter remembers the first error so rendering code stays linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) println(s string) {
	t.printf("%s\n", s)
}
