package dump

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// printable decodes content as UTF-8 replacing invalid sequences with U+FFFD.
// When limit cuts content it never splits a multi-byte character.
func printable(b []byte, limit int) string {
	cut := 0
	if limit > 0 && len(b) > limit {
		end := limit
		for i := 0; i < utf8.UTFMax-1 && end > 0 && !utf8.RuneStart(b[end]); i++ {
			end--
		}
		if end == 0 || !utf8.RuneStart(b[end]) {
			// not a valid sequence anyway
			end = limit
		}
		cut = len(b) - end
		b = b[:end]
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		// decoder replaces bad input and never fails on it
		out = b
	}
	if cut > 0 {
		return fmt.Sprintf("%s... (%d more bytes)", out, cut)
	}
	return string(out)
}
