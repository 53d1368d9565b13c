package snapgene

import "strings"

// TypeFlags bits of the sequence segment. Bits above FlagEcoKI are not used.
const (
	FlagCircular       byte = 0x01
	FlagDoubleStranded byte = 0x02
	FlagDam            byte = 0x04
	FlagDcm            byte = 0x08
	FlagEcoKI          byte = 0x10
)

var flagLabels = [...]struct {
	mask     byte
	set, clr string
}{
	{FlagCircular, "Circular", "Linear"},
	{FlagDoubleStranded, "Double-stranded", "Single-stranded"},
	{FlagDam, "dam-methylated", "dam-non-methylated"},
	{FlagDcm, "dcm-methylated", "dcm-non-methylated"},
	{FlagEcoKI, "ecoKI-methylated", "ecoKI-non-methylated"},
}

// Describe turns sequence type flags into property labels: always one label
// per known bit, in fixed order.
func Describe(flags byte) []string {
	out := make([]string, 0, len(flagLabels))
	for _, l := range flagLabels {
		if flags&l.mask != 0 {
			out = append(out, l.set)
		} else {
			out = append(out, l.clr)
		}
	}
	return out
}

// DescribeString is Describe joined with commas.
func DescribeString(flags byte) string {
	return strings.Join(Describe(flags), ", ")
}
