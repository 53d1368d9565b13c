// Package common keeps enums shared between configuration and command line
// handling.
package common

import (
	"fmt"
	"strings"
)

// Specification of dump output.
type DumpFmt int

const (
	DumpFmtCsv DumpFmt = iota
	DumpFmtTxt
	DumpFmtSqlite
)

var dumpFmtNames = []string{"csv", "txt", "sqlite"}

func (d DumpFmt) String() string {
	if d >= 0 && int(d) < len(dumpFmtNames) {
		return dumpFmtNames[d]
	}
	return fmt.Sprintf("DumpFmt(%d)", int(d))
}

// IsValid reports whether d is one of the known formats.
func (d DumpFmt) IsValid() bool {
	return d >= 0 && int(d) < len(dumpFmtNames)
}

// Ext returns file extension for dump produced in this format.
func (d DumpFmt) Ext() string {
	switch d {
	case DumpFmtCsv:
		return ".csv"
	case DumpFmtTxt:
		return ".txt"
	case DumpFmtSqlite:
		return ".sqlite"
	default:
		// this should never happen
		panic("unsupported dump format requested")
	}
}

// DumpFmtNames returns list of possible string values of DumpFmt.
func DumpFmtNames() []string {
	return append([]string(nil), dumpFmtNames...)
}

// ParseDumpFmt attempts to convert a string to DumpFmt.
func ParseDumpFmt(name string) (DumpFmt, error) {
	for i, n := range dumpFmtNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return DumpFmt(i), nil
		}
	}
	return DumpFmt(0), fmt.Errorf("%s is not a valid DumpFmt, try [%s]", name, strings.Join(dumpFmtNames, ", "))
}

// ParseDumpFmts parses comma separated list of formats, dropping duplicates.
func ParseDumpFmts(list string) ([]DumpFmt, error) {
	var out []DumpFmt
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseDumpFmt(name)
		if err != nil {
			return nil, err
		}
		if !containsFmt(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no dump format specified")
	}
	return out, nil
}

func containsFmt(list []DumpFmt, f DumpFmt) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}

// MarshalText implements the text marshaller method.
func (d DumpFmt) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (d *DumpFmt) UnmarshalText(text []byte) error {
	v, err := ParseDumpFmt(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
