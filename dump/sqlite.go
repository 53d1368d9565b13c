package dump

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"sgtool/snapgene"
)

const schema = `
CREATE TABLE IF NOT EXISTS source (
	name TEXT NOT NULL,
	segments INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS segments (
	position INTEGER PRIMARY KEY,
	identifier INTEGER NOT NULL,
	name TEXT,
	size INTEGER NOT NULL,
	content BLOB,
	type_flags INTEGER,
	type_labels TEXT,
	sequence BLOB
);
CREATE INDEX IF NOT EXISTS segments_identifier ON segments(identifier);
`

// SQLite writes segments into a new database at path. Everything is written
// in a single transaction.
func SQLite(path, source string, segs []snapgene.Segment) (err error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return writeSegments(conn, source, segs)
}

func writeSegments(conn *sqlite.Conn, source string, segs []snapgene.Segment) (err error) {
	defer sqlitex.Save(conn)(&err)

	if err := sqlitex.Execute(conn, `INSERT INTO source (name, segments) VALUES (?, ?)`,
		&sqlitex.ExecOptions{Args: []any{source, len(segs)}}); err != nil {
		return fmt.Errorf("insert source: %w", err)
	}

	stmt := conn.Prep(`INSERT INTO segments (position, identifier, name, size, content, type_flags, type_labels, sequence)
		VALUES ($pos, $id, $name, $size, $content, $flags, $labels, $seq)`)
	for i, s := range segs {
		stmt.SetInt64("$pos", int64(i))
		stmt.SetInt64("$id", int64(s.ID()))
		if name := snapgene.Name(s.ID()); name != "" {
			stmt.SetText("$name", name)
		} else {
			stmt.SetNull("$name")
		}
		stmt.SetInt64("$size", int64(s.Size()))
		stmt.SetBytes("$content", s.Content())
		if seq, ok := s.(snapgene.Sequence); ok {
			stmt.SetInt64("$flags", int64(seq.TypeFlags()))
			stmt.SetText("$labels", snapgene.DescribeString(seq.TypeFlags()))
			stmt.SetBytes("$seq", seq.Bases())
		} else {
			stmt.SetNull("$flags")
			stmt.SetNull("$labels")
			stmt.SetNull("$seq")
		}
		if _, err := stmt.Step(); err != nil {
			return fmt.Errorf("insert segment #%d: %w", i, err)
		}
		if err := stmt.Reset(); err != nil {
			return err
		}
	}
	return nil
}
