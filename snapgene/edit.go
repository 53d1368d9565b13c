package snapgene

// RemoveFirst returns new list without the first segment with identifier id.
// Later segments with the same identifier are kept. When nothing matches the
// result has the same segments as the input. Input is never modified.
func RemoveFirst(segs []Segment, id byte) []Segment {
	out := make([]Segment, 0, len(segs))
	removed := false
	for _, s := range segs {
		if !removed && s.ID() == id {
			removed = true
			continue
		}
		out = append(out, s)
	}
	return out
}

// SetTypeFlags returns new list where the first sequence segment is replaced
// by one with the given type flags. Reports false if there is no sequence
// segment, in which case the list is returned as is.
func SetTypeFlags(segs []Segment, flags byte) ([]Segment, bool) {
	for i, s := range segs {
		seq, ok := s.(Sequence)
		if !ok {
			continue
		}
		out := make([]Segment, len(segs))
		copy(out, segs)
		out[i] = seq.WithTypeFlags(flags)
		return out, true
	}
	return segs, false
}
