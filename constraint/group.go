package constraint

// Group buckets constraints by kind, keeping their relative order.
func Group(cs []Constraint) map[Kind][]Constraint {
	out := make(map[Kind][]Constraint)
	for _, c := range cs {
		out[c.Kind()] = append(out[c.Kind()], c)
	}

	return out
}

// TotalSize returns the sum of the sizes of cs.
func TotalSize(cs []Constraint) int {
	n := 0
	for _, c := range cs {
		n += c.Size()
	}

	return n
}
