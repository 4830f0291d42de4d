package constraint

// Kind enumerates the constraint variants.
type Kind int

const (
	KindZero Kind = iota
	KindNonNeg
	KindNonPos
	KindEquality
	KindInequality
	KindExpCone
	KindSOC
	KindPSD
)

var kindNames = [...]string{"Zero", "NonNeg", "NonPos", "Equality", "Inequality", "ExpCone", "SOC", "PSD"}

// String returns the variant name.
func (k Kind) String() string {
	if k < KindZero || k > KindPSD {
		return "Unknown"
	}

	return kindNames[k]
}

// ParseKind maps a variant name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}

	return 0, false
}
