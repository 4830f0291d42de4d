package expr

// Curvature classifies an expression under the disciplined convex rule set.
type Curvature int

const (
	// Constant expressions carry no variables.
	Constant Curvature = iota
	// Affine expressions are linear in the variables plus an offset.
	Affine
	// Convex expressions are certified convex.
	Convex
	// Concave expressions are certified concave.
	Concave
	// Unknown curvature cannot be certified.
	Unknown
)

var curvatureNames = [...]string{"CONSTANT", "AFFINE", "CONVEX", "CONCAVE", "UNKNOWN"}

// String returns the upper-case curvature name.
func (c Curvature) String() string {
	if c < Constant || c > Unknown {
		return "INVALID"
	}

	return curvatureNames[c]
}

// IsAffine reports Constant or Affine.
func (c Curvature) IsAffine() bool { return c == Constant || c == Affine }

// IsConvex reports Constant, Affine or Convex.
func (c Curvature) IsConvex() bool { return c.IsAffine() || c == Convex }

// IsConcave reports Constant, Affine or Concave.
func (c Curvature) IsConcave() bool { return c.IsAffine() || c == Concave }

// sumCurvature combines the curvature of two summands.
func sumCurvature(a, b Curvature) Curvature {
	switch {
	case a == Constant:
		return b
	case b == Constant:
		return a
	case a == Affine && b == Affine:
		return Affine
	case a.IsConvex() && b.IsConvex():
		return Convex
	case a.IsConcave() && b.IsConcave():
		return Concave
	}

	return Unknown
}

// negCurvature returns the curvature of -e.
func negCurvature(c Curvature) Curvature {
	switch c {
	case Convex:
		return Concave
	case Concave:
		return Convex
	}

	return c
}

// scaleCurvature returns the curvature of s·e for a constant factor of sign s.
func scaleCurvature(c Curvature, s sign) Curvature {
	switch {
	case c.IsAffine():
		return c
	case s == signZero:
		return Constant
	case s == signNonneg:
		return c
	case s == signNonpos:
		return negCurvature(c)
	}

	return Unknown
}

// sign is the certified sign of a variable-free expression.
type sign int

const (
	signUnknown sign = iota
	signNonneg
	signNonpos
	signZero
)

func negSign(s sign) sign {
	switch s {
	case signNonneg:
		return signNonpos
	case signNonpos:
		return signNonneg
	}

	return s
}

func mulSign(a, b sign) sign {
	switch {
	case a == signZero || b == signZero:
		return signZero
	case a == signUnknown || b == signUnknown:
		return signUnknown
	case a == b:
		return signNonneg
	}

	return signNonpos
}

func addSign(a, b sign) sign {
	switch {
	case a == signZero:
		return b
	case b == signZero:
		return a
	case a == b:
		return a
	}

	return signUnknown
}
