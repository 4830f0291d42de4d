package expr

// Ref addresses one scalar entry of a leaf: element Elem (column-major) of
// the variable or parameter with identifier ID. The zero Ref is the constant
// slot One.
type Ref struct {
	ID   int
	Elem int
}

// One is the constant slot: as a variable reference it marks an offset term,
// as a parameter reference it marks a parameter-free coefficient.
var One = Ref{}

// IsOne reports whether r is the constant slot.
func (r Ref) IsOne() bool { return r.ID == 0 }

// Term is one entry of a parametrized affine map:
//
//	out[Row] += Coef · θ[Param] · x[Var]
type Term struct {
	Row   int
	Var   Ref
	Param Ref
	Coef  float64
}

// QuadTerm is one entry of a parametrized scalar quadratic form:
//
//	out += Coef · θ[Param] · x[Var1] · x[Var2]
type QuadTerm struct {
	Var1, Var2 Ref
	Param      Ref
	Coef       float64
}

// Canon is the canonical form of an expression with Rows scalar entries.
// Quad is non-empty only for scalar quadratic expressions.
type Canon struct {
	Rows int
	Lin  []Term
	Quad []QuadTerm
}

// mulRef combines the references of two factors; at most one may be non-constant.
func mulRef(a, b Ref, conflict error) (Ref, error) {
	switch {
	case a.IsOne():
		return b, nil
	case b.IsOne():
		return a, nil
	}

	return One, conflict
}

// mulTerms multiplies two terms into the given output row.
func mulTerms(row int, a, b Term) (Term, error) {
	v, err := mulRef(a.Var, b.Var, ErrNotAffine)
	if err != nil {
		return Term{}, err
	}
	p, err := mulRef(a.Param, b.Param, ErrNotDPP)
	if err != nil {
		return Term{}, err
	}

	return Term{Row: row, Var: v, Param: p, Coef: a.Coef * b.Coef}, nil
}

// scaleQuad multiplies a quadratic term by a variable-free scalar term.
func scaleQuad(q QuadTerm, t Term) (QuadTerm, error) {
	if !t.Var.IsOne() {
		return QuadTerm{}, ErrNotQuadratic
	}
	p, err := mulRef(q.Param, t.Param, ErrNotDPP)
	if err != nil {
		return QuadTerm{}, err
	}

	return QuadTerm{Var1: q.Var1, Var2: q.Var2, Param: p, Coef: q.Coef * t.Coef}, nil
}

// byRow groups terms by output row.
func byRow(terms []Term, rows int) [][]Term {
	out := make([][]Term, rows)
	for _, t := range terms {
		out[t.Row] = append(out[t.Row], t)
	}

	return out
}

// broadcastRows replicates the terms of a scalar canon across n rows.
func broadcastRows(c *Canon, n int) []Term {
	if c.Rows == n {
		return c.Lin
	}
	out := make([]Term, 0, len(c.Lin)*n)
	for r := 0; r < n; r++ {
		for _, t := range c.Lin {
			t.Row = r
			out = append(out, t)
		}
	}

	return out
}
