// SPDX-License-Identifier: MIT

// Package matrix - Jacobi eigenvalues and the PSD test used by curvature checks.
package matrix

import (
	"fmt"
	"math"
)

// Operation name constants for unified error wrapping.
const (
	opEigen = "Eigenvalues"
	opIsPSD = "IsPSD"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns a private *Dense copy of m (row-major), reading through At
// for foreign implementations.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d.Clone().(*Dense), nil
	}
	r, c := m.Rows(), m.Cols()
	d, err := NewDense(r, c, WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			d.data[i*c+j] = v
		}
	}

	return d, nil
}

// Eigenvalues computes the eigenvalues of a symmetric matrix via cyclic-pivot
// Jacobi rotations.
// Implementation:
//   - Stage 1: Validate symmetric square input within eps.
//   - Stage 2: Repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and
//     annihilate it with a Jacobi rotation until max|A[p,q]| < eps.
//   - Stage 3: Return the diagonal.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry (validation),
//     ErrMatrixEigenFailed (not converged after the iteration cap).
//
// Determinism:
//   - Fixed i→j pivot search and fixed update order produce stable results.
//
// Complexity:
//   - Time O(maxIter * n^2), Space O(n^2).
func Eigenvalues(m Matrix, opts ...Option) ([]float64, error) {
	o := gatherOptions(opts...)
	if err := ValidateSymmetric(m, o.eps); err != nil {
		return nil, matrixErrorf(opEigen, err)
	}
	a, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opEigen, err)
	}
	n := a.r
	tol := math.Max(o.eps, math.SmallestNonzeroFloat64)

	var (
		iter                     int
		i, p, q                  int
		maxOff, off              float64
		app, aqq, apq, aip, aiq  float64
		theta, t, c, s, nip, niq float64
	)
	for iter = 0; iter < o.eigenMaxIter; iter++ {
		// J.1: find pivot (p,q) maximizing |A[p,q]|
		maxOff = 0
		for i = 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if off = math.Abs(a.data[i*n+j]); off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		// J.2: rotation parameters
		app, aqq, apq = a.data[p*n+p], a.data[q*n+q], a.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.3: apply rotation symmetrically
		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip, aiq = a.data[i*n+p], a.data[i*n+q]
			nip, niq = c*aip-s*aiq, s*aip+c*aiq
			a.data[i*n+p], a.data[p*n+i] = nip, nip
			a.data[i*n+q], a.data[q*n+i] = niq, niq
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		a.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		a.data[p*n+q], a.data[q*n+p] = 0, 0
	}
	if iter == o.eigenMaxIter {
		return nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, nil
}

// IsPSD reports whether a symmetric matrix is positive semidefinite, i.e. every
// eigenvalue is ≥ -eps·max(1, max|λ|).
// Errors: those of Eigenvalues.
func IsPSD(m Matrix, opts ...Option) (bool, error) {
	o := gatherOptions(opts...)
	eigs, err := Eigenvalues(m, opts...)
	if err != nil {
		return false, matrixErrorf(opIsPSD, err)
	}
	scale := 1.0
	for _, l := range eigs {
		scale = math.Max(scale, math.Abs(l))
	}
	for _, l := range eigs {
		if l < -o.eps*scale {
			return false, nil
		}
	}

	return true, nil
}
