package coeff

import "fmt"

// Resolver returns the flattened (column-major) value of the parameter with the given id.
type Resolver func(id int) ([]float64, error)

// ParameterVector assembles θ of length total+1: parameter id occupies
// [idToCol[id], idToCol[id]+idToSize[id]) and θ[total] is the constant slot,
// 1 unless zeroOffset.
// Errors: ErrParamSize, ErrUnknownParameter, or the resolver's error.
func ParameterVector(total int, idToCol, idToSize map[int]int, resolve Resolver, zeroOffset bool) ([]float64, error) {
	theta := make([]float64, total+1)
	for id, col := range idToCol {
		size, ok := idToSize[id]
		if !ok || col < 0 || col+size > total {
			return nil, fmt.Errorf("ParameterVector: parameter %d: %w", id, ErrUnknownParameter)
		}
		v, err := resolve(id)
		if err != nil {
			return nil, fmt.Errorf("ParameterVector: parameter %d: %w", id, err)
		}
		if len(v) != size {
			return nil, fmt.Errorf("ParameterVector: parameter %d has %d values, want %d: %w", id, len(v), size, ErrParamSize)
		}
		copy(theta[col:], v)
	}
	if !zeroOffset {
		theta[total] = 1
	}

	return theta, nil
}
