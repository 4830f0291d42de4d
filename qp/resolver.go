package qp

import (
	"fmt"

	"github.com/katalvlaran/qpcanon/expr"
)

// ParamResolver returns the flattened (column-major) value of a parameter.
type ParamResolver func(p *expr.Parameter) ([]float64, error)

// StoredValues resolves every parameter to its currently stored value.
func StoredValues() ParamResolver {
	return func(p *expr.Parameter) ([]float64, error) {
		v, err := p.Value()
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", p.Name(), ErrMissingParameter, err)
		}

		return v.Flatten(), nil
	}
}

// Overrides resolves parameters present in values (keyed by parameter ID)
// from the map and falls back to the stored value otherwise.
func Overrides(values map[int][]float64) ParamResolver {
	stored := StoredValues()

	return func(p *expr.Parameter) ([]float64, error) {
		if v, ok := values[p.ID()]; ok {
			return v, nil
		}

		return stored(p)
	}
}
