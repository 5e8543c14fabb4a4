// Package stacking applies diminishing returns to same-stat bonuses.
package stacking

import (
	"fmt"
	"math"
	"sort"
)

// Penalties scales the i-th stacked modifier. Modifiers beyond the table's
// length contribute nothing.
var Penalties = [...]float64{1, 0.87, 0.57, 0.28, 0.105, 0.03}

// Apply compounds modifiers onto base in the order given:
//
//	out = base
//	out += out * modifiers[i] * Penalties[i]
func Apply(base float64, modifiers []float64) float64 {
	out := base
	for i, m := range modifiers {
		if i >= len(Penalties) {
			break
		}
		out += out * m * Penalties[i]
	}
	return out
}

// Order selects which modifier receives which penalty factor.
type Order string

const (
	// Insertion penalises modifiers in the order their items were fitted.
	Insertion Order = "insertion"
	// Magnitude penalises the largest absolute modifier least.
	Magnitude Order = "magnitude"
)

// ParseOrder validates an Order read from configuration.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case Insertion, Magnitude:
		return Order(s), nil
	case "":
		return Insertion, nil
	}
	return "", fmt.Errorf("stacking order must be one of [insertion, magnitude], got %q", s)
}

// Apply compounds modifiers onto base using the ordering policy o.
//
// Postcondition: modifiers is not reordered in place.
func (o Order) Apply(base float64, modifiers []float64) float64 {
	if o != Magnitude {
		return Apply(base, modifiers)
	}
	sorted := make([]float64, len(modifiers))
	copy(sorted, modifiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i]) > math.Abs(sorted[j])
	})
	return Apply(base, sorted)
}
