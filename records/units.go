package records

import (
	"fmt"
	"strings"
)

var kgPerUnit = map[string]float64{
	"":      1,
	"kg":    1,
	"g":     0.001,
	"t":     1000,
	"ton":   1000,
	"tonne": 1000,
	"lb":    0.45359237,
	"lbs":   0.45359237,
}

// ToKg converts a weight in the given unit to kilograms. An empty unit means kilograms.
func ToKg(value float64, unit string) (float64, error) {
	factor, ok := kgPerUnit[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weight unit %q", ErrInvalidRecord, unit)
	}
	return value * factor, nil
}
