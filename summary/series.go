package summary

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch indicates a Series whose labels and values are not paired one to one.
var ErrLengthMismatch = errors.New("labels and values differ in length")

// Series is an ordered sequence of values paired positionally with category labels.
// The order defines the x-axis or slice order of the chart built from it.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// SeriesError reports which series failed validation.
type SeriesError struct {
	Series string
	Labels int
	Values int
	Err    error
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("series %q: %v (%d labels, %d values)", e.Series, e.Err, e.Labels, e.Values)
}

func (e *SeriesError) Unwrap() error {
	return e.Err
}

func (s Series) Validate() error {
	if len(s.Labels) != len(s.Values) {
		return &SeriesError{Series: s.Name, Labels: len(s.Labels), Values: len(s.Values), Err: ErrLengthMismatch}
	}
	return nil
}

func (s Series) Len() int {
	return len(s.Labels)
}

// Total sums every value of the series.
func (s Series) Total() float64 {
	var total float64
	for _, v := range s.Values {
		total += v
	}
	return total
}
