// Package stats holds the running summary kept for every key.
package stats

import "fmt"

// Accumulator is the running min/max/sum/count of the values seen for a key.
// A seeded Accumulator always has Count >= 1 and Min <= Max.
type Accumulator struct {
	Min   float64
	Max   float64
	Sum   float64
	Count uint64
}

// New returns an Accumulator seeded with its first observation.
func New(v float64) Accumulator {
	return Accumulator{Min: v, Max: v, Sum: v, Count: 1}
}

// Update folds one observation into a.
func (a *Accumulator) Update(v float64) {
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
	a.Sum += v
	a.Count++
}

// Merge folds other into a. Min, max and count are order independent; the
// sum is only up to floating-point rounding.
func (a *Accumulator) Merge(other Accumulator) {
	if other.Min < a.Min {
		a.Min = other.Min
	}
	if other.Max > a.Max {
		a.Max = other.Max
	}
	a.Sum += other.Sum
	a.Count += other.Count
}

// Mean is Sum / Count.
func (a Accumulator) Mean() float64 {
	return a.Sum / float64(a.Count)
}

func (a Accumulator) String() string {
	return fmt.Sprintf("%.1f/%.1f/%.1f", a.Min, a.Mean(), a.Max)
}
