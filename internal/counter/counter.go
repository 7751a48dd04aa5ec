// Package counter holds the saturating arithmetic shared by every XP and
// message counter. Counters are unsigned in Go but persisted as bigint, so the
// ceiling is math.MaxInt64.
package counter

import (
	"math"
	"math/bits"
)

// Max is the largest value a persisted counter can hold.
const Max uint64 = math.MaxInt64

// Add returns a+b, saturating at Max.
func Add(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 || sum > Max {
		return Max
	}
	return sum
}

// Clamp converts a counter to int64 for ranking and display without wrapping.
func Clamp(v uint64) int64 {
	if v > Max {
		return math.MaxInt64
	}
	return int64(v)
}

// Accumulator sums counters in 128 bits so intermediate totals never wrap.
type Accumulator struct {
	hi, lo uint64
}

func (a *Accumulator) Add(v uint64) {
	var carry uint64
	a.lo, carry = bits.Add64(a.lo, v, 0)
	a.hi += carry
}

// Value saturates the accumulated total back to Max.
func (a *Accumulator) Value() uint64 {
	if a.hi != 0 || a.lo > Max {
		return Max
	}
	return a.lo
}

// Sum adds values with an Accumulator.
func Sum(values ...uint64) uint64 {
	var acc Accumulator
	for _, v := range values {
		acc.Add(v)
	}
	return acc.Value()
}
