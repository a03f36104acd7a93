package resample

import (
	"fmt"
	"math"
	"strings"
)

// Summation selects how weighted values are accumulated within a bucket.
type Summation int

const (
	// SummationNaive keeps a plain running sum.
	SummationNaive Summation = iota
	// SummationKahan uses Neumaier's compensated summation.
	SummationKahan
)

// String returns the config name of the summation mode.
func (s Summation) String() string {
	switch s {
	case SummationNaive:
		return "naive"
	case SummationKahan:
		return "kahan"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseSummation parses a summation mode name.
func ParseSummation(s string) (Summation, error) {
	switch strings.ToLower(s) {
	case "naive", "":
		return SummationNaive, nil
	case "kahan", "neumaier", "compensated":
		return SummationKahan, nil
	default:
		return SummationNaive, fmt.Errorf("unknown summation: %s", s)
	}
}

type accumulator interface {
	Add(v float64)
	Sum() float64
	Reset()
}

func newAccumulator(s Summation) accumulator {
	if s == SummationKahan {
		return &kahanSum{}
	}
	return &naiveSum{}
}

type naiveSum struct {
	sum float64
}

func (n *naiveSum) Add(v float64) { n.sum += v }
func (n *naiveSum) Sum() float64  { return n.sum }
func (n *naiveSum) Reset()        { n.sum = 0 }

type kahanSum struct {
	sum float64
	c   float64
}

func (k *kahanSum) Add(v float64) {
	t := k.sum + v
	if math.Abs(k.sum) >= math.Abs(v) {
		k.c += (k.sum - t) + v
	} else {
		k.c += (v - t) + k.sum
	}
	k.sum = t
}

func (k *kahanSum) Sum() float64 { return k.sum + k.c }

func (k *kahanSum) Reset() {
	k.sum = 0
	k.c = 0
}
