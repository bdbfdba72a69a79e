package field

import (
	"fmt"
	"math"
)

// Mapping constants. Phi drives the spiral angle; FreqHigh and FreqLow are
// the two fixed resonance frequencies the mapping is parameterized by.
const (
	Phi      = 1.618033988749895 // Golden Ratio, (1+sqrt(5))/2
	FreqHigh = 528.0
	FreqLow  = 13.5

	// ToneModulus folds primes onto a 12-step scale before scaling by FreqHigh.
	ToneModulus = 12

	// Audible clamp range for ToneHz.
	MinToneHz = 20.0
	MaxToneHz = 20000.0
)

// Tuple is the per-prime record of derived coordinates, tone, and intensity.
// Index is 0-based: Tuple i corresponds to the i-th prime of the sequence.
type Tuple struct {
	Index     int     `json:"index"`
	Prime     int     `json:"prime"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	W         float64 `json:"w"`
	V         float64 `json:"v"`
	ToneHz    float64 `json:"tone_hz"`
	Intensity float64 `json:"intensity"`
	Dimension int     `json:"dimension"`
}

// Dimension classifies a prime into its resonance dimension: 5 for
// multiples of 13, 3 for multiples of 5, 2 otherwise.
func Dimension(p int) int {
	switch {
	case p%13 == 0:
		return 5
	case p%5 == 0:
		return 3
	default:
		return 2
	}
}

// MapPrime derives the attribute tuple for the i-th prime p.
//
// The spiral angle grows with the index scaled by the Golden Ratio, the
// radius with sqrt of the prime. Z oscillates with the low resonance
// frequency; W and V are secondary rotations of the same angle. All
// outputs are pure functions of (i, p) and the package constants.
func MapPrime(i, p int) (Tuple, error) {
	if p < 2 {
		return Tuple{}, fmt.Errorf("prime %d at index %d: %w", p, i, ErrInvalidArgument)
	}

	angle := float64(i) * Phi * 2 * math.Pi
	radius := math.Sqrt(float64(p))

	tone := FreqHigh * float64(p%ToneModulus) / ToneModulus

	return Tuple{
		Index:     i,
		Prime:     p,
		X:         radius * math.Cos(angle),
		Y:         radius * math.Sin(angle),
		Z:         math.Sin(float64(p) / FreqLow),
		W:         math.Cos(angle * Phi),
		V:         math.Sin(angle / Phi),
		ToneHz:    clamp(tone, MinToneHz, MaxToneHz),
		Intensity: clamp(1/math.Log(float64(p)+1), 0, 1),
		Dimension: Dimension(p),
	}, nil
}

// MapAll maps an ascending prime sequence to its index-aligned tuples.
// On the first out-of-contract value it fails with no partial output.
func MapAll(primes []int) ([]Tuple, error) {
	tuples := make([]Tuple, len(primes))
	for i, p := range primes {
		t, err := MapPrime(i, p)
		if err != nil {
			return nil, err
		}
		tuples[i] = t
	}
	return tuples, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
