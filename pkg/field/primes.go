// Package field computes prime numbers and projects them into a
// 5-dimensional spiral parameterized by the Golden Ratio and two fixed
// resonance frequencies. It is the pure core of resonance: no I/O, no
// shared state, deterministic output for identical inputs.
package field

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for out-of-contract inputs (negative
// counts or bounds, non-prime values fed to the mapper).
var ErrInvalidArgument = errors.New("invalid argument")

// IsPrime reports whether p is prime by trial division up to sqrt(p).
func IsPrime(p int) bool {
	if p < 2 {
		return false
	}
	for d := 2; d*d <= p; d++ {
		if p%d == 0 {
			return false
		}
	}
	return true
}

// FirstN returns the first n primes in ascending order.
// n == 0 yields an empty slice; n < 0 is an error.
func FirstN(n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("count %d: %w", n, ErrInvalidArgument)
	}

	primes := make([]int, 0, n)
	for candidate := 2; len(primes) < n; candidate++ {
		if IsPrime(candidate) {
			primes = append(primes, candidate)
		}
	}
	return primes, nil
}

// UpTo returns all primes <= limit in ascending order using a sieve of
// Eratosthenes. limit < 2 yields an empty slice; limit < 0 is an error.
func UpTo(limit int) ([]int, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrInvalidArgument)
	}
	if limit < 2 {
		return []int{}, nil
	}

	composite := make([]bool, limit+1)
	for p := 2; p*p <= limit; p++ {
		if composite[p] {
			continue
		}
		for m := p * p; m <= limit; m += p {
			composite[m] = true
		}
	}

	primes := make([]int, 0, limit/2)
	for p := 2; p <= limit; p++ {
		if !composite[p] {
			primes = append(primes, p)
		}
	}
	return primes, nil
}
