package factoring

// Copyright (c) 2025 Colin McRae

import (
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// PrimeSeq enumerates the primes 2, 3, 5, 7, ... in order. The zero value starts at 2.
type PrimeSeq struct {
	last uint64
}

// Next returns the smallest prime greater than the previous one returned
func (s *PrimeSeq) Next() uint64 {
	switch {
	case s.last < 2:
		s.last = 2
		return 2
	case s.last == 2:
		s.last = 3
		return 3
	}
	for candidate := s.last + 2; ; candidate += 2 {
		if ring.IsPrime(candidate) {
			s.last = candidate
			return candidate
		}
	}
}

// Legendre returns the Legendre symbol (d/p) for an odd prime p, by Euler's criterion
// d^((p-1)/2) = (d/p) mod p.
func Legendre(d *big.Int, p uint64) int {
	r := new(big.Int).Mod(d, new(big.Int).SetUint64(p)).Uint64()
	if r == 0 {
		return 0
	}
	if ring.ModExp(r, (p-1)>>1, p) == 1 {
		return 1
	}
	return -1
}
