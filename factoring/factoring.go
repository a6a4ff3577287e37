package factoring

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"
	"slices"
	"sync"

	"github.com/floatdrop/lru"
)

const (
	// DefaultCacheSize is the number of factorizations the package-level factorizer keeps
	DefaultCacheSize = 4096

	// trialDivisionBound is the largest trial divisor tried before switching to
	// Brent's variant of Pollard's rho
	trialDivisionBound = 1 << 12

	// millerRabinRounds is passed to big.Int.ProbablyPrime
	millerRabinRounds = 24
)

// PrimePower is p^e with p a positive prime and e >= 1
type PrimePower struct {
	Prime    *big.Int
	Exponent int
}

// Factorizer factors integers and remembers the most recent results. It is safe for
// concurrent use.
type Factorizer struct {
	mu    sync.Mutex
	cache *lru.LRU[string, []PrimePower]
}

// New returns a Factorizer that caches up to cacheSize factorizations. A cacheSize less
// than 1 is treated as 1.
func New(cacheSize int) *Factorizer {
	if cacheSize < 1 {
		cacheSize = 1
	}
	return &Factorizer{cache: lru.New[string, []PrimePower](cacheSize)}
}

var defaultFactorizer = New(DefaultCacheSize)

// Default returns the factorizer shared by the package-level functions
func Default() *Factorizer {
	return defaultFactorizer
}

// Factor returns the factorization of |n| with primes in increasing order. Factor of 0,
// 1 or -1 is empty.
func Factor(n *big.Int) []PrimePower {
	return defaultFactorizer.Factor(n)
}

// Divisors returns the positive divisors of |n| in increasing order
func Divisors(n *big.Int) []*big.Int {
	return defaultFactorizer.Divisors(n)
}

// Factor returns the factorization of |n| with primes in increasing order. The result
// belongs to the caller. Factor of 0, 1 or -1 is empty.
func (f *Factorizer) Factor(n *big.Int) []PrimePower {
	m := new(big.Int).Abs(n)
	if m.Cmp(big.NewInt(1)) <= 0 {
		return []PrimePower{}
	}
	key := m.String()
	f.mu.Lock()
	cached := f.cache.Get(key)
	f.mu.Unlock()
	if cached != nil {
		return copyPrimePowers(*cached)
	}

	primes := make([]*big.Int, 0)
	primes = trialDivide(m, primes)
	primes = splitCofactor(m, primes)
	slices.SortFunc(primes, func(x, y *big.Int) int { return x.Cmp(y) })
	retVal := make([]PrimePower, 0, len(primes))
	for _, p := range primes {
		if (len(retVal) > 0) && (retVal[len(retVal)-1].Prime.Cmp(p) == 0) {
			retVal[len(retVal)-1].Exponent++
			continue
		}
		retVal = append(retVal, PrimePower{Prime: p, Exponent: 1})
	}

	f.mu.Lock()
	f.cache.Set(key, retVal)
	f.mu.Unlock()
	return copyPrimePowers(retVal)
}

// Divisors returns the positive divisors of |n| in increasing order. Divisors of 0 is empty.
func (f *Factorizer) Divisors(n *big.Int) []*big.Int {
	if n.Sign() == 0 {
		return []*big.Int{}
	}
	retVal := []*big.Int{big.NewInt(1)}
	for _, pe := range f.Factor(n) {
		numPrev := len(retVal)
		pk := big.NewInt(1)
		for k := 1; k <= pe.Exponent; k++ {
			pk.Mul(pk, pe.Prime)
			for i := 0; i < numPrev; i++ {
				retVal = append(retVal, new(big.Int).Mul(retVal[i], pk))
			}
		}
	}
	slices.SortFunc(retVal, func(x, y *big.Int) int { return x.Cmp(y) })
	return retVal
}

// Conductor returns f and the fundamental discriminant d with D = f^2 d. It returns an
// error if D is zero or not congruent to 0 or 1 mod 4.
func Conductor(D *big.Int) (*big.Int, *big.Int, error) {
	if err := checkDiscriminant(D, "Conductor"); err != nil {
		return nil, nil, err
	}

	// D = f0^2 d0 with d0 squarefree
	f0 := big.NewInt(1)
	for _, pe := range Factor(D) {
		for k := 0; k < pe.Exponent/2; k++ {
			f0.Mul(f0, pe.Prime)
		}
	}
	d0 := new(big.Int).Quo(D, new(big.Int).Mul(f0, f0))
	if new(big.Int).Mod(d0, big.NewInt(4)).Int64() == 1 {
		return f0, d0, nil
	}

	// d0 is 2 or 3 mod 4. Since D is 0 or 1 mod 4, f0 is even and D = (f0/2)^2 (4 d0).
	return new(big.Int).Rsh(f0, 1), new(big.Int).Lsh(d0, 2), nil
}

// IsFundamental returns whether D is a fundamental discriminant, i.e. the discriminant of
// the maximal order of a quadratic field. Squares such as 1 are included; callers that
// need a field exclude them separately.
func IsFundamental(D *big.Int) bool {
	f, _, err := Conductor(D)
	if err != nil {
		return false
	}
	return f.Cmp(big.NewInt(1)) == 0
}

func checkDiscriminant(D *big.Int, caller string) error {
	if D.Sign() == 0 {
		return fmt.Errorf("%s: discriminant is zero", caller)
	}
	if dm4 := new(big.Int).Mod(D, big.NewInt(4)).Int64(); dm4 > 1 {
		return fmt.Errorf("%s: %v = %d mod 4 is not a discriminant", caller, D, dm4)
	}
	return nil
}

// trialDivide divides the small prime factors out of m, appending them to primes with
// multiplicity. m is modified in place.
func trialDivide(m *big.Int, primes []*big.Int) []*big.Int {
	q, r, d := new(big.Int), new(big.Int), new(big.Int)
	var seq PrimeSeq
	for p := seq.Next(); p <= trialDivisionBound; p = seq.Next() {
		d.SetUint64(p)
		if d.Cmp(m) > 0 {
			break
		}
		for {
			q.QuoRem(m, d, r)
			if r.Sign() != 0 {
				break
			}
			m.Set(q)
			primes = append(primes, new(big.Int).Set(d))
		}
	}
	return primes
}

// splitCofactor appends the prime factors of m, which has no factor below the trial
// division bound, to primes.
func splitCofactor(m *big.Int, primes []*big.Int) []*big.Int {
	if m.Cmp(big.NewInt(1)) == 0 {
		return primes
	}
	if m.ProbablyPrime(millerRabinRounds) {
		return append(primes, new(big.Int).Set(m))
	}
	if r := new(big.Int).Sqrt(m); new(big.Int).Mul(r, r).Cmp(m) == 0 {
		primes = splitCofactor(r, primes)
		return splitCofactor(r, primes)
	}
	d := brentRho(m)
	primes = splitCofactor(d, primes)
	return splitCofactor(new(big.Int).Quo(m, d), primes)
}

// brentRho returns a non-trivial factor of the odd composite n, using Brent's cycle
// detection on x -> x^2 + c mod n and batching |x - y| products into one gcd per
// batchSize steps. A c for which the cycle closes without a factor is replaced by c+1.
//
// Reference: R. P. Brent, "An improved Monte Carlo factorization algorithm", BIT 20 (1980)
func brentRho(n *big.Int) *big.Int {
	const batchSize = 128
	one := big.NewInt(1)
	diff := new(big.Int)
	step := func(x, c *big.Int) {
		x.Mul(x, x)
		x.Add(x, c)
		x.Mod(x, n)
	}
	for c := big.NewInt(1); ; c.Add(c, one) {
		x, y, ys := new(big.Int), big.NewInt(2), new(big.Int)
		q, g := big.NewInt(1), big.NewInt(1)
		for r := 1; g.Cmp(one) == 0; r *= 2 {
			x.Set(y)
			for i := 0; i < r; i++ {
				step(y, c)
			}
			for k := 0; (k < r) && (g.Cmp(one) == 0); k += batchSize {
				ys.Set(y)
				for i := 0; (i < batchSize) && (i < r-k); i++ {
					step(y, c)
					q.Mul(q, diff.Abs(diff.Sub(x, y)))
					q.Mod(q, n)
				}
				g.GCD(nil, nil, q, n)
			}
		}
		if g.Cmp(n) == 0 {
			// The batch overshot; redo it one step at a time
			for {
				step(ys, c)
				g.GCD(nil, nil, diff.Abs(diff.Sub(x, ys)), n)
				if g.Cmp(one) != 0 {
					break
				}
			}
		}
		if g.Cmp(n) != 0 {
			return g
		}
	}
}

func copyPrimePowers(x []PrimePower) []PrimePower {
	retVal := make([]PrimePower, len(x))
	for i, pe := range x {
		retVal[i] = PrimePower{Prime: new(big.Int).Set(pe.Prime), Exponent: pe.Exponent}
	}
	return retVal
}
