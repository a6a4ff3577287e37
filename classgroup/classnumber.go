package classgroup

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"

	"github.com/dolthub/swiss"

	"github.com/predrag3141/quadclass/ideal"
	"github.com/predrag3141/quadclass/quadint"
	"github.com/predrag3141/quadclass/util"
)

// ClassNumber returns the order of the class group. It returns ErrTooLarge if the
// enumeration bound does not fit in an int64.
func (g *Group) ClassNumber() (int64, error) {
	var h int64
	var err error
	if g.order.Context().IsReal() {
		h, err = g.realClassNumber()
	} else {
		h, err = g.imaginaryClassNumber()
	}
	if err != nil {
		return 0, fmt.Errorf("ClassNumber: %w", err)
	}
	if util.IsLogLevelDebug() {
		util.Debugf(logPrefix, "class number of D = %v is %d", g.order.Context().D(), h)
	}
	return h, nil
}

// normDivisorPairs returns the divisor pairs (a, c), a <= c, with a c = |norm(r + w)|
func (g *Group) normDivisorPairs(r int64) [][2]*big.Int {
	n := g.order.Context().Norm(quadint.NewFromInt64(r, 1))
	d := g.order.Factorizer().Divisors(n)
	retVal := make([][2]*big.Int, 0, (len(d)+1)>>1)
	for k := 0; k < (len(d)+1)>>1; k++ {
		retVal = append(retVal, [2]*big.Int{d[k], d[len(d)-1-k]})
	}
	return retVal
}

// imaginaryClassNumber counts the reduced forms (a, b, c) with b = 2r + Dm4 >= 0 and
// a <= amax. Each divisor pair a c = norm(r + w) with b < a < c gives the two forms
// (a, +-b, c). When b = 0, a = b or a = c only (a, b, c) is reduced.
//
// Reference: H. Cohen, "A Course in Computational Algebraic Number Theory", Algorithm 5.3.5
func (g *Group) imaginaryClassNumber() (int64, error) {
	if !g.amax.IsInt64() {
		return 0, fmt.Errorf("amax = %v: %w", g.amax, ErrTooLarge)
	}
	bound := g.amax.Int64() >> 1
	dm4 := int64(g.order.Context().Dm4())
	var h int64
	for r := int64(0); r <= bound; r++ {
		b := big.NewInt((r << 1) + dm4)
		for _, ac := range g.normDivisorPairs(r) {
			a, c := ac[0], ac[1]
			switch {
			case (a.Cmp(b) == 0) || (a.Cmp(c) == 0) || (b.Sign() == 0):
				h++
			case a.Cmp(b) > 0:
				h += 2
			}
		}
	}
	return h, nil
}

// realClassNumber collects reduced ideals [a, r + w] with 0 <= r <= W1 and a > W1 - r,
// then removes the cycle of one of them at a time. Each cycle is one class.
//
// Reference: J. Buchmann and U. Vollmer, "Binary Quadratic Forms", section 6.17
func (g *Group) realClassNumber() (int64, error) {
	w1 := g.order.Context().W1()
	if !w1.IsInt64() {
		return 0, fmt.Errorf("W1 = %v: %w", w1, ErrTooLarge)
	}
	bound := w1.Int64()
	candidates := make([]*ideal.Ideal, 0)
	pending := swiss.NewMap[string, struct{}](uint32(bound + 1))
	add := func(a *big.Int, r int64) {
		A, err := g.order.New(a, new(big.Int).Mod(big.NewInt(r), a), big.NewInt(1))
		if err != nil {
			util.Panicf(logPrefix, "realClassNumber: could not create candidate: %v", err)
		}
		if key := A.String(); !pending.Has(key) {
			pending.Put(key, struct{}{})
			candidates = append(candidates, A)
		}
	}
	for r := int64(0); r <= bound; r++ {
		s := big.NewInt(bound - r)
		for _, ac := range g.normDivisorPairs(r) {
			a, c := ac[0], ac[1]
			if a.Cmp(s) <= 0 {
				continue
			}
			add(a, r)
			if a.Cmp(c) != 0 {
				add(c, r)
			}
		}
	}

	var h int64
	for _, A := range candidates {
		if !pending.Has(A.String()) {
			continue
		}
		cycleLen := 0
		for key := A.String(); pending.Has(key); key = A.String() {
			pending.Delete(key)
			next, _, err := g.order.CFrac(A, false)
			if err != nil {
				return 0, fmt.Errorf("could not step from %v: %w", A, err)
			}
			A = next
			cycleLen++
		}
		h++
		if util.IsLogLevelDebug() {
			util.Debugf(logPrefix, "class %d: removed %d candidates, %d remain", h, cycleLen, pending.Count())
		}
	}
	return h, nil
}
