package classgroup

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"

	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/groupgen"
	"github.com/predrag3141/quadclass/ideal"
	"github.com/predrag3141/quadclass/util"
)

// Generators returns generators of the class group with their orders, and the class
// number. The candidates are the classes of the prime ideals above the split and
// ramified primes p <= amax, which generate the class group.
//
// If minimal is set, each generator A of order n is replaced by the reduced ideal of
// smallest norm among the ideals representing the classes A^j with gcd(j, n) = 1. For
// D > 0 this includes every ideal of the cycle of A^j.
//
// Generators returns ErrTooLarge if amax does not fit in a uint64.
func (g *Group) Generators(minimal bool) ([]groupgen.Generator[*ideal.Ideal], int64, error) {
	if !g.amax.IsUint64() {
		return nil, 0, fmt.Errorf("Generators: amax = %v: %w", g.amax, ErrTooLarge)
	}
	bound := g.amax.Uint64()
	candidates := make([]*ideal.Ideal, 0)
	var seq factoring.PrimeSeq
	for p := seq.Next(); p <= bound; p = seq.Next() {
		bigP := new(big.Int).SetUint64(p)
		if g.order.Kronecker(bigP) < 0 {
			continue
		}
		P, err := g.order.Prime(bigP)
		if err != nil {
			return nil, 0, fmt.Errorf("Generators: could not get prime ideal above %d: %w", p, err)
		}
		candidates = append(candidates, g.Class(P))
	}
	generators, h, err := groupgen.Generators[*ideal.Ideal](g, candidates)
	if err != nil {
		return nil, 0, fmt.Errorf("Generators: %w", err)
	}
	if util.IsLogLevelDebug() {
		util.Debugf(
			logPrefix, "D = %v: %d candidates, %d generators, class number %d",
			g.order.Context().D(), len(candidates), len(generators), h,
		)
	}
	if !minimal {
		return generators, h, nil
	}
	for i := range generators {
		generators[i].Element = g.minimalGenerator(generators[i].Element, generators[i].Order)
	}
	return generators, h, nil
}

func (g *Group) minimalGenerator(A *ideal.Ideal, order int64) *ideal.Ideal {
	retVal := A
	isReal := g.order.Context().IsReal()
	B := g.Identity()
	for j := int64(1); j < order; j++ {
		B = g.Mul(B, A)
		if gcd(j, order) > 1 {
			continue
		}
		if B.A().Cmp(retVal.A()) < 0 {
			retVal = B
		}
		if !isReal {
			continue
		}
		for cyc := g.order.Cycle(B); cyc.Next(); {
			if E := cyc.Ideal(); E.A().Cmp(retVal.A()) < 0 {
				retVal = E
			}
		}
	}
	return retVal
}

func gcd(x, y int64) int64 {
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

// GeneratorRecord describes one generator [a, b.x + b.y w] of a class group
type GeneratorRecord struct {
	A     *big.Int `json:"a"`
	BX    *big.Int `json:"bx"`
	BY    *big.Int `json:"by"`
	Order int64    `json:"order"`
}

// Structure is the class number and a generating system of a class group
type Structure struct {
	Discriminant *big.Int          `json:"discriminant"`
	ClassNumber  int64             `json:"class_number"`
	Generators   []GeneratorRecord `json:"generators"`
}

// Structure returns the class number and minimal generators of g
func (g *Group) Structure() (*Structure, error) {
	generators, h, err := g.Generators(true)
	if err != nil {
		return nil, fmt.Errorf("Structure: %w", err)
	}
	retVal := &Structure{
		Discriminant: g.order.Context().D(),
		ClassNumber:  h,
		Generators:   make([]GeneratorRecord, len(generators)),
	}
	for i, gen := range generators {
		b := gen.Element.B()
		retVal.Generators[i] = GeneratorRecord{A: gen.Element.A(), BX: b.X, BY: b.Y, Order: gen.Order}
	}
	return retVal, nil
}

// JSON returns the JSON encoding of s
func (s *Structure) JSON() ([]byte, error) {
	retVal, err := util.MarshalJSON(s)
	if err != nil {
		return nil, fmt.Errorf("JSON: could not marshal structure of D = %v: %w", s.Discriminant, err)
	}
	return retVal, nil
}

// Orders returns the orders of the generators of s
func (s *Structure) Orders() []int64 {
	retVal := make([]int64, len(s.Generators))
	for i, gen := range s.Generators {
		retVal[i] = gen.Order
	}
	return retVal
}
