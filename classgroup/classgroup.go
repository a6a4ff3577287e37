package classgroup

// Copyright (c) 2025 Colin McRae

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/ideal"
	"github.com/predrag3141/quadclass/quadint"
)

// ErrTooLarge is returned when a bound of an enumeration does not fit in a machine word
var ErrTooLarge = errors.New("bound too large")

const logPrefix = "classgroup"

// Group is the ideal class group of the maximal order of a quadratic field. Its
// elements are reduced nonzero ideals, and two elements are equal when the ideals are
// equivalent. Every operation returns a reduced ideal. A Group is immutable and safe
// for concurrent use.
//
// Reference: T. Takagi, "Lectures on Elementary Number Theory", section 45
type Group struct {
	order *ideal.Order

	// amax bounds the norm of a reduced ideal in each class from above
	amax *big.Int
}

// New returns the class group for the fundamental discriminant D. It returns
// quadint.ErrInvalidDiscriminant if D is not fundamental.
func New(D *big.Int) (*Group, error) {
	if !factoring.IsFundamental(D) {
		return nil, fmt.Errorf("New: %v is not a fundamental discriminant: %w", D, quadint.ErrInvalidDiscriminant)
	}
	o, err := ideal.NewOrder(D)
	if err != nil {
		return nil, fmt.Errorf("New: could not create order: %w", err)
	}
	ctx := o.Context()
	amax := new(big.Int)
	if ctx.IsReal() {
		amax.Rsh(ctx.S(), 1)
	} else {
		amax.Mul(D, big.NewInt(-3))
		amax.Sqrt(amax)
		amax.Quo(amax, big.NewInt(3))
	}
	return &Group{order: o, amax: amax}, nil
}

// NewFromInt64 returns the class group of the fundamental discriminant D
func NewFromInt64(D int64) (*Group, error) {
	return New(big.NewInt(D))
}

// Order returns the maximal order whose ideals represent the classes of g
func (g *Group) Order() *ideal.Order {
	return g.order
}

// Amax returns a copy of the bound on the norm of reduced class representatives:
// sqrt(D)/2 for D > 0 and sqrt(-D/3) for D < 0
func (g *Group) Amax() *big.Int {
	return new(big.Int).Set(g.amax)
}

// Identity returns the unit ideal, which represents the principal class
func (g *Group) Identity() *ideal.Ideal {
	return g.order.Unit()
}

// Class returns the reduced representative of the class of A
func (g *Group) Class(A *ideal.Ideal) *ideal.Ideal {
	return g.order.Reduce(A)
}

func (g *Group) Mul(x, y *ideal.Ideal) *ideal.Ideal {
	return g.order.Reduce(g.order.Mul(x, y))
}

func (g *Group) Sqr(x *ideal.Ideal) *ideal.Ideal {
	return g.order.Reduce(g.order.Sqr(x))
}

// Inverse returns the class of the conjugate of x, since x conj(x) is principal
func (g *Group) Inverse(x *ideal.Ideal) *ideal.Ideal {
	return g.order.Reduce(g.order.Conj(x))
}

// Power returns x^n, reducing after every step. A negative n raises the inverse of x,
// and n = math.MinInt64 is allowed.
func (g *Group) Power(x *ideal.Ideal, n int64) *ideal.Ideal {
	e := uint64(n)
	if n < 0 {
		x = g.Inverse(x)
		e = uint64(-(n + 1)) + 1
	}
	retVal := g.Identity()
	for base := g.order.Reduce(x); e > 0; e >>= 1 {
		if e&1 == 1 {
			retVal = g.Mul(retVal, base)
		}
		if e > 1 {
			base = g.Sqr(base)
		}
	}
	return retVal
}

// Equal returns whether x and y are in the same class
func (g *Group) Equal(x, y *ideal.Ideal) bool {
	return g.order.IsEquivalent(x, y)
}
