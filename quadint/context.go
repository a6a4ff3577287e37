package quadint

// Copyright (c) 2025 Colin McRae

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidDiscriminant is returned when a discriminant is zero, is not congruent to 0
// or 1 mod 4, or is a positive perfect square.
var ErrInvalidDiscriminant = errors.New("invalid discriminant")

// Context is the discriminant of a quadratic order together with the constants derived
// from it. It is immutable once built and can be shared freely, including between
// goroutines.
//
// For D = 0 or 1 mod 4 the order is Z[w] where
//
//	w = sqrt(D) / 2        when D = 0 mod 4
//	w = (1 + sqrt(D)) / 2  when D = 1 mod 4
//
// so that w^2 = D4 when D = 0 mod 4 and w^2 = w + D4 when D = 1 mod 4, with
// D4 = (D - Dm4) / 4 and Dm4 = D mod 4.
//
// When D > 0, S = floor(sqrt(D)), W = floor((S + Dm4)/2) and W1 = floor((S - Dm4)/2)
// bound the coefficients of reduced ideals.
type Context struct {
	d   *big.Int
	d4  *big.Int
	dm4 int
	s   *big.Int
	w   *big.Int
	w1  *big.Int
}

// NewContext returns the context for discriminant D
func NewContext(D *big.Int) (*Context, error) {
	if D.Sign() == 0 {
		return nil, fmt.Errorf("NewContext: discriminant is zero: %w", ErrInvalidDiscriminant)
	}
	dm4 := new(big.Int).Mod(D, big.NewInt(4)).Int64()
	if dm4 > 1 {
		return nil, fmt.Errorf("NewContext: %v = %d mod 4: %w", D, dm4, ErrInvalidDiscriminant)
	}
	retVal := &Context{
		d:   new(big.Int).Set(D),
		d4:  new(big.Int).Rsh(new(big.Int).Sub(D, big.NewInt(dm4)), 2),
		dm4: int(dm4),
		s:   big.NewInt(0),
		w:   big.NewInt(0),
		w1:  big.NewInt(0),
	}
	if D.Sign() > 0 {
		retVal.s.Sqrt(D)
		if new(big.Int).Mul(retVal.s, retVal.s).Cmp(D) == 0 {
			return nil, fmt.Errorf("NewContext: %v is a perfect square: %w", D, ErrInvalidDiscriminant)
		}
		retVal.w.Rsh(new(big.Int).Add(retVal.s, big.NewInt(dm4)), 1)
		retVal.w1.Rsh(new(big.Int).Sub(retVal.s, big.NewInt(dm4)), 1)
	}
	return retVal, nil
}

// NewContextFromInt64 returns the context of discriminant D, like NewContext
func NewContextFromInt64(D int64) (*Context, error) {
	return NewContext(big.NewInt(D))
}

// D returns a copy of the discriminant
func (c *Context) D() *big.Int {
	return new(big.Int).Set(c.d)
}

// D4 returns a copy of (D - Dm4) / 4
func (c *Context) D4() *big.Int {
	return new(big.Int).Set(c.d4)
}

// Dm4 returns D mod 4, which is 0 or 1
func (c *Context) Dm4() int {
	return c.dm4
}

// S returns a copy of floor(sqrt(D)) when D > 0, and 0 otherwise
func (c *Context) S() *big.Int {
	return new(big.Int).Set(c.s)
}

// W returns a copy of floor((S + Dm4)/2) when D > 0, and 0 otherwise
func (c *Context) W() *big.Int {
	return new(big.Int).Set(c.w)
}

// W1 returns a copy of floor((S - Dm4)/2) when D > 0, and 0 otherwise
func (c *Context) W1() *big.Int {
	return new(big.Int).Set(c.w1)
}

// IsReal returns whether D > 0
func (c *Context) IsReal() bool {
	return c.d.Sign() > 0
}

func (c *Context) String() string {
	return fmt.Sprintf("D = %v", c.d)
}
