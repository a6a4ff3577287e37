package quadint

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"
	"math/bits"
)

// Int is the quadratic integer X + Y w of an order whose w is defined by a Context.
// An Int does not carry its context; mixing values from different contexts gives
// meaningless results. Operations never modify their arguments, so an Int can be
// treated as a value.
type Int struct {
	X *big.Int
	Y *big.Int
}

// New returns x + y w, copying x and y
func New(x, y *big.Int) Int {
	return Int{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// NewFromInt64 returns x + y w
func NewFromInt64(x, y int64) Int {
	return Int{X: big.NewInt(x), Y: big.NewInt(y)}
}

// Zero returns 0 + 0 w
func Zero() Int {
	return NewFromInt64(0, 0)
}

// One returns 1 + 0 w
func One() Int {
	return NewFromInt64(1, 0)
}

// Omega returns 0 + 1 w
func Omega() Int {
	return NewFromInt64(0, 1)
}

// Clone returns a deep copy of a
func (a Int) Clone() Int {
	return New(a.X, a.Y)
}

func (a Int) IsZero() bool {
	return (a.X.Sign() == 0) && (a.Y.Sign() == 0)
}

func (a Int) Equal(b Int) bool {
	return (a.X.Cmp(b.X) == 0) && (a.Y.Cmp(b.Y) == 0)
}

// String prints a as "x + y*w", e.g. "3 + -2*w"
func (a Int) String() string {
	return fmt.Sprintf("%v + %v*w", a.X, a.Y)
}

func (c *Context) Add(a, b Int) Int {
	return Int{X: new(big.Int).Add(a.X, b.X), Y: new(big.Int).Add(a.Y, b.Y)}
}

func (c *Context) Sub(a, b Int) Int {
	return Int{X: new(big.Int).Sub(a.X, b.X), Y: new(big.Int).Sub(a.Y, b.Y)}
}

func (c *Context) Neg(a Int) Int {
	return Int{X: new(big.Int).Neg(a.X), Y: new(big.Int).Neg(a.Y)}
}

// Mul returns a * b. With s = a.x b.x and t = a.y b.y,
//
//	a b = s + (a.x b.y + a.y b.x) w + t w^2
//
// and w^2 = D4 + Dm4 w, so the product takes three big multiplications:
//
//	x = s + t D4
//	y = (a.x + a.y)(b.x + b.y) - s - (1 - Dm4) t
func (c *Context) Mul(a, b Int) Int {
	s := new(big.Int).Mul(a.X, b.X)
	t := new(big.Int).Mul(a.Y, b.Y)
	u := new(big.Int).Add(a.X, a.Y)
	u.Mul(u, new(big.Int).Add(b.X, b.Y))
	u.Sub(u, s)
	if c.dm4 == 0 {
		u.Sub(u, t)
	}
	s.Add(s, t.Mul(t, c.d4))
	return Int{X: s, Y: u}
}

func (c *Context) Sqr(a Int) Int {
	return c.Mul(a, a)
}

// MulInt returns k a for an ordinary integer k
func (c *Context) MulInt(a Int, k *big.Int) Int {
	return Int{X: new(big.Int).Mul(a.X, k), Y: new(big.Int).Mul(a.Y, k)}
}

// MulOmega returns a w
func (c *Context) MulOmega(a Int) Int {
	x := new(big.Int).Mul(a.Y, c.d4)
	if c.dm4 == 1 {
		return Int{X: x, Y: new(big.Int).Add(a.X, a.Y)}
	}
	return Int{X: x, Y: new(big.Int).Set(a.X)}
}

// Conj returns the Galois conjugate of a. The conjugate of w is -w when Dm4 = 0 and
// 1 - w when Dm4 = 1.
func (c *Context) Conj(a Int) Int {
	if c.dm4 == 1 {
		return Int{X: new(big.Int).Add(a.X, a.Y), Y: new(big.Int).Neg(a.Y)}
	}
	return Int{X: new(big.Int).Set(a.X), Y: new(big.Int).Neg(a.Y)}
}

// Norm returns a conj(a), which is
//
//	x^2 - D4 y^2      when Dm4 = 0
//	x^2 + xy - D4 y^2 when Dm4 = 1
func (c *Context) Norm(a Int) *big.Int {
	retVal := new(big.Int)
	if c.dm4 == 1 {
		retVal.Add(a.X, a.Y)
		retVal.Mul(retVal, a.X)
	} else {
		retVal.Mul(a.X, a.X)
	}
	t := new(big.Int).Mul(a.Y, a.Y)
	return retVal.Sub(retVal, t.Mul(t, c.d4))
}

// Power returns a^n by square-and-multiply from the top bit of n. Power(a, 0) is 1
// for every a, including 0.
func (c *Context) Power(a Int, n uint) Int {
	retVal := One()
	for i := bits.Len(n) - 1; 0 <= i; i-- {
		retVal = c.Sqr(retVal)
		if (n>>uint(i))&1 == 1 {
			retVal = c.Mul(retVal, a)
		}
	}
	return retVal
}

// Div returns (a / b, true) when b divides a in the order, and (0, false) otherwise,
// including when b is zero. The quotient is a conj(b) / norm(b).
func (c *Context) Div(a, b Int) (Int, bool) {
	n := c.Norm(b)
	if n.Sign() == 0 {
		return Zero(), false
	}
	return c.DivInt(c.Mul(a, c.Conj(b)), n)
}

// DivInt returns (a / k, true) when k divides both coefficients of a, and (0, false)
// otherwise, including when k is zero.
func (c *Context) DivInt(a Int, k *big.Int) (Int, bool) {
	if k.Sign() == 0 {
		return Zero(), false
	}
	x, rx := new(big.Int).QuoRem(a.X, k, new(big.Int))
	y, ry := new(big.Int).QuoRem(a.Y, k, new(big.Int))
	if (rx.Sign() != 0) || (ry.Sign() != 0) {
		return Zero(), false
	}
	return Int{X: x, Y: y}, true
}

// IsUnit returns whether |norm(a)| = 1
func (c *Context) IsUnit(a Int) bool {
	return c.Norm(a).CmpAbs(big.NewInt(1)) == 0
}

// IsAssociate returns whether a / b is a unit
func (c *Context) IsAssociate(a, b Int) bool {
	q, ok := c.Div(a, b)
	return ok && c.IsUnit(q)
}
