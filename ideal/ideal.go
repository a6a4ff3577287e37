package ideal

// Copyright (c) 2025 Colin McRae

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/intmatrix"
	"github.com/predrag3141/quadclass/quadint"
	"github.com/predrag3141/quadclass/util"
)

// ErrPrecondition is returned when an ideal operation is applied to an input it is not
// defined for, such as a prime ideal above an inert prime.
var ErrPrecondition = errors.New("precondition violated")

const logPrefix = "ideal"

// Ideal is an integral ideal of a quadratic order, stored as its Hermite normal form
// basis [a, b] with b = b.x + b.y w. The invariants are
//
//	a >= 0, 0 <= b.x < a, b.y divides a and b.x, a divides norm(b)
//
// The zero ideal is [0, 0] and the unit ideal is [1, w]. An Ideal does not carry its
// Order, and it is never modified after it is built.
type Ideal struct {
	a *big.Int
	b quadint.Int
}

// A returns a copy of a
func (i *Ideal) A() *big.Int {
	return new(big.Int).Set(i.a)
}

// B returns a copy of b
func (i *Ideal) B() quadint.Int {
	return i.b.Clone()
}

// Content returns a copy of b.y, the largest k such that the ideal is k times an
// integral ideal
func (i *Ideal) Content() *big.Int {
	return new(big.Int).Set(i.b.Y)
}

// Norm returns the index a b.y of the ideal in the order
func (i *Ideal) Norm() *big.Int {
	return new(big.Int).Mul(i.a, i.b.Y)
}

func (i *Ideal) IsZero() bool {
	return i.a.Sign() == 0
}

func (i *Ideal) IsUnit() bool {
	return i.a.Cmp(big.NewInt(1)) == 0
}

func (i *Ideal) IsPrimitive() bool {
	return i.b.Y.Cmp(big.NewInt(1)) == 0
}

// Equal compares bases, which is ideal equality because bases are kept in Hermite
// normal form
func (i *Ideal) Equal(j *Ideal) bool {
	return (i.a.Cmp(j.a) == 0) && i.b.Equal(j.b)
}

// String prints the ideal as "[a, x + y*w]"
func (i *Ideal) String() string {
	return fmt.Sprintf("[%v, %v]", i.a, i.b)
}

// Order is a quadratic order of discriminant D. It owns the discriminant context and
// the factorizer that ideal factorization and class-group computations use. An Order
// is immutable and safe for concurrent use.
type Order struct {
	ctx        *quadint.Context
	factorizer *factoring.Factorizer
}

// NewOrder returns the order of discriminant D, using the shared default factorizer
func NewOrder(D *big.Int) (*Order, error) {
	return NewOrderWithFactorizer(D, factoring.Default())
}

// NewOrderFromInt64 returns the order of discriminant D, like NewOrder
func NewOrderFromInt64(D int64) (*Order, error) {
	return NewOrder(big.NewInt(D))
}

// NewOrderWithFactorizer returns the order of discriminant D, using f to factor integers
func NewOrderWithFactorizer(D *big.Int, f *factoring.Factorizer) (*Order, error) {
	ctx, err := quadint.NewContext(D)
	if err != nil {
		return nil, fmt.Errorf("NewOrderWithFactorizer: could not create context: %w", err)
	}
	return &Order{ctx: ctx, factorizer: f}, nil
}

// Context returns the discriminant context of o
func (o *Order) Context() *quadint.Context {
	return o.ctx
}

// Factorizer returns the factorizer of o
func (o *Order) Factorizer() *factoring.Factorizer {
	return o.factorizer
}

func (o *Order) Zero() *Ideal {
	return &Ideal{a: big.NewInt(0), b: quadint.Zero()}
}

func (o *Order) Unit() *Ideal {
	return &Ideal{a: big.NewInt(1), b: quadint.Omega()}
}

// New returns the ideal with basis [a, x + y w], which must already be in Hermite
// normal form. Otherwise New returns ErrPrecondition.
func (o *Order) New(a, x, y *big.Int) (*Ideal, error) {
	retVal := &Ideal{a: new(big.Int).Set(a), b: quadint.New(x, y)}
	if err := o.check(retVal); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	return retVal, nil
}

func (o *Order) NewFromInt64(a, x, y int64) (*Ideal, error) {
	return o.New(big.NewInt(a), big.NewInt(x), big.NewInt(y))
}

func (o *Order) check(i *Ideal) error {
	if i.a.Sign() == 0 {
		if !i.b.IsZero() {
			return fmt.Errorf("%v has a = 0 and b != 0: %w", i, ErrPrecondition)
		}
		return nil
	}
	r := new(big.Int)
	switch {
	case i.a.Sign() < 0:
		return fmt.Errorf("%v has a < 0: %w", i, ErrPrecondition)
	case (i.b.X.Sign() < 0) || (i.b.X.Cmp(i.a) >= 0):
		return fmt.Errorf("%v has b.x outside [0, a): %w", i, ErrPrecondition)
	case i.b.Y.Sign() <= 0:
		return fmt.Errorf("%v has b.y <= 0: %w", i, ErrPrecondition)
	case r.Rem(i.a, i.b.Y).Sign() != 0, r.Rem(i.b.X, i.b.Y).Sign() != 0:
		return fmt.Errorf("%v has b.y not dividing a and b.x: %w", i, ErrPrecondition)
	}

	// [a, b] = b.y [a / b.y, b / b.y] is closed under multiplication by w exactly when
	// a / b.y divides norm(b / b.y), which implies that a divides norm(b)
	P := o.Primitive(i)
	if r.Rem(o.ctx.Norm(P.b), P.a).Sign() != 0 {
		return fmt.Errorf("%v is not closed under multiplication by w: %w", i, ErrPrecondition)
	}
	return nil
}

// fromGenerators returns the ideal whose lattice is spanned by rows, each holding the
// x and y coefficients of a generator
func (o *Order) fromGenerators(caller string, rows ...[2]*big.Int) *Ideal {
	entries := make([]*big.Int, 0, 2*len(rows))
	for _, row := range rows {
		entries = append(entries, row[0], row[1])
	}
	m, err := intmatrix.NewFromBigIntArray(entries, len(rows), 2)
	if err != nil {
		util.Panicf(logPrefix, "%s: could not create generator matrix: %v", caller, err)
	}
	w, err := intmatrix.HermiteNF(m)
	if err != nil {
		util.Panicf(logPrefix, "%s: could not compute Hermite normal form of\n%v\n%v", caller, m, err)
	}
	a, err := w.Get(0, 0)
	if err != nil {
		util.Panicf(logPrefix, "%s: could not get a: %v", caller, err)
	}
	x, err := w.Get(1, 0)
	if err != nil {
		util.Panicf(logPrefix, "%s: could not get b.x: %v", caller, err)
	}
	y, err := w.Get(1, 1)
	if err != nil {
		util.Panicf(logPrefix, "%s: could not get b.y: %v", caller, err)
	}
	return &Ideal{a: a, b: quadint.Int{X: x, Y: y}}
}

// Principal returns the principal ideal (alpha), whose lattice is spanned by alpha and
// alpha w
func (o *Order) Principal(alpha quadint.Int) *Ideal {
	if alpha.Y.Sign() == 0 {
		return o.PrincipalInt(alpha.X)
	}
	aw := o.ctx.MulOmega(alpha)
	return o.fromGenerators("Principal", [2]*big.Int{alpha.X, alpha.Y}, [2]*big.Int{aw.X, aw.Y})
}

// PrincipalInt returns the principal ideal (k) = [|k|, |k| w]
func (o *Order) PrincipalInt(k *big.Int) *Ideal {
	absK := new(big.Int).Abs(k)
	if absK.Sign() == 0 {
		return o.Zero()
	}
	return &Ideal{a: absK, b: quadint.Int{X: big.NewInt(0), Y: new(big.Int).Set(absK)}}
}

// Add returns the ideal sum A + B, the smallest ideal containing both
func (o *Order) Add(A, B *Ideal) *Ideal {
	zero := big.NewInt(0)
	return o.fromGenerators(
		"Add",
		[2]*big.Int{A.a, zero}, [2]*big.Int{A.b.X, A.b.Y},
		[2]*big.Int{B.a, zero}, [2]*big.Int{B.b.X, B.b.Y},
	)
}

// Mul returns the ideal product A B. The product is spanned by the four products of
// basis elements
//
//	a a', a b', b a', b b'
//
// where A = [a, b] and B = [a', b'].
func (o *Order) Mul(A, B *Ideal) *Ideal {
	switch {
	case A.IsZero() || B.IsZero():
		return o.Zero()
	case A.IsUnit():
		return B
	case B.IsUnit():
		return A
	case A.Equal(B):
		return o.Sqr(A)
	}
	s := o.ctx.Mul(A.b, B.b)
	return o.fromGenerators(
		"Mul",
		[2]*big.Int{new(big.Int).Mul(A.a, B.a), big.NewInt(0)},
		[2]*big.Int{new(big.Int).Mul(A.a, B.b.X), new(big.Int).Mul(A.a, B.b.Y)},
		[2]*big.Int{new(big.Int).Mul(A.b.X, B.a), new(big.Int).Mul(A.b.Y, B.a)},
		[2]*big.Int{s.X, s.Y},
	)
}

// Sqr returns A A, spanned by a^2, a b and b^2
func (o *Order) Sqr(A *Ideal) *Ideal {
	if A.IsZero() || A.IsUnit() {
		return A
	}
	s := o.ctx.Sqr(A.b)
	return o.fromGenerators(
		"Sqr",
		[2]*big.Int{new(big.Int).Mul(A.a, A.a), big.NewInt(0)},
		[2]*big.Int{new(big.Int).Mul(A.a, A.b.X), new(big.Int).Mul(A.a, A.b.Y)},
		[2]*big.Int{s.X, s.Y},
	)
}

// MulInt returns |k| A
func (o *Order) MulInt(A *Ideal, k *big.Int) *Ideal {
	absK := new(big.Int).Abs(k)
	if absK.Sign() == 0 || A.IsZero() {
		return o.Zero()
	}
	return &Ideal{
		a: new(big.Int).Mul(A.a, absK),
		b: quadint.Int{X: new(big.Int).Mul(A.b.X, absK), Y: new(big.Int).Mul(A.b.Y, absK)},
	}
}

// MulElement returns A (alpha), spanned by a alpha and b alpha
func (o *Order) MulElement(A *Ideal, alpha quadint.Int) *Ideal {
	s := o.ctx.Mul(A.b, alpha)
	return o.fromGenerators(
		"MulElement",
		[2]*big.Int{new(big.Int).Mul(A.a, alpha.X), new(big.Int).Mul(A.a, alpha.Y)},
		[2]*big.Int{s.X, s.Y},
	)
}

// Power returns A^n by square-and-multiply from the top bit of n. A^0 is the unit
// ideal.
func (o *Order) Power(A *Ideal, n uint) *Ideal {
	retVal := o.Unit()
	for i := bits.Len(n) - 1; 0 <= i; i-- {
		retVal = o.Sqr(retVal)
		if (n>>uint(i))&1 == 1 {
			retVal = o.Mul(retVal, A)
		}
	}
	return retVal
}

// Conj returns the conjugate ideal [a, -conj(b)], with b.x brought back into [0, a).
// A Conj(A) is the principal ideal (norm(A)).
func (o *Order) Conj(A *Ideal) *Ideal {
	if A.IsZero() {
		return A
	}
	b := o.ctx.Neg(o.ctx.Conj(A.b))
	b.X.Mod(b.X, A.a)
	return &Ideal{a: new(big.Int).Set(A.a), b: b}
}

// Primitive returns A divided by its content
func (o *Order) Primitive(A *Ideal) *Ideal {
	if A.IsZero() || A.IsPrimitive() {
		return A
	}
	return &Ideal{
		a: new(big.Int).Quo(A.a, A.b.Y),
		b: quadint.Int{X: new(big.Int).Quo(A.b.X, A.b.Y), Y: big.NewInt(1)},
	}
}

// Divides returns whether A divides B, i.e. B is contained in A, i.e. A + B = A
func (o *Order) Divides(A, B *Ideal) bool {
	return o.Add(A, B).Equal(A)
}
