package ideal

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"

	"github.com/predrag3141/quadclass/quadint"
	"github.com/predrag3141/quadclass/util"
)

// Infra accumulates the quadratic number n / d by which a sequence of continued
// fraction steps moves an ideal. If the steps take A to C, then A = (n / d) C. When
// C is the unit ideal, n / d is a generator of A. An Infra is never modified; steps
// return a new one.
//
// Reference: T. Takagi, "Lectures on Elementary Number Theory", section 51
type Infra struct {
	n quadint.Int
	d *big.Int
}

// NewInfra returns the accumulator 1 / 1
func NewInfra() *Infra {
	return &Infra{n: quadint.One(), d: big.NewInt(1)}
}

func (inf *Infra) Numerator() quadint.Int {
	return inf.n.Clone()
}

func (inf *Infra) Denominator() *big.Int {
	return new(big.Int).Set(inf.d)
}

// Eval returns (n / d, true) when d divides n, and (0, false) when n / d is not an
// integer of the order
func (o *Order) Eval(inf *Infra) (quadint.Int, bool) {
	return o.ctx.DivInt(inf.n, inf.d)
}

// normalize returns [c, b + w] for a primitive ideal A = [a, b' + w], where b = b' mod a
// is chosen so that the continued fraction step is well defined:
//
//	D < 0 or a > sqrt(D): -a < 2b + Dm4 <= a
//	otherwise:            -a < conj(b + w) < 0, i.e. W1 - a < b <= W1
//
// and c = |norm(b + w)| / a.
//
// Reference: J. Buchmann and U. Vollmer, "Binary Quadratic Forms", sections 5.2 and 6.1
func (o *Order) normalize(A *Ideal) *Ideal {
	bx := new(big.Int)
	if o.ctx.IsReal() && (A.a.Cmp(o.ctx.S()) <= 0) {
		w1 := o.ctx.W1()
		bx.Sub(w1, A.b.X)
		bx.Mod(bx, A.a)
		bx.Sub(w1, bx)
	} else {
		bx.Lsh(A.b.X, 1)
		bx.Add(bx, big.NewInt(int64(o.ctx.Dm4())))
		if bx.Cmp(A.a) > 0 {
			bx.Sub(A.b.X, A.a)
		} else {
			bx.Set(A.b.X)
		}
	}
	b := quadint.Int{X: bx, Y: big.NewInt(1)}
	c := o.ctx.Norm(b)
	c.Quo(c, A.a)
	return &Ideal{a: c.Abs(c), b: b}
}

// isReducedForm tests whether the normalized binary quadratic form (a, b, c) is reduced
//
// Reference: J. Buchmann and U. Vollmer, "Binary Quadratic Forms", sections 5.3 and 6.2
func (o *Order) isReducedForm(a, b, c *big.Int) bool {
	if !o.ctx.IsReal() {
		cmp := a.Cmp(c)
		return (cmp < 0) || ((cmp == 0) && (b.Sign() >= 0))
	}
	return new(big.Int).Sub(a, b).Cmp(o.ctx.W()) <= 0
}

// cfrac takes one continued fraction step from the primitive nonzero ideal A. With
// [c, b + w] = normalize(A), the step goes to [c, k + w] where k = -conj(b + w) mod c.
// If reducedTest is set and A is already reduced, cfrac returns A and true instead. A
// non-nil infra is advanced by multiplying n by b + w and d by c.
//
// Reference: J. Buchmann and U. Vollmer, "Binary Quadratic Forms", section 6.4
func (o *Order) cfrac(A *Ideal, infra *Infra, reducedTest bool) (*Ideal, *Infra, bool) {
	B := o.normalize(A)
	if reducedTest && o.isReducedForm(A.a, B.b.X, B.a) {
		return A, infra, true
	}
	if infra != nil {
		infra = &Infra{n: o.ctx.Mul(infra.n, B.b), d: new(big.Int).Mul(infra.d, B.a)}
	}
	return o.Conj(B), infra, false
}

func (o *Order) checkPrimitive(A *Ideal, caller string) error {
	if A.IsZero() || !A.IsPrimitive() {
		return fmt.Errorf("%s: %v is not a primitive nonzero ideal: %w", caller, A, ErrPrecondition)
	}
	return nil
}

// CFrac takes one continued fraction step from the primitive nonzero ideal A. If
// reducedTest is set and A is reduced, CFrac returns A and true.
func (o *Order) CFrac(A *Ideal, reducedTest bool) (*Ideal, bool, error) {
	if err := o.checkPrimitive(A, "CFrac"); err != nil {
		return nil, false, err
	}
	C, _, reduced := o.cfrac(A, nil, reducedTest)
	return C, reduced, nil
}

// CFracInfra is CFrac, also advancing the accumulator inf
func (o *Order) CFracInfra(inf *Infra, A *Ideal, reducedTest bool) (*Ideal, *Infra, bool, error) {
	if err := o.checkPrimitive(A, "CFracInfra"); err != nil {
		return nil, nil, false, err
	}
	C, inf, reduced := o.cfrac(A, inf, reducedTest)
	return C, inf, reduced, nil
}

// IsReduced returns whether Reduce(A) is A
func (o *Order) IsReduced(A *Ideal) bool {
	if A.IsZero() {
		return true
	}
	if !A.IsPrimitive() {
		return false
	}
	B := o.normalize(A)
	return o.isReducedForm(A.a, B.b.X, B.a)
}

// Reduce returns a reduced ideal equivalent to A. It applies continued fraction steps to
// the primitive part of A until the reduced test passes. For D < 0 the result is the
// unique reduced ideal of the class of A; for D > 0 it is one member of the cycle of
// reduced ideals of that class.
func (o *Order) Reduce(A *Ideal) *Ideal {
	R, _ := o.reduceInfra(A, nil)
	return R
}

func (o *Order) reduceInfra(A *Ideal, inf *Infra) (*Ideal, *Infra) {
	if A.IsZero() {
		return A, inf
	}
	R := o.Primitive(A)
	for {
		next, nextInf, reduced := o.cfrac(R, inf, true)
		if reduced {
			return R, inf
		}
		R, inf = next, nextInf
	}
}

// Cycle iterates over the reduced ideals equivalent to a starting reduced ideal, in
// continued fraction order. For D > 0 these ideals form a cycle under cfrac, which the
// iterator walks exactly once. For D < 0 the reduced ideal of a class is unique, so
// the iteration yields only the starting ideal. Use it as
//
//	for cyc := o.Cycle(A); cyc.Next(); {
//		R := cyc.Ideal()
//	}
type Cycle struct {
	o       *Order
	start   *Ideal
	current *Ideal
	infra   *Infra
	started bool
	done    bool
}

// Cycle returns an iterator over the cycle of reduced ideals equivalent to A, starting
// with Reduce(A). The cycle of the zero ideal is just the zero ideal.
func (o *Order) Cycle(A *Ideal) *Cycle {
	return o.newCycle(o.Reduce(A), nil)
}

// CycleInfra returns an iterator over the cycle starting at the reduced primitive
// ideal A, tracking the accumulator inf along the way
func (o *Order) CycleInfra(A *Ideal, inf *Infra) (*Cycle, error) {
	if err := o.checkPrimitive(A, "CycleInfra"); err != nil {
		return nil, err
	}
	if !o.IsReduced(A) {
		return nil, fmt.Errorf("CycleInfra: %v is not reduced: %w", A, ErrPrecondition)
	}
	return o.newCycle(A, inf), nil
}

func (o *Order) newCycle(start *Ideal, inf *Infra) *Cycle {
	return &Cycle{o: o, start: start, current: start, infra: inf}
}

// Next advances to the next ideal of the cycle. It returns false once the cycle is
// exhausted.
func (c *Cycle) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		return true
	}
	if !c.o.ctx.IsReal() || c.start.IsZero() {
		c.done = true
		return false
	}
	next, inf, _ := c.o.cfrac(c.current, c.infra, false)
	if next.Equal(c.start) {
		c.done = true
		return false
	}
	c.current, c.infra = next, inf
	return true
}

// Ideal returns the current ideal of the cycle
func (c *Cycle) Ideal() *Ideal {
	return c.current
}

// Infra returns the accumulator at the current ideal, or nil if the cycle is not
// tracking one
func (c *Cycle) Infra() *Infra {
	return c.infra
}

// IsEquivalent returns whether A and B are in the same ideal class, i.e. whether
// alpha A = beta B for some nonzero alpha and beta. The zero ideal is equivalent only
// to itself.
func (o *Order) IsEquivalent(A, B *Ideal) bool {
	if A.IsZero() || B.IsZero() {
		return A.IsZero() && B.IsZero()
	}
	RB := o.Reduce(B)
	for cyc := o.Cycle(A); cyc.Next(); {
		if cyc.Ideal().Equal(RB) {
			return true
		}
	}
	return false
}

// EquivalenceWitness returns (alpha, true) with conj(B) A = (alpha) when A and B are
// equivalent, so that norm(B) A = alpha B. It returns (0, false) when they are not, or
// when either is zero.
func (o *Order) EquivalenceWitness(A, B *Ideal) (quadint.Int, bool) {
	if A.IsZero() || B.IsZero() {
		return quadint.Zero(), false
	}
	return o.Generator(o.Mul(A, o.Conj(B)))
}

// IsPrincipal returns whether A = (alpha) for some alpha
func (o *Order) IsPrincipal(A *Ideal) bool {
	if A.IsZero() {
		return true
	}
	for cyc := o.Cycle(A); cyc.Next(); {
		if cyc.Ideal().IsUnit() {
			return true
		}
	}
	return false
}

// Generator returns (alpha, true) with A = (alpha) exactly, when A is principal.
// Among the associates of alpha, the one returned has alpha.Y >= 0. Generator returns
// (0, false) when A is not principal.
func (o *Order) Generator(A *Ideal) (quadint.Int, bool) {
	if A.IsZero() {
		return quadint.Zero(), true
	}
	R, inf := o.reduceInfra(A, NewInfra())
	for cyc := o.newCycle(R, inf); cyc.Next(); {
		if !cyc.Ideal().IsUnit() {
			continue
		}
		n := cyc.Infra().Numerator()
		if n.Y.Sign() < 0 {
			n = o.ctx.Neg(n)
		}
		alpha, ok := o.ctx.DivInt(n, cyc.Infra().Denominator())
		if !ok {
			util.Panicf(logPrefix, "Generator: %v / %v is not an integer", n, cyc.Infra().Denominator())
		}
		return o.ctx.MulInt(alpha, A.b.Y), true
	}
	return quadint.Zero(), false
}

// FundamentalUnit returns the fundamental unit u of the order and its norm. For D < -4
// it is 1, and for D = -3 or D = -4 it is w. For D > 0 it is the accumulated distance
// of one full period of the continued fraction cycle of the unit ideal.
//
// Reference: T. Takagi, "Lectures on Elementary Number Theory", sections 47 and 48
func (o *Order) FundamentalUnit() (quadint.Int, int) {
	if !o.ctx.IsReal() {
		if o.ctx.D().Cmp(big.NewInt(-4)) < 0 {
			return quadint.One(), 1
		}
		return quadint.Omega(), 1
	}
	A, inf, sign := o.Unit(), NewInfra(), 1
	for {
		A, inf, _ = o.cfrac(A, inf, false)
		sign = -sign
		if A.IsUnit() {
			break
		}
	}
	u, ok := o.Eval(inf)
	if !ok {
		util.Panicf(logPrefix, "FundamentalUnit: %v / %v is not an integer", inf.n, inf.d)
	}
	if util.IsLogLevelDebug() {
		util.Debugf(logPrefix, "fundamental unit of D = %v is %v with norm %d", o.ctx.D(), u, sign)
	}
	return u, sign
}
