package ideal

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/dolthub/swiss"

	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/quadint"
)

// primalityRounds is passed to big.Int.ProbablyPrime when checking callers' primes
const primalityRounds = 20

// Factor is P^Exponent for a prime ideal P
type Factor struct {
	Prime    *Ideal
	Exponent int
}

// Kronecker returns the Kronecker symbol (D/p) of a rational prime p, which is 1 when
// p splits into two distinct prime ideals, 0 when p ramifies and -1 when p is inert.
// p must be prime or an odd positive integer. For odd composite p the result is the
// Jacobi symbol, which does not describe how p decomposes.
func (o *Order) Kronecker(p *big.Int) int {
	if p.Cmp(big.NewInt(2)) == 0 {
		if o.ctx.Dm4() == 0 {
			return 0
		}
		if new(big.Int).Mod(o.ctx.D(), big.NewInt(8)).Int64() == 1 {
			return 1
		}
		return -1
	}
	// ProbablyPrime(0) is exact below 2^64
	if p.IsUint64() && p.ProbablyPrime(0) {
		return factoring.Legendre(o.ctx.D(), p.Uint64())
	}
	return big.Jacobi(new(big.Int).Mod(o.ctx.D(), p), p)
}

// Prime returns a prime ideal above the rational prime p. When p splits, the other
// prime above p is the conjugate. Prime returns ErrPrecondition if p is not prime or
// is inert.
//
// For odd p the ideal is [p, (s - Dm4)/2 + w] where s^2 = D mod p and s = Dm4 mod 2,
// so that (s + sqrt(D))/2 is in the ideal. For p = 2 it is [2, (D mod 8)/4 + w].
//
// Reference: T. Takagi, "Lectures on Elementary Number Theory", section 44
func (o *Order) Prime(p *big.Int) (*Ideal, error) {
	if (p.Sign() <= 0) || !p.ProbablyPrime(primalityRounds) {
		return nil, fmt.Errorf("Prime: %v is not prime: %w", p, ErrPrecondition)
	}
	if o.Kronecker(p) < 0 {
		return nil, fmt.Errorf("Prime: %v is inert for %v: %w", p, o.ctx, ErrPrecondition)
	}
	if p.Cmp(big.NewInt(2)) == 0 {
		bx := new(big.Int).Mod(o.ctx.D(), big.NewInt(8))
		return &Ideal{a: big.NewInt(2), b: quadint.Int{X: bx.Rsh(bx, 2), Y: big.NewInt(1)}}, nil
	}
	s := new(big.Int).ModSqrt(new(big.Int).Mod(o.ctx.D(), p), p)
	if s == nil {
		return nil, fmt.Errorf("Prime: D = %v has no square root mod %v: %w", o.ctx.D(), p, ErrPrecondition)
	}
	if int(s.Bit(0)) != o.ctx.Dm4() {
		s.Sub(p, s)
	}
	return &Ideal{a: new(big.Int).Set(p), b: quadint.Int{X: s.Rsh(s, 1), Y: big.NewInt(1)}}, nil
}

// Factor returns the prime ideal factorization of a nonzero ideal A, ordered by the
// rational primes below the factors. Product(Factor(A)) is A. An inert prime p appears
// as the prime ideal (p). The factorization of the unit ideal is empty, and so is that
// of the zero ideal.
//
// The content k of A contributes (p)^e for each p^e exactly dividing k, which is P^e
// conj(P)^e for a split p, P^(2e) for a ramified p and (p)^e itself for an inert p. The
// primitive part B of A, of norm n, contributes P^e for each p^e exactly dividing n,
// where P is whichever prime above p divides B. Inert primes do not divide n.
//
// Reference: T. Takagi, "Lectures on Elementary Number Theory", sections 43 and 44
func (o *Order) Factor(A *Ideal) ([]Factor, error) {
	retVal := make([]Factor, 0)
	if A.IsZero() || A.IsUnit() {
		return retVal, nil
	}
	B := o.Primitive(A)
	g := o.factorizer.Factor(B.a)
	h := o.factorizer.Factor(A.b.Y)

	// Exponents of the primes dividing the norm of B and the content of A
	normExponents := swiss.NewMap[string, int](uint32(len(g)))
	contentExponents := swiss.NewMap[string, int](uint32(len(h)))
	primes := make([]*big.Int, 0, len(g)+len(h))
	for _, pe := range g {
		normExponents.Put(pe.Prime.String(), pe.Exponent)
		primes = append(primes, pe.Prime)
	}
	for _, pe := range h {
		contentExponents.Put(pe.Prime.String(), pe.Exponent)
		if !normExponents.Has(pe.Prime.String()) {
			primes = append(primes, pe.Prime)
		}
	}
	slices.SortFunc(primes, func(x, y *big.Int) int { return x.Cmp(y) })

	for _, p := range primes {
		key := p.String()
		e, _ := contentExponents.Get(key)
		k := o.Kronecker(p)
		if k < 0 {
			retVal = append(retVal, Factor{Prime: o.PrincipalInt(p), Exponent: e})
			continue
		}
		P, err := o.Prime(p)
		if err != nil {
			return nil, fmt.Errorf("Factor: could not get prime ideal above %v: %w", p, err)
		}
		n, _ := normExponents.Get(key)
		if k == 0 {
			retVal = append(retVal, Factor{Prime: P, Exponent: 2*e + n})
			continue
		}
		Q := o.Conj(P)
		if (n > 0) && !o.Divides(P, B) {
			P, Q = Q, P
		}
		retVal = append(retVal, Factor{Prime: P, Exponent: e + n})
		if e > 0 {
			retVal = append(retVal, Factor{Prime: Q, Exponent: e})
		}
	}
	return retVal, nil
}

// Product returns the product of f[i].Prime^f[i].Exponent
func (o *Order) Product(f []Factor) *Ideal {
	retVal := o.Unit()
	for _, pe := range f {
		retVal = o.Mul(retVal, o.Power(pe.Prime, uint(pe.Exponent)))
	}
	return retVal
}

// FromNorm returns every ideal of norm |n|. It is empty if an inert prime divides n to
// an odd power. FromNorm(0) is the zero ideal alone.
//
// Ideals of norm p^e are (p)^(e/2) for an inert p with e even, P^e for a ramified p
// above which P lies, and P^i conj(P)^(e-i), 0 <= i <= e, for a split p. The ideals of
// norm |n| are the products of one ideal of norm p^e for each p^e exactly dividing n.
//
// Reference: T. Takagi, "Lectures on Elementary Number Theory", section 50
func (o *Order) FromNorm(n *big.Int) ([]*Ideal, error) {
	if n.Sign() == 0 {
		return []*Ideal{o.Zero()}, nil
	}
	retVal := []*Ideal{o.Unit()}
	for _, pe := range o.factorizer.Factor(n) {
		k := o.Kronecker(pe.Prime)
		var local []*Ideal
		switch {
		case k < 0:
			if pe.Exponent&1 == 1 {
				return []*Ideal{}, nil
			}
			q := new(big.Int).Exp(pe.Prime, big.NewInt(int64(pe.Exponent>>1)), nil)
			local = []*Ideal{o.PrincipalInt(q)}
		case k == 0:
			P, err := o.Prime(pe.Prime)
			if err != nil {
				return nil, fmt.Errorf("FromNorm: could not get prime ideal above %v: %w", pe.Prime, err)
			}
			local = []*Ideal{o.Power(P, uint(pe.Exponent))}
		default:
			P, err := o.Prime(pe.Prime)
			if err != nil {
				return nil, fmt.Errorf("FromNorm: could not get prime ideal above %v: %w", pe.Prime, err)
			}
			Q := o.Conj(P)
			local = make([]*Ideal, 0, pe.Exponent+1)
			for i := pe.Exponent; 0 <= i; i-- {
				local = append(local, o.Mul(o.Power(P, uint(i)), o.Power(Q, uint(pe.Exponent-i))))
			}
		}
		next := make([]*Ideal, 0, len(retVal)*len(local))
		for _, J := range retVal {
			for _, L := range local {
				next = append(next, o.Mul(J, L))
			}
		}
		retVal = next
	}
	return retVal, nil
}
