package ideal

// Copyright (c) 2025 Colin McRae

import (
	"math/big"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"

	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/quadint"
)

func TestReduce(t *testing.T) {
	const numTests = 30

	prng := newTestPRNG(t, "TestReduce")
	for _, D := range fundamentalDiscriminants {
		o, err := NewOrderFromInt64(D)
		require.NoError(t, err)
		primes := smallPrimeIdeals(t, o, 60)
		for testNbr := 0; testNbr < numTests; testNbr++ {
			A := randomIdeal(o, prng, primes)
			R := o.Reduce(A)
			require.Truef(t, o.IsReduced(R), "D = %d, A = %v, R = %v", D, A, R)
			require.True(t, R.IsPrimitive())
			require.True(t, R.Equal(o.Reduce(R)))
			require.True(t, o.IsEquivalent(A, R))
			require.True(t, o.IsEquivalent(R, A))

			// The accumulated distance relates the primitive part of A to R
			P := o.Primitive(A)
			R2, inf := o.reduceInfra(A, NewInfra())
			require.True(t, R.Equal(R2))
			require.Truef(
				t, o.MulInt(P, inf.Denominator()).Equal(o.MulElement(R2, inf.Numerator())),
				"D = %d, A = %v, infra %v / %v", D, A, inf.Numerator(), inf.Denominator(),
			)

			// Every ideal of the cycle is reduced, distinct and equivalent to A
			cycle := make([]*Ideal, 0)
			for cyc := o.Cycle(A); cyc.Next(); {
				C := cyc.Ideal()
				require.True(t, o.IsReduced(C))
				for _, E := range cycle {
					require.False(t, C.Equal(E))
				}
				cycle = append(cycle, C)
			}
			require.True(t, R.Equal(cycle[0]))
			if D < 0 {
				require.Equal(t, 1, len(cycle))
			}
			require.True(t, o.IsEquivalent(A, cycle[len(cycle)-1]))
		}
	}
}

func TestCycleInfra(t *testing.T) {
	const numTests = 10

	prng := newTestPRNG(t, "TestCycleInfra")
	for _, D := range []int64{12, 13, 40, 229, 1001} {
		o, err := NewOrderFromInt64(D)
		require.NoError(t, err)
		primes := smallPrimeIdeals(t, o, 60)
		for testNbr := 0; testNbr < numTests; testNbr++ {
			start := o.Reduce(randomIdeal(o, prng, primes))
			cyc, err := o.CycleInfra(start, NewInfra())
			require.NoError(t, err)
			for cyc.Next() {
				inf := cyc.Infra()
				require.Truef(
					t, o.MulInt(start, inf.Denominator()).Equal(o.MulElement(cyc.Ideal(), inf.Numerator())),
					"D = %d, start = %v, current = %v", D, start, cyc.Ideal(),
				)
			}
			require.False(t, cyc.Next())
		}
	}
}

func TestCFracPreconditions(t *testing.T) {
	o, err := NewOrderFromInt64(-20)
	require.NoError(t, err)
	for _, A := range []*Ideal{o.Zero(), o.PrincipalInt(big.NewInt(2))} {
		_, _, err = o.CFrac(A, true)
		require.ErrorIs(t, err, ErrPrecondition)
		_, _, _, err = o.CFracInfra(NewInfra(), A, true)
		require.ErrorIs(t, err, ErrPrecondition)
		_, err = o.CycleInfra(A, NewInfra())
		require.ErrorIs(t, err, ErrPrecondition)
	}

	// (1 + w) = [6, 1 + w] is primitive but not reduced
	A := o.Principal(quadint.NewFromInt64(1, 1))
	require.False(t, o.IsReduced(A))
	_, err = o.CycleInfra(A, NewInfra())
	require.ErrorIs(t, err, ErrPrecondition)
	C, inf, reduced, err := o.CFracInfra(NewInfra(), A, true)
	require.NoError(t, err)
	require.False(t, reduced)
	require.True(t, o.MulInt(A, inf.Denominator()).Equal(o.MulElement(C, inf.Numerator())))

	// The unit ideal is reduced, so the step with the reduced test is a no-op
	C, reduced, err = o.CFrac(o.Unit(), true)
	require.NoError(t, err)
	require.True(t, reduced)
	require.True(t, C.IsUnit())

	require.True(t, o.IsReduced(o.Zero()))
	require.False(t, o.IsReduced(o.PrincipalInt(big.NewInt(3))))
	count := 0
	for cyc := o.Cycle(o.Zero()); cyc.Next(); {
		require.True(t, cyc.Ideal().IsZero())
		count++
	}
	require.Equal(t, 1, count)
}

func TestEquivalence(t *testing.T) {
	const numIdeals = 8

	prng := newTestPRNG(t, "TestEquivalence")
	for _, D := range fundamentalDiscriminants {
		o, err := NewOrderFromInt64(D)
		require.NoError(t, err)
		primes := smallPrimeIdeals(t, o, 60)
		ideals := make([]*Ideal, numIdeals)
		for i := range ideals {
			ideals[i] = randomIdeal(o, prng, primes)
		}
		equivalent := make([][]bool, numIdeals)
		for i, A := range ideals {
			equivalent[i] = make([]bool, numIdeals)
			for j, B := range ideals {
				equivalent[i][j] = o.IsEquivalent(A, B)
				alpha, ok := o.EquivalenceWitness(A, B)
				require.Equalf(t, equivalent[i][j], ok, "D = %d, A = %v, B = %v", D, A, B)
				if ok {
					// conj(B) A = (alpha), so norm(B) A = alpha B
					require.True(t, o.Principal(alpha).Equal(o.Mul(A, o.Conj(B))))
					require.True(t, o.MulInt(A, B.Norm()).Equal(o.MulElement(B, alpha)))
				}
				if D < 0 {
					require.Equal(t, equivalent[i][j], o.Reduce(A).Equal(o.Reduce(B)))
				}
			}
		}
		for i := range ideals {
			require.True(t, equivalent[i][i])
			for j := range ideals {
				require.Equal(t, equivalent[i][j], equivalent[j][i])
				for k := range ideals {
					if equivalent[i][j] && equivalent[j][k] {
						require.True(t, equivalent[i][k])
					}
				}
			}
		}

		require.True(t, o.IsEquivalent(o.Zero(), o.Zero()))
		require.False(t, o.IsEquivalent(o.Zero(), o.Unit()))
		_, ok := o.EquivalenceWitness(o.Zero(), o.Zero())
		require.False(t, ok)
	}
}

func TestGenerator(t *testing.T) {
	const numTests = 30

	prng := newTestPRNG(t, "TestGenerator")
	for _, D := range fundamentalDiscriminants {
		o, err := NewOrderFromInt64(D)
		require.NoError(t, err)
		ctx := o.Context()
		primes := smallPrimeIdeals(t, o, 60)
		for testNbr := 0; testNbr < numTests; testNbr++ {
			// Principal ideals give back an associate of their generator
			alpha := quadint.NewFromInt64(prng.intn(201)-100, prng.intn(201)-100)
			if alpha.IsZero() {
				alpha = quadint.NewFromInt64(7, 0)
			}
			A := o.Principal(alpha)
			require.True(t, o.IsPrincipal(A))
			beta, ok := o.Generator(A)
			require.Truef(t, ok, "D = %d, alpha = %v", D, alpha)
			require.GreaterOrEqual(t, beta.Y.Sign(), 0)
			require.Truef(t, ctx.IsAssociate(alpha, beta), "D = %d, alpha = %v, beta = %v", D, alpha, beta)
			require.True(t, A.Equal(o.Principal(beta)))

			// Generator succeeds exactly for principal ideals
			B := randomIdeal(o, prng, primes)
			gamma, ok := o.Generator(B)
			require.Equal(t, o.IsPrincipal(B), ok)
			if ok {
				require.Truef(t, B.Equal(o.Principal(gamma)), "D = %d, B = %v, gamma = %v", D, B, gamma)
			} else {
				require.True(t, gamma.IsZero())
			}
		}
		zero, ok := o.Generator(o.Zero())
		require.True(t, ok)
		require.True(t, zero.IsZero())
		one, ok := o.Generator(o.Unit())
		require.True(t, ok)
		require.True(t, ctx.IsUnit(one))
	}
}

func TestFundamentalUnit(t *testing.T) {
	for _, tc := range []struct {
		D    int64
		x, y int64
		norm int
	}{
		{-3, 0, 1, 1},
		{-4, 0, 1, 1},
		{-20, 1, 0, 1},
		{-23, 1, 0, 1},
		{5, 0, 1, -1},
		{8, 1, 1, -1},
		{12, 2, 1, 1},
		{13, 1, 1, -1},
		{40, 3, 1, -1},
	} {
		o, err := NewOrderFromInt64(tc.D)
		require.NoError(t, err)
		u, norm := o.FundamentalUnit()
		require.Truef(t, quadint.NewFromInt64(tc.x, tc.y).Equal(u), "D = %d, u = %v", tc.D, u)
		require.Equal(t, tc.norm, norm)
	}

	// Compare with the smallest solution of t^2 - D y^2 = -4 or 4, for which the
	// fundamental unit is (t + y sqrt(D)) / 2 = (t - y Dm4) / 2 + y w
	for D := int64(5); D < 100; D++ {
		bigD := big.NewInt(D)
		if !factoring.IsFundamental(bigD) {
			continue
		}
		if s := new(big.Int).Sqrt(bigD); s.Mul(s, s).Cmp(bigD) == 0 {
			continue
		}
		o, err := NewOrder(bigD)
		require.NoError(t, err)
		u, norm := o.FundamentalUnit()
		require.True(t, o.Context().IsUnit(u))
		require.Equal(t, 0, big.NewInt(int64(norm)).Cmp(o.Context().Norm(u)))

		expected, expectedNorm := smallestUnit(D, int64(o.Context().Dm4()))
		require.Truef(t, expected.Equal(u), "D = %d, expected %v, got %v", D, expected, u)
		require.Equal(t, expectedNorm, norm)
	}
}

// smallestUnit finds the unit (t + y sqrt(D)) / 2 > 1 with the smallest y > 0
func smallestUnit(D, dm4 int64) (quadint.Int, int) {
	square, r := new(big.Int), new(big.Int)
	isSquare := func(n *big.Int) bool {
		if n.Sign() < 0 {
			return false
		}
		r.Sqrt(n)
		return square.Mul(r, r).Cmp(n) == 0
	}
	n := new(big.Int)
	for y := int64(1); ; y++ {
		dy2 := new(big.Int).Mul(big.NewInt(D), big.NewInt(y*y))
		for _, norm := range []int{-1, 1} {
			n.Add(dy2, big.NewInt(int64(4*norm)))
			if isSquare(n) {
				x := new(big.Int).Sub(r, big.NewInt(y*dm4))
				return quadint.New(x.Rsh(x, 1), big.NewInt(y)), norm
			}
		}
	}
}

func TestClassOfNonPrincipalPrimes(t *testing.T) {
	spec.Run(t, "D = 40", func(t *testing.T, when spec.G, it spec.S) {
		var o *Order
		var P2, P3 *Ideal

		it.Before(func() {
			var err error
			o, err = NewOrderFromInt64(40)
			require.NoError(t, err)
			P2, err = o.Prime(big.NewInt(2))
			require.NoError(t, err)
			P3, err = o.Prime(big.NewInt(3))
			require.NoError(t, err)
		})

		when("the primes above 2 and 3 are taken alone", func() {
			it("finds neither principal", func() {
				require.Equal(t, "[2, 0 + 1*w]", P2.String())
				require.Equal(t, "[3, 1 + 1*w]", P3.String())
				require.False(t, o.IsPrincipal(P2))
				require.False(t, o.IsPrincipal(P3))
				_, ok := o.Generator(P3)
				require.False(t, ok)
			})

			it("finds them equivalent", func() {
				require.True(t, o.IsEquivalent(P2, P3))
				require.True(t, o.IsEquivalent(P2, o.Conj(P3)))
				require.False(t, o.IsEquivalent(P2, o.Unit()))
			})
		})

		when("the primes are multiplied", func() {
			it("generates P2 P3 with an element of norm 6 or -6", func() {
				A := o.Mul(P2, P3)
				alpha, ok := o.Generator(A)
				require.True(t, ok)
				require.Equal(t, int64(6), new(big.Int).Abs(o.Context().Norm(alpha)).Int64())
				require.True(t, A.Equal(o.Principal(alpha)))
			})

			it("generates P2^2 with 2", func() {
				alpha, ok := o.Generator(o.Sqr(P2))
				require.True(t, ok)
				require.True(t, o.Context().IsAssociate(quadint.NewFromInt64(2, 0), alpha))
			})
		})
	}, spec.Report(report.Terminal{}))
}
