package classgroup

// Copyright (c) 2025 Colin McRae

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/predrag3141/quadclass/factoring"
	"github.com/predrag3141/quadclass/ideal"
	"github.com/predrag3141/quadclass/quadint"
	"github.com/predrag3141/quadclass/util"
)

func TestNew(t *testing.T) {
	for _, D := range []int64{0, 1, 2, 3, -12, 45, 32, 1003} {
		_, err := NewFromInt64(D)
		require.ErrorIsf(t, err, quadint.ErrInvalidDiscriminant, "D = %d", D)
	}
	for D, amax := range map[int64]int64{-3: 1, -4: 1, -20: 2, -23: 2, -1019: 18, 5: 1, 40: 3, 1001: 15} {
		g, err := NewFromInt64(D)
		require.NoError(t, err)
		require.Equalf(t, amax, g.Amax().Int64(), "D = %d", D)
		require.Equal(t, D, g.Order().Context().D().Int64())
	}
}

func TestClassNumberAndStructure(t *testing.T) {
	for _, tc := range []struct {
		D      int64
		h      int64
		orders []int64
	}{
		{-3, 1, []int64{}},
		{-4, 1, []int64{}},
		{-20, 2, []int64{2}},
		{-23, 3, []int64{3}},
		{-47, 5, []int64{5}},
		{-56, 4, []int64{4}},
		{-71, 7, []int64{7}},
		{-84, 4, []int64{2, 2}},
		{-163, 1, []int64{}},
		{-420, 8, []int64{2, 2, 2}},
		{5, 1, []int64{}},
		{12, 1, []int64{}},
		{40, 2, []int64{2}},
		{60, 2, []int64{2}},
		{65, 2, []int64{2}},
		{229, 3, []int64{3}},
	} {
		g, err := NewFromInt64(tc.D)
		require.NoError(t, err)
		h, err := g.ClassNumber()
		require.NoError(t, err)
		require.Equalf(t, tc.h, h, "D = %d", tc.D)
		s, err := g.Structure()
		require.NoError(t, err)
		require.Equal(t, tc.h, s.ClassNumber)
		require.Equalf(t, tc.orders, s.Orders(), "D = %d", tc.D)
	}
}

func TestMinimalGenerators(t *testing.T) {
	for D, expected := range map[int64]string{
		-20: "[2, 1 + 1*w]",
		-23: "[2, 0 + 1*w]",
		40:  "[2, 0 + 1*w]",
	} {
		g, err := NewFromInt64(D)
		require.NoError(t, err)
		generators, h, err := g.Generators(true)
		require.NoError(t, err)
		require.Equal(t, 1, len(generators))
		require.Equal(t, h, generators[0].Order)
		require.Equalf(t, expected, generators[0].Element.String(), "D = %d", D)
	}
}

func TestClassNumberRanges(t *testing.T) {
	for _, bounds := range [][2]int64{{-1050, -1000}, {1000, 1050}} {
		for D := bounds[0]; D <= bounds[1]; D++ {
			g, err := NewFromInt64(D)
			if err != nil {
				require.ErrorIs(t, err, quadint.ErrInvalidDiscriminant)
				require.False(t, factoring.IsFundamental(big.NewInt(D)))
				continue
			}
			h, err := g.ClassNumber()
			require.NoError(t, err)
			require.Greater(t, h, int64(0))
			for _, minimal := range []bool{false, true} {
				generators, order, err := g.Generators(minimal)
				require.NoError(t, err)
				require.Equalf(t, h, order, "D = %d", D)
				product := int64(1)
				for i, gen := range generators {
					product *= gen.Order
					if i > 0 {
						require.Equal(t, int64(0), generators[i-1].Order%gen.Order)
					}
					requireOrder(t, g, gen.Element, gen.Order)
				}
				require.Equalf(t, h, product, "D = %d", D)
			}
			if D > 0 {
				requireFundamentalUnit(t, g.Order())
			}
		}
	}
}

// requireFundamentalUnit checks that the fundamental unit is a unit of the stated norm and
// that no ideal of the principal cycle before its end has a unit as its distance
func requireFundamentalUnit(t *testing.T, o *ideal.Order) {
	ctx := o.Context()
	u, norm := o.FundamentalUnit()
	require.True(t, ctx.IsUnit(u))
	require.Equal(t, int64(norm), ctx.Norm(u).Int64())
	require.Equal(t, 1, u.Y.Sign())
	cyc, err := o.CycleInfra(o.Unit(), ideal.NewInfra())
	require.NoError(t, err)
	for steps := 0; cyc.Next(); steps++ {
		if steps == 0 {
			continue
		}
		require.False(t, cyc.Ideal().IsUnit())
		if v, ok := o.Eval(cyc.Infra()); ok {
			require.Falsef(t, ctx.IsUnit(v), "D = %v, step %d", ctx.D(), steps)
		}
	}
}

func TestGroupOperations(t *testing.T) {
	for _, D := range []int64{-84, -1019, -420, 229, 1001, 1020} {
		g, err := NewFromInt64(D)
		require.NoError(t, err)
		o := g.Order()
		h, err := g.ClassNumber()
		require.NoError(t, err)
		var seq factoring.PrimeSeq
		elements := make([]*ideal.Ideal, 0)
		for p := seq.Next(); len(elements) < 6; p = seq.Next() {
			bigP := new(big.Int).SetUint64(p)
			if o.Kronecker(bigP) < 0 {
				continue
			}
			P, err := o.Prime(bigP)
			require.NoError(t, err)
			elements = append(elements, g.Class(P))
		}
		for _, x := range elements {
			require.True(t, o.IsReduced(x))
			require.True(t, g.Equal(g.Identity(), g.Mul(x, g.Inverse(x))))
			require.True(t, g.Equal(g.Identity(), g.Power(x, h)))
			require.True(t, g.Equal(g.Inverse(g.Sqr(x)), g.Power(x, -2)))
			require.True(t, g.Equal(g.Mul(g.Sqr(x), x), g.Power(x, 3)))
			require.True(t, g.Identity().Equal(g.Power(x, 0)))

			// x^(-2^63) = (x^(2^63 mod h))^-1 and x^(2^63 - 1) = x^(2^63 mod h) / x
			r := new(big.Int).Lsh(big.NewInt(1), 63)
			xr := g.Power(x, r.Mod(r, big.NewInt(h)).Int64())
			require.True(t, g.Equal(g.Inverse(xr), g.Power(x, math.MinInt64)))
			require.True(t, g.Equal(g.Mul(xr, g.Inverse(x)), g.Power(x, math.MaxInt64)))
			for _, y := range elements {
				xy := g.Mul(x, y)
				require.True(t, o.IsReduced(xy))
				require.True(t, g.Equal(xy, g.Mul(y, x)))
				require.True(t, g.Equal(xy, o.Mul(x, y)))
			}
		}
	}
}

func TestStructureJSON(t *testing.T) {
	g, err := NewFromInt64(-84)
	require.NoError(t, err)
	s, err := g.Structure()
	require.NoError(t, err)
	data, err := s.JSON()
	require.NoError(t, err)
	var decoded Structure
	require.NoError(t, util.UnmarshalJSON(data, &decoded))
	require.Equal(t, int64(-84), decoded.Discriminant.Int64())
	require.Equal(t, int64(4), decoded.ClassNumber)
	require.Equal(t, len(s.Generators), len(decoded.Generators))
	for i, gen := range decoded.Generators {
		require.Equal(t, 0, gen.A.Cmp(s.Generators[i].A))
		require.Equal(t, 0, gen.BX.Cmp(s.Generators[i].BX))
		require.Equal(t, 0, gen.BY.Cmp(s.Generators[i].BY))
		require.Equal(t, s.Generators[i].Order, gen.Order)

		// The record describes a valid ideal of the order
		_, err = g.Order().New(gen.A, gen.BX, gen.BY)
		require.NoError(t, err)
	}
}

// requireOrder checks that x has exactly order n in g
func requireOrder(t *testing.T, g *Group, x *ideal.Ideal, n int64) {
	require.True(t, g.Equal(g.Identity(), g.Power(x, n)))
	for _, pe := range factoring.Factor(big.NewInt(n)) {
		k := n / pe.Prime.Int64()
		require.Falsef(t, g.Equal(g.Identity(), g.Power(x, k)), "x = %v has order dividing %d", x, k)
	}
}
