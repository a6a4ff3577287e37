package groupgen

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/predrag3141/quadclass/intmatrix"
	"github.com/predrag3141/quadclass/util"
)

const logPrefix = "groupgen"

// Group is a finite abelian group with elements of type T. Equal decides equality of
// group elements, which may be coarser than equality of their representations.
type Group[T any] interface {
	Identity() T
	Mul(x, y T) T
	Equal(x, y T) bool

	// Power returns x^n, where n may be negative
	Power(x T, n int64) T
}

// Generator is a group element together with its order
type Generator[T any] struct {
	Element T
	Order   int64
}

// Generators returns generators of the subgroup of g generated by candidates, together
// with the order of that subgroup. The orders of the generators are the invariant
// factors of the subgroup that exceed 1, each dividing the one before it, and their
// product is the order of the subgroup. A trivial subgroup has no generators and order 1.
//
// The subgroup S is grown one candidate f at a time. The smallest k with f^k in S, say
// f^k = s, gives a relation between f and the candidates already absorbed, and S is
// replaced by the union of the cosets S f^i, 0 <= i < k. Each element of S is stored with
// its exponent vector over the absorbed candidates. The relations form a lower
// triangular matrix whose Smith normal form yields the invariant factors, and the change
// of basis U turns the absorbed candidates into generators.
//
// Reference: J. Buchmann and U. Vollmer, "Binary Quadratic Forms", Algorithm 9.1
func Generators[T any](g Group[T], candidates []T) ([]Generator[T], int64, error) {
	remaining := slices.Clone(candidates)
	elements := []T{g.Identity()}
	exponents := [][]int64{{}}
	absorbed := make([]T, 0)
	relations := make([][]int64, 0)
	for numChecked := 0; ; {
		// Candidates already in S bring nothing new
		for _, s := range elements[numChecked:] {
			remaining = slices.DeleteFunc(remaining, func(x T) bool { return g.Equal(x, s) })
		}
		numChecked = len(elements)
		if len(remaining) == 0 {
			break
		}

		// f, f^2, ..., f^(k-1) are outside S and f^k = elements[index]
		f := remaining[0]
		absorbed = append(absorbed, f)
		chain := make([]T, 0)
		power := f
		index := indexOf(g, elements, power)
		for index < 0 {
			chain = append(chain, power)
			power = g.Mul(power, f)
			index = indexOf(g, elements, power)
		}
		l := len(relations)
		relation := make([]int64, l+1)
		for j := 0; j < l; j++ {
			relation[j] = -exponents[index][j]
		}
		relation[l] = int64(len(chain) + 1)
		relations = append(relations, relation)

		// S becomes the union of the cosets S f^i
		m := numChecked
		for i, h := range chain {
			for j := 0; j < m; j++ {
				elements = append(elements, g.Mul(elements[j], h))
				e := make([]int64, l+1)
				copy(e, exponents[j])
				e[l] = int64(i + 1)
				exponents = append(exponents, e)
			}
		}
		for j := 0; j < m; j++ {
			exponents[j] = append(exponents[j], 0)
		}
		if util.IsLogLevelDebug() {
			util.Debugf(
				logPrefix, "candidate %d has relative order %d, subgroup order is now %d",
				l, len(chain)+1, len(elements),
			)
		}
	}

	order := int64(len(elements))
	l := len(relations)
	if l == 0 {
		return []Generator[T]{}, order, nil
	}
	b := intmatrix.NewEmpty(l, l)
	for i, relation := range relations {
		for j, r := range relation {
			if err := b.SetInt64(i, j, r); err != nil {
				return nil, 0, fmt.Errorf("Generators: could not set relation entry: %w", err)
			}
		}
	}
	diag, u, err := intmatrix.SmithNF(b)
	if err != nil {
		return nil, 0, fmt.Errorf("Generators: could not compute Smith normal form of\n%v\n%w", b, err)
	}

	orders, err := util.CopyBigIntToInt64(diag)
	if err != nil {
		return nil, 0, fmt.Errorf("Generators: invariant factors %v: %w", diag, err)
	}

	// Row i of U holds the exponents of the absorbed candidates in generator i. Each
	// exponent can be reduced modulo the order of the subgroup.
	bigOrder := big.NewInt(order)
	retVal := make([]Generator[T], 0, l)
	for i, d := range orders {
		if d <= 1 {
			continue
		}
		row, err := u.Row(i)
		if err != nil {
			return nil, 0, fmt.Errorf("Generators: could not get row %d of U: %w", i, err)
		}
		element := g.Identity()
		for k, e := range row {
			element = g.Mul(element, g.Power(absorbed[k], e.Mod(e, bigOrder).Int64()))
		}
		retVal = append(retVal, Generator[T]{Element: element, Order: d})
	}
	return retVal, order, nil
}

func indexOf[T any](g Group[T], elements []T, x T) int {
	return slices.IndexFunc(elements, func(y T) bool { return g.Equal(x, y) })
}
