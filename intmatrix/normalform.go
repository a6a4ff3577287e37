package intmatrix

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"
)

// HermiteNF returns the lower triangular Hermite normal form W of an m x n matrix A
// with m >= n. The rows of W span the same lattice as the rows of A. Every diagonal
// entry of W is non-negative and, below a non-zero diagonal entry d, every entry of
// its column lies in [0, d).
//
// Columns are processed from right to left. For column l, the pivot row k collects the
// gcd of the entries of column l in rows 0,...,k via two-row operations
//
//	[ s  -t ]  applied to rows i and k, where d = gcd(A[i][l], A[k][l]) = u A[i][l] + v A[k][l],
//	[ u   v ]  s = A[k][l] / d and t = A[i][l] / d.
//
// This matrix has determinant (s v + t u) = 1, so the lattice is preserved. Rows below
// the pivot are then reduced modulo the pivot and the pivot row moves up by one. The
// top m-n rows end up zero and are dropped.
//
// Reference: H. Cohen, "A Course in Computational Algebraic Number Theory", Algorithm 2.4.5
func HermiteNF(a *IntMatrix) (*IntMatrix, error) {
	m, n := a.numRows, a.numCols
	if m < n {
		return nil, fmt.Errorf("HermiteNF: %d x %d has fewer rows than columns: %w", m, n, ErrInvalidShape)
	}
	w := a.rows()
	d, u, v := new(big.Int), new(big.Int), new(big.Int)
	s, t, q := new(big.Int), new(big.Int), new(big.Int)
	x, y := new(big.Int), new(big.Int)
	k := m - 1
	for l := n - 1; 0 <= l; l-- {
		for i := k - 1; 0 <= i; i-- {
			if w[i][l].Sign() == 0 {
				continue
			}
			d.GCD(u, v, w[i][l], w[k][l])
			s.Quo(w[k][l], d)
			t.Quo(w[i][l], d)
			w[k][l].Set(d)
			w[i][l].SetInt64(0)
			for j := 0; j < l; j++ {
				// (w[i][j], w[k][j]) = (s w[i][j] - t w[k][j], u w[i][j] + v w[k][j])
				x.Mul(s, w[i][j])
				x.Sub(x, y.Mul(t, w[k][j]))
				y.Mul(v, w[k][j])
				w[k][j].Mul(u, w[i][j])
				w[k][j].Add(w[k][j], y)
				w[i][j].Set(x)
			}
		}
		if w[k][l].Sign() == 0 {
			// Column l is zero in rows 0,...,k, so the pivot row stays where it is
			continue
		}
		if w[k][l].Sign() < 0 {
			for j := 0; j <= l; j++ {
				w[k][j].Neg(w[k][j])
			}
		}
		for i := k + 1; i < m; i++ {
			// Euclidean division by a positive pivot is floor division
			q.Div(w[i][l], w[k][l])
			if q.Sign() == 0 {
				continue
			}
			for j := 0; j <= l; j++ {
				w[i][j].Sub(w[i][j], x.Mul(q, w[k][j]))
			}
		}
		k--
	}
	return fromRows(w[m-n:], n), nil
}

// SmithNF returns the invariant factors and a unimodular change of basis U for a
// nonsingular n x n matrix A. The invariant factors diag[0], diag[1], ..., diag[n-1]
// are non-negative and each one divides the one before it. For some unimodular V,
//
//	A = V diag(diag) U
//
// V is not returned.
//
// The trailing row and column are cleared alternately:
//
//   - Row operations clear column k above the pivot A[k][k]. They only affect V.
//
//   - Column operations clear row k left of the pivot. Each one replaces columns j and k
//     of A by (p col_j - q col_k, x col_j + y col_k), where d = gcd(A[k][j], A[k][k]) =
//     x A[k][j] + y A[k][k], p = A[k][k] / d and q = A[k][j] / d. The inverse of this
//     operation is applied to rows j and k of U, so that A = V A' U holds throughout.
//
// Once both are clear, the pivot must divide every entry of the leading k x k block.
// If it does not, a row of the block holding an entry the pivot does not divide is
// added to row k, and the clearing starts over with a smaller pivot. Otherwise the
// pivot is final and k moves up by one.
//
// Reference: H. Cohen, "A Course in Computational Algebraic Number Theory", Algorithm 2.4.14
func SmithNF(a *IntMatrix) ([]*big.Int, *IntMatrix, error) {
	if a.numRows != a.numCols {
		return nil, nil, fmt.Errorf(
			"SmithNF: %d x %d is not square: %w", a.numRows, a.numCols, ErrInvalidShape,
		)
	}
	n := a.numRows
	w := a.rows()
	u := NewIdentity(n).rows()
	d, x, y := new(big.Int), new(big.Int), new(big.Int)
	p, q, r, t := new(big.Int), new(big.Int), new(big.Int), new(big.Int)
	for k := n - 1; k > 0; {
		// Row operations clearing column k above the pivot
		for i := k - 1; 0 <= i; i-- {
			if w[i][k].Sign() == 0 {
				continue
			}
			d.GCD(x, y, w[i][k], w[k][k])
			p.Quo(w[k][k], d)
			q.Quo(w[i][k], d)
			w[k][k].Set(d)
			w[i][k].SetInt64(0)
			for j := 0; j < k; j++ {
				// (w[i][j], w[k][j]) = (p w[i][j] - q w[k][j], x w[i][j] + y w[k][j])
				r.Mul(p, w[i][j])
				r.Sub(r, t.Mul(q, w[k][j]))
				t.Mul(y, w[k][j])
				w[k][j].Mul(x, w[i][j])
				w[k][j].Add(w[k][j], t)
				w[i][j].Set(r)
			}
		}

		// Column operations clearing row k left of the pivot
		columnOpPerformed := false
		for j := k - 1; 0 <= j; j-- {
			if w[k][j].Sign() == 0 {
				continue
			}
			d.GCD(x, y, w[k][j], w[k][k])
			p.Quo(w[k][k], d)
			q.Quo(w[k][j], d)
			w[k][k].Set(d)
			w[k][j].SetInt64(0)
			for i := 0; i < k; i++ {
				// (w[i][j], w[i][k]) = (p w[i][j] - q w[i][k], x w[i][j] + y w[i][k])
				r.Mul(p, w[i][j])
				r.Sub(r, t.Mul(q, w[i][k]))
				t.Mul(y, w[i][k])
				w[i][k].Mul(x, w[i][j])
				w[i][k].Add(w[i][k], t)
				w[i][j].Set(r)
			}
			for c := 0; c < n; c++ {
				// (u[j][c], u[k][c]) = (y u[j][c] - x u[k][c], q u[j][c] + p u[k][c])
				r.Mul(y, u[j][c])
				r.Sub(r, t.Mul(x, u[k][c]))
				t.Mul(p, u[k][c])
				u[k][c].Mul(q, u[j][c])
				u[k][c].Add(u[k][c], t)
				u[j][c].Set(r)
			}
			columnOpPerformed = true
		}
		if columnOpPerformed {
			// Column operations may have refilled column k above the pivot
			continue
		}
		if w[k][k].Sign() == 0 {
			return nil, nil, fmt.Errorf("SmithNF: pivot %d vanished: %w", k, ErrSingular)
		}

		// The pivot is final only if it divides the leading k x k block
		nonDividingRow := -1
		for i := 0; (i < k) && (nonDividingRow < 0); i++ {
			for j := 0; j < k; j++ {
				if r.Rem(w[i][j], w[k][k]).Sign() != 0 {
					nonDividingRow = i
					break
				}
			}
		}
		if nonDividingRow < 0 {
			k--
			continue
		}
		for j := 0; j < k; j++ {
			// Row k is zero left of the pivot, so this adds row nonDividingRow to row k
			w[k][j].Set(w[nonDividingRow][j])
		}
	}
	if (n > 0) && (w[0][0].Sign() == 0) {
		return nil, nil, fmt.Errorf("SmithNF: pivot 0 vanished: %w", ErrSingular)
	}

	// The signs of the diagonal can be absorbed into V
	diag := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		diag[i] = new(big.Int).Abs(w[i][i])
	}
	return diag, fromRows(u, n), nil
}
