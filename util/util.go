package util

// Copyright (c) 2025 Colin McRae

import (
	"fmt"
	"math/big"
)

// CopyInt64ToBigInt converts an int64 matrix to a *big.Int matrix
func CopyInt64ToBigInt(input []int64) []*big.Int {
	retVal := make([]*big.Int, len(input))
	for i := 0; i < len(input); i++ {
		retVal[i] = big.NewInt(input[i])
	}
	return retVal
}

// CopyBigIntToInt64 converts a *big.Int matrix to an int64 matrix. An error is returned
// if any entry does not fit in an int64.
func CopyBigIntToInt64(input []*big.Int) ([]int64, error) {
	retVal := make([]int64, len(input))
	for i := 0; i < len(input); i++ {
		if !input[i].IsInt64() {
			return nil, fmt.Errorf("CopyBigIntToInt64: entry %d = %v does not fit in an int64", i, input[i])
		}
		retVal[i] = input[i].Int64()
	}
	return retVal, nil
}

// CopyBigInt returns a deep copy of a *big.Int matrix
func CopyBigInt(input []*big.Int) []*big.Int {
	retVal := make([]*big.Int, len(input))
	for i := 0; i < len(input); i++ {
		retVal[i] = new(big.Int).Set(input[i])
	}
	return retVal
}

// MultiplyIntInt returns the matrix product, x * y, for []*big.Int x and
// []*big.Int y. n must equal the number of columns in x and the number of
// rows in y.
func MultiplyIntInt(x []*big.Int, y []*big.Int, n int) ([]*big.Int, error) {
	// x is mxn, y is nxp and xy is mxp.
	m, p, err := getDimensions(len(x), len(y), n, "MultiplyIntInt")
	if err != nil {
		return nil, err
	}
	xy := make([]*big.Int, m*p)
	term := new(big.Int)
	for i := 0; i < m; i++ {
		for j := 0; j < p; j++ {
			xyEntry := new(big.Int).Mul(x[i*n], y[j]) // x[i][0] * y[0][j]
			for k := 1; k < n; k++ {
				xyEntry.Add(xyEntry, term.Mul(x[i*n+k], y[k*p+j])) // x[i][k] * y[k][j]
			}
			xy[i*p+j] = xyEntry
		}
	}
	return xy, nil
}

// getDimensions returns the dimensions m and p for a matrix multiply
// xy where x has mn entries, y has np entries, and the number of columns
// in x (= the number of rows in y) is n.
func getDimensions(mn, np, n int, caller string) (int, int, error) {
	caller = fmt.Sprintf("%s-getDimensions", caller)
	if n <= 0 {
		return 0, 0, fmt.Errorf("%s: inner dimension %d is not positive", caller, n)
	}
	if mn%n != 0 {
		return 0, 0, fmt.Errorf(
			"%s: non-integer number of rows %d / %d in x", caller, mn, n,
		)
	}
	if np%n != 0 {
		return 0, 0, fmt.Errorf(
			"%s: non-integer number of columns %d / %d in y", caller, np, n,
		)
	}
	return mn / n, np / n, nil
}
