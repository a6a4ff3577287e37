package intmatrix

// Copyright (c) 2025 Colin McRae

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/predrag3141/quadclass/util"
)

var (
	// ErrInvalidShape is returned when a matrix does not have the number of rows or
	// columns an operation requires.
	ErrInvalidShape = errors.New("invalid matrix shape")

	// ErrSingular is returned by operations that require a nonsingular matrix.
	ErrSingular = errors.New("singular matrix")
)

// IntMatrix is a dense matrix of arbitrary-precision integers, stored row-major.
type IntMatrix struct {
	numRows int
	numCols int
	entries []*big.Int
}

// NewEmpty returns a numRows x numCols matrix of zeros
func NewEmpty(numRows, numCols int) *IntMatrix {
	entries := make([]*big.Int, numRows*numCols)
	for i := range entries {
		entries[i] = big.NewInt(0)
	}
	return &IntMatrix{numRows: numRows, numCols: numCols, entries: entries}
}

// NewIdentity returns the dim x dim identity matrix
func NewIdentity(dim int) *IntMatrix {
	retVal := NewEmpty(dim, dim)
	for i := 0; i < dim; i++ {
		retVal.entries[i*dim+i].SetInt64(1)
	}
	return retVal
}

// NewFromInt64Array returns a numRows x numCols matrix whose row-major entries are
// copied from entries.
func NewFromInt64Array(entries []int64, numRows, numCols int) (*IntMatrix, error) {
	if numRows < 0 || numCols < 0 || len(entries) != numRows*numCols {
		return nil, fmt.Errorf(
			"NewFromInt64Array: %d entries cannot fill a %d x %d matrix: %w",
			len(entries), numRows, numCols, ErrInvalidShape,
		)
	}
	return &IntMatrix{numRows: numRows, numCols: numCols, entries: util.CopyInt64ToBigInt(entries)}, nil
}

// NewFromBigIntArray returns a numRows x numCols matrix whose row-major entries are
// deep copies of entries.
func NewFromBigIntArray(entries []*big.Int, numRows, numCols int) (*IntMatrix, error) {
	if numRows < 0 || numCols < 0 || len(entries) != numRows*numCols {
		return nil, fmt.Errorf(
			"NewFromBigIntArray: %d entries cannot fill a %d x %d matrix: %w",
			len(entries), numRows, numCols, ErrInvalidShape,
		)
	}
	return &IntMatrix{numRows: numRows, numCols: numCols, entries: util.CopyBigInt(entries)}, nil
}

func (m *IntMatrix) NumRows() int {
	return m.numRows
}

func (m *IntMatrix) NumCols() int {
	return m.numCols
}

// Get returns a copy of m[i][j]
func (m *IntMatrix) Get(i, j int) (*big.Int, error) {
	if err := m.checkIndices(i, j, "Get"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(m.entries[i*m.numCols+j]), nil
}

// Set copies x into m[i][j]
func (m *IntMatrix) Set(i, j int, x *big.Int) error {
	if err := m.checkIndices(i, j, "Set"); err != nil {
		return err
	}
	m.entries[i*m.numCols+j].Set(x)
	return nil
}

// SetInt64 sets m[i][j] to x
func (m *IntMatrix) SetInt64(i, j int, x int64) error {
	if err := m.checkIndices(i, j, "SetInt64"); err != nil {
		return err
	}
	m.entries[i*m.numCols+j].SetInt64(x)
	return nil
}

// Row returns copies of the entries in row i
func (m *IntMatrix) Row(i int) ([]*big.Int, error) {
	if (i < 0) || (m.numRows <= i) {
		return nil, fmt.Errorf("Row: row %d is not in {0,...,%d}", i, m.numRows-1)
	}
	return util.CopyBigInt(m.entries[i*m.numCols : (i+1)*m.numCols]), nil
}

// Clone returns a deep copy of m
func (m *IntMatrix) Clone() *IntMatrix {
	return &IntMatrix{numRows: m.numRows, numCols: m.numCols, entries: util.CopyBigInt(m.entries)}
}

// Transpose returns the transpose of m
func (m *IntMatrix) Transpose() *IntMatrix {
	retVal := NewEmpty(m.numCols, m.numRows)
	for i := 0; i < m.numRows; i++ {
		for j := 0; j < m.numCols; j++ {
			retVal.entries[j*m.numRows+i].Set(m.entries[i*m.numCols+j])
		}
	}
	return retVal
}

// Mul sets m to the product x * y and returns m. The shape of m is replaced by the
// shape of the product.
func (m *IntMatrix) Mul(x, y *IntMatrix) (*IntMatrix, error) {
	if x.numCols != y.numRows {
		return nil, fmt.Errorf(
			"Mul: cannot multiply %d x %d by %d x %d: %w",
			x.numRows, x.numCols, y.numRows, y.numCols, ErrInvalidShape,
		)
	}
	if x.numRows == 0 || y.numCols == 0 || x.numCols == 0 {
		*m = *NewEmpty(x.numRows, y.numCols)
		return m, nil
	}
	xy, err := util.MultiplyIntInt(x.entries, y.entries, x.numCols)
	if err != nil {
		return nil, fmt.Errorf("Mul: could not multiply: %q", err.Error())
	}
	m.numRows, m.numCols, m.entries = x.numRows, y.numCols, xy
	return m, nil
}

// Equals returns whether m and other have the same shape and entries
func (m *IntMatrix) Equals(other *IntMatrix) bool {
	if m.numRows != other.numRows || m.numCols != other.numCols {
		return false
	}
	for i := range m.entries {
		if m.entries[i].Cmp(other.entries[i]) != 0 {
			return false
		}
	}
	return true
}

// IsLowerTriangular returns whether every entry above the diagonal of m is zero
func (m *IntMatrix) IsLowerTriangular() bool {
	for i := 0; i < m.numRows; i++ {
		for j := i + 1; j < m.numCols; j++ {
			if m.entries[i*m.numCols+j].Sign() != 0 {
				return false
			}
		}
	}
	return true
}

// Determinant returns the determinant of a square matrix, computed with the
// fraction-free Bareiss elimination so that every intermediate value is an integer.
func (m *IntMatrix) Determinant() (*big.Int, error) {
	if m.numRows != m.numCols {
		return nil, fmt.Errorf(
			"Determinant: %d x %d is not square: %w", m.numRows, m.numCols, ErrInvalidShape,
		)
	}
	n := m.numRows
	if n == 0 {
		return big.NewInt(1), nil
	}
	a := m.rows()
	sign := 1
	prevPivot := big.NewInt(1)
	t := new(big.Int)
	for k := 0; k < n-1; k++ {
		if a[k][k].Sign() == 0 {
			swap := -1
			for i := k + 1; i < n; i++ {
				if a[i][k].Sign() != 0 {
					swap = i
					break
				}
			}
			if swap < 0 {
				return big.NewInt(0), nil
			}
			a[k], a[swap] = a[swap], a[k]
			sign = -sign
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				// a[i][j] = (a[i][j] a[k][k] - a[i][k] a[k][j]) / prevPivot, which is exact
				a[i][j].Mul(a[i][j], a[k][k])
				a[i][j].Sub(a[i][j], t.Mul(a[i][k], a[k][j]))
				a[i][j].Quo(a[i][j], prevPivot)
			}
		}
		prevPivot = a[k][k]
	}
	retVal := new(big.Int).Set(a[n-1][n-1])
	if sign < 0 {
		retVal.Neg(retVal)
	}
	return retVal, nil
}

// String prints m one row per line, e.g. "[1 0]\n[2 3]"
func (m *IntMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.numRows; i++ {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("[")
		for j := 0; j < m.numCols; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(m.entries[i*m.numCols+j].String())
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// rows returns a deep copy of m as a slice of rows, which is the form the
// normal-form algorithms work in.
func (m *IntMatrix) rows() [][]*big.Int {
	retVal := make([][]*big.Int, m.numRows)
	for i := 0; i < m.numRows; i++ {
		retVal[i] = util.CopyBigInt(m.entries[i*m.numCols : (i+1)*m.numCols])
	}
	return retVal
}

// fromRows builds a matrix from rows without copying the entries
func fromRows(rows [][]*big.Int, numCols int) *IntMatrix {
	retVal := &IntMatrix{numRows: len(rows), numCols: numCols, entries: make([]*big.Int, 0, len(rows)*numCols)}
	for _, row := range rows {
		retVal.entries = append(retVal.entries, row...)
	}
	return retVal
}

func (m *IntMatrix) checkIndices(i, j int, caller string) error {
	if (i < 0) || (m.numRows <= i) {
		return fmt.Errorf("%s: row %d is not in {0,...,%d}", caller, i, m.numRows-1)
	}
	if (j < 0) || (m.numCols <= j) {
		return fmt.Errorf("%s: column %d is not in {0,...,%d}", caller, j, m.numCols-1)
	}
	return nil
}
