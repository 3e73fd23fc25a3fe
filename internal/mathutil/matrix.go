package mathutil

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotSquare is returned by operations that need rows == cols.
	ErrNotSquare = errors.New("not square")
	// ErrSingular is returned when Gauss-Jordan elimination meets a near-zero pivot.
	ErrSingular = errors.New("singular matrix")
	// ErrNotHomogeneous is returned by ToVec for anything but a 4×1 column.
	ErrNotHomogeneous = errors.New("not a 4x1 homogeneous column")
	// ErrZeroW is returned when a homogeneous point has w == 0.
	ErrZeroW = errors.New("homogeneous w is zero")
)

// singularTolerance is relative to the largest absolute entry of the matrix.
const singularTolerance = 1e-12

// Matrix is a dense row-major matrix with explicit dimensions.
// The zero value is an empty 0×0 matrix.
type Matrix struct {
	rows, cols int
	m          []float64
}

// NewMatrix returns a zero-initialized rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		rows, cols = 0, 0
	}
	return Matrix{rows: rows, cols: cols, m: make([]float64, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	id := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		id.m[i*n+i] = 1
	}
	return id
}

// FromRows builds a matrix from a slice of equally long rows.
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	cols := len(rows[0])
	out := NewMatrix(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("mathutil: row %d has %d columns, want %d: %w", r, len(row), cols, ErrDimensionMismatch)
		}
		copy(out.m[r*cols:], row)
	}
	return out, nil
}

// FromPoint lifts v to the homogeneous column [x, y, z, 1].
func FromPoint(v Vec3) Matrix {
	return Matrix{rows: 4, cols: 1, m: []float64{v[0], v[1], v[2], 1}}
}

// FromDirection lifts v to [x, y, z, 0] so translation leaves it untouched.
func FromDirection(v Vec3) Matrix {
	return Matrix{rows: 4, cols: 1, m: []float64{v[0], v[1], v[2], 0}}
}

func (a Matrix) Rows() int { return a.rows }
func (a Matrix) Cols() int { return a.cols }

// At returns the entry at row r, column c. It panics when out of range.
func (a Matrix) At(r, c int) float64 {
	a.check(r, c)
	return a.m[r*a.cols+c]
}

// Set writes the entry at row r, column c. Matrices share backing storage
// when copied by value; use Clone before mutating a shared matrix.
func (a Matrix) Set(r, c int, v float64) {
	a.check(r, c)
	a.m[r*a.cols+c] = v
}

func (a Matrix) check(r, c int) {
	if r < 0 || r >= a.rows || c < 0 || c >= a.cols {
		panic(fmt.Sprintf("mathutil: index (%d,%d) out of range for %dx%d matrix", r, c, a.rows, a.cols))
	}
}

// Clone returns a deep copy.
func (a Matrix) Clone() Matrix {
	out := NewMatrix(a.rows, a.cols)
	copy(out.m, a.m)
	return out
}

// Mul returns a × b. It fails with ErrDimensionMismatch when a.Cols() != b.Rows().
func (a Matrix) Mul(b Matrix) (Matrix, error) {
	if a.cols != b.rows {
		return Matrix{}, fmt.Errorf("mathutil: multiply %dx%d by %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	out := NewMatrix(a.rows, b.cols)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			var s float64
			for k := 0; k < a.cols; k++ {
				s += a.m[i*a.cols+k] * b.m[k*b.cols+j]
			}
			out.m[i*b.cols+j] = s
		}
	}
	return out, nil
}

// Chain multiplies the matrices left to right: Chain(A, B, C) = A × B × C.
func Chain(ms ...Matrix) (Matrix, error) {
	if len(ms) == 0 {
		return Matrix{}, fmt.Errorf("mathutil: chain of no matrices: %w", ErrDimensionMismatch)
	}
	out := ms[0]
	for _, m := range ms[1:] {
		var err error
		if out, err = out.Mul(m); err != nil {
			return Matrix{}, err
		}
	}
	return out, nil
}

func (a Matrix) Transpose() Matrix {
	out := NewMatrix(a.cols, a.rows)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			out.m[j*a.rows+i] = a.m[i*a.cols+j]
		}
	}
	return out
}

// Inverse computes a⁻¹ by Gauss-Jordan elimination on the augmented [a | I].
// The forward sweep normalizes each pivot row and clears the column below it,
// the backward sweep clears the column above. Rows are swapped to bring the
// largest remaining entry onto the diagonal; a pivot smaller than
// singularTolerance times the largest entry of a yields ErrSingular.
func (a Matrix) Inverse() (Matrix, error) {
	if a.rows != a.cols {
		return Matrix{}, fmt.Errorf("mathutil: invert %dx%d: %w", a.rows, a.cols, ErrNotSquare)
	}
	n := a.rows
	w := 2 * n
	aug := make([]float64, n*w)
	var scale float64
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := a.m[r*n+c]
			aug[r*w+c] = v
			if av := math.Abs(v); av > scale {
				scale = av
			}
		}
		aug[r*w+n+r] = 1
	}
	if scale == 0 {
		return Matrix{}, fmt.Errorf("mathutil: invert %dx%d zero matrix: %w", n, n, ErrSingular)
	}
	tol := singularTolerance * scale

	for i := 0; i < n; i++ {
		p := i
		for k := i + 1; k < n; k++ {
			if math.Abs(aug[k*w+i]) > math.Abs(aug[p*w+i]) {
				p = k
			}
		}
		if math.Abs(aug[p*w+i]) < tol {
			return Matrix{}, fmt.Errorf("mathutil: invert %dx%d: pivot %d is %g: %w", n, n, i, aug[p*w+i], ErrSingular)
		}
		if p != i {
			for j := 0; j < w; j++ {
				aug[i*w+j], aug[p*w+j] = aug[p*w+j], aug[i*w+j]
			}
		}

		inv := 1 / aug[i*w+i]
		for j := i; j < w; j++ {
			aug[i*w+j] *= inv
		}
		for k := i + 1; k < n; k++ {
			coeff := aug[k*w+i]
			if coeff == 0 {
				continue
			}
			for j := i; j < w; j++ {
				aug[k*w+j] -= aug[i*w+j] * coeff
			}
		}
	}

	for i := n - 1; i > 0; i-- {
		for k := i - 1; k >= 0; k-- {
			coeff := aug[k*w+i]
			if coeff == 0 {
				continue
			}
			for j := i; j < w; j++ {
				aug[k*w+j] -= aug[i*w+j] * coeff
			}
		}
	}

	out := NewMatrix(n, n)
	for r := 0; r < n; r++ {
		copy(out.m[r*n:(r+1)*n], aug[r*w+n:(r+1)*w])
	}
	return out, nil
}

// InverseTranspose returns (aᵀ)⁻¹, the matrix that carries normals under a.
func (a Matrix) InverseTranspose() (Matrix, error) {
	return a.Transpose().Inverse()
}

// ToVec projects a 4×1 homogeneous column back to 3D by dividing by w.
func (a Matrix) ToVec() (Vec3, error) {
	if a.rows != 4 || a.cols != 1 {
		return Vec3{}, fmt.Errorf("mathutil: to vec %dx%d: %w", a.rows, a.cols, ErrNotHomogeneous)
	}
	w := a.m[3]
	if w == 0 {
		return Vec3{}, fmt.Errorf("mathutil: to vec: %w", ErrZeroW)
	}
	return Vec3{a.m[0] / w, a.m[1] / w, a.m[2] / w}, nil
}

// ToDir reads the x, y, z components of a 4×1 column, ignoring w.
func (a Matrix) ToDir() (Vec3, error) {
	if a.rows != 4 || a.cols != 1 {
		return Vec3{}, fmt.Errorf("mathutil: to dir %dx%d: %w", a.rows, a.cols, ErrNotHomogeneous)
	}
	return Vec3{a.m[0], a.m[1], a.m[2]}, nil
}

// Mat4 converts a 4×4 Matrix to the fixed-size value type used in hot loops.
func (a Matrix) Mat4() (Mat4, error) {
	if a.rows != 4 || a.cols != 4 {
		return Mat4{}, fmt.Errorf("mathutil: mat4 from %dx%d: %w", a.rows, a.cols, ErrDimensionMismatch)
	}
	var m Mat4
	copy(m[:], a.m)
	return m, nil
}

// ApproxEqual reports whether a and b have the same shape and every pair of
// entries differs by at most eps.
func (a Matrix) ApproxEqual(b Matrix, eps float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.m {
		if math.Abs(a.m[i]-b.m[i]) > eps {
			return false
		}
	}
	return true
}

func (a Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			if c > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%g", a.m[r*a.cols+c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
