package poly

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInsufficientSamples is returned when fewer distinct samples than
	// degree+1 are supplied.
	ErrInsufficientSamples = errors.New("poly: insufficient samples for fit")
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("poly: x and y lengths differ")
	errInvalidDegree  = errors.New("poly: degree must be >= 0")
)

// Polynomial is sum(Coeffs[j] * u^j) with u = (x - Offset) / Scale.
type Polynomial struct {
	Coeffs []float64
	Offset float64
	Scale  float64
}

// Zero returns the zero polynomial.
func Zero() *Polynomial {
	return &Polynomial{Coeffs: []float64{0}, Scale: 1}
}

// Line returns the degree-1 polynomial through (x0, y0) and (x1, y1).
func Line(x0, y0, x1, y1 float64) (*Polynomial, error) {
	if x0 == x1 {
		return nil, fmt.Errorf("%w: line through identical x %g", ErrInsufficientSamples, x0)
	}
	return &Polynomial{
		Coeffs: []float64{y0, (y1 - y0) / (x1 - x0)},
		Offset: x0,
		Scale:  1,
	}, nil
}

// Degree returns the polynomial degree.
func (p *Polynomial) Degree() int { return len(p.Coeffs) - 1 }

// Eval evaluates the polynomial at x using Horner's scheme.
func (p *Polynomial) Eval(x float64) float64 {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	u := (x - p.Offset) / scale

	var acc float64
	for j := len(p.Coeffs) - 1; j >= 0; j-- {
		acc = acc*u + p.Coeffs[j]
	}
	return acc
}

// EvalSlice evaluates the polynomial at every x.
func (p *Polynomial) EvalSlice(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = p.Eval(v)
	}
	return out
}

// Slope returns the derivative of the polynomial at x.
func (p *Polynomial) Slope(x float64) float64 {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	u := (x - p.Offset) / scale

	var acc float64
	for j := len(p.Coeffs) - 1; j >= 1; j-- {
		acc = acc*u + float64(j)*p.Coeffs[j]
	}
	return acc / scale
}

// Expand returns the coefficients in ascending powers of the raw variable x.
func (p *Polynomial) Expand() []float64 {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	a := 1 / scale
	b := -p.Offset / scale

	n := len(p.Coeffs)
	out := []float64{p.Coeffs[n-1]}
	for j := n - 2; j >= 0; j-- {
		// out = out*(a*x + b) + c_j
		next := make([]float64, len(out)+1)
		for k, c := range out {
			next[k] += c * b
			next[k+1] += c * a
		}
		next[0] += p.Coeffs[j]
		out = next
	}
	return out
}

// String formats the expanded polynomial, highest power first.
func (p *Polynomial) String() string {
	c := p.Expand()
	parts := make([]string, 0, len(c))
	for j := len(c) - 1; j >= 0; j-- {
		term := strconv.FormatFloat(c[j], 'g', 6, 64)
		switch j {
		case 0:
		case 1:
			term += "x"
		default:
			term += "x^" + strconv.Itoa(j)
		}
		parts = append(parts, term)
	}
	return strings.Join(parts, " + ")
}

// Fit computes the least-squares polynomial of the given degree through
// (x, y). At least degree+1 distinct x values are required.
func Fit(x, y []float64, degree int) (*Polynomial, error) {
	if degree < 0 {
		return nil, errInvalidDegree
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if d := distinct(x); d < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs %d distinct points, got %d",
			ErrInsufficientSamples, degree, degree+1, d)
	}

	lo, hi := x[0], x[0]
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	offset := (lo + hi) / 2
	scale := (hi - lo) / 2
	if scale == 0 {
		scale = 1
	}

	n := len(x)
	cols := degree + 1
	a := mat.NewDense(n, cols, nil)
	for i, v := range x {
		u := (v - offset) / scale
		pow := 1.0
		for j := range cols {
			a.Set(i, j, pow)
			pow *= u
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("poly: least squares: %w", err)
		}
	}

	coeffs := make([]float64, cols)
	for j := range cols {
		coeffs[j] = c.AtVec(j)
	}
	return &Polynomial{Coeffs: coeffs, Offset: offset, Scale: scale}, nil
}

func distinct(x []float64) int {
	if len(x) == 0 {
		return 0
	}
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1] {
			n++
		}
	}
	return n
}

// Gradient returns the sample-spacing gradient of y: central differences in
// the interior and one-sided differences at both ends. Inputs shorter than
// two samples yield zeros.
func Gradient(y []float64) []float64 {
	n := len(y)
	g := make([]float64, n)
	if n < 2 {
		return g
	}
	g[0] = y[1] - y[0]
	g[n-1] = y[n-1] - y[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (y[i+1] - y[i-1]) / 2
	}
	return g
}
