package services

import (
	"errors"
	"math"
)

var errNotPositiveDefinite = errors.New("matrix is not positive definite")

// linearFit is the result of fitting y = intercept + slope*x.
type linearFit struct {
	Intercept float64
	Slope     float64
	RSquared  float64
	SSRes     float64
	SSTot     float64
	N         int
}

// sigma returns the residual standard deviation sqrt(SSRes / max(n-2, 1)).
func (f linearFit) sigma() float64 {
	dof := f.N - 2
	if dof < 1 {
		dof = 1
	}
	return math.Sqrt(f.SSRes / float64(dof))
}

// predict evaluates the fitted line at x.
func (f linearFit) predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// fitLinear fits y = a + b*x by ordinary least squares via the normal equations.
func fitLinear(x, y []float64) (linearFit, error) {
	return fitRidge(x, y, 0)
}

// fitRidge minimizes sum((y - a - b*x)^2) + lambda*b^2. The intercept is not penalized.
// With lambda = 0 this is ordinary least squares.
func fitRidge(x, y []float64, lambda float64) (linearFit, error) {
	n := len(x)
	if n != len(y) || n < 2 {
		return linearFit{}, errors.New("series lengths differ or fewer than two points")
	}

	// centered x; regressors may be Unix timestamps
	meanX := calculateMean(x)
	var sumX, sumY, sumXY, sumX2 float64
	for i := 0; i < n; i++ {
		xc := x[i] - meanX
		sumX += xc
		sumY += y[i]
		sumXY += xc * y[i]
		sumX2 += xc * xc
	}

	A := [][]float64{
		{float64(n), sumX},
		{sumX, sumX2 + lambda},
	}
	beta, err := solveSymmetric(A, []float64{sumY, sumXY})
	if err != nil {
		return linearFit{}, err
	}

	fit := linearFit{Intercept: beta[0] - beta[1]*meanX, Slope: beta[1], N: n}
	meanY := sumY / float64(n)
	for i := 0; i < n; i++ {
		res := y[i] - fit.predict(x[i])
		fit.SSRes += res * res
		fit.SSTot += (y[i] - meanY) * (y[i] - meanY)
	}
	if fit.SSTot > 0 {
		fit.RSquared = 1 - fit.SSRes/fit.SSTot
	}
	return fit, nil
}

// ridgeSlopeVariance returns the (slope, slope) entry of (X'X + lambda*D)^-1, where D
// penalizes only the slope. Multiply by the residual variance for var(b).
func ridgeSlopeVariance(x []float64, lambda float64) (float64, error) {
	meanX := calculateMean(x)
	var sumX, sumX2 float64
	for _, v := range x {
		sumX += v - meanX
		sumX2 += (v - meanX) * (v - meanX)
	}
	A := [][]float64{
		{float64(len(x)), sumX},
		{sumX, sumX2 + lambda},
	}
	col, err := solveSymmetric(A, []float64{0, 1})
	if err != nil {
		return 0, err
	}
	return col[1], nil
}

// solveSymmetric solves A*x=b for symmetric positive definite A by Cholesky
func solveSymmetric(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	if n == 0 || len(b) != n {
		return nil, errors.New("dimension mismatch")
	}
	for _, row := range A {
		if len(row) != n {
			return nil, errors.New("matrix is not square")
		}
	}

	L := make([][]float64, n)
	for i := 0; i < n; i++ {
		L[i] = make([]float64, n)
		copy(L[i], A[i])
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum float64
			for k := 0; k < j; k++ {
				sum += L[i][k] * L[j][k]
			}
			if i == j {
				val := L[i][i] - sum
				if val <= 0 {
					return nil, errNotPositiveDefinite
				}
				L[i][j] = math.Sqrt(val)
			} else {
				L[i][j] = (L[i][j] - sum) / L[j][j]
			}
		}
		for j := i + 1; j < n; j++ {
			L[i][j] = 0
		}
	}

	// Forward substitution
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < i; j++ {
			sum += L[i][j] * y[j]
		}
		y[i] = (b[i] - sum) / L[i][i]
	}
	// Back substitution
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		var sum float64
		for j := i + 1; j < n; j++ {
			sum += L[j][i] * x[j]
		}
		x[i] = (y[i] - sum) / L[i][i]
	}
	return x, nil
}

// calculateMean returns the arithmetic mean, or 0 for an empty slice.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// linspace returns n evenly spaced values over [start, stop], endpoints included.
func linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
