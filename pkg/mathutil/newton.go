package mathutil

import "math"

// NewtonResult reports the outcome of a bounded Newton-Raphson run.
type NewtonResult struct {
	Root       float64
	Iterations int
	Converged  bool
}

// NewtonSolve runs at most maxIter Newton-Raphson steps on f starting at x0,
// stopping early once two successive guesses differ by less than tol.
//
// The solver has no bracketing or bisection fallback. When df vanishes or f
// has no root near x0 the returned Root is whatever the last step produced
// (possibly NaN or ±Inf) and Converged is false. Callers must not trust the
// root unconditionally for unusual function shapes.
func NewtonSolve(f, df func(float64) float64, x0 float64, maxIter int, tol float64) NewtonResult {
	guess := x0
	for i := 0; i < maxIter; i++ {
		next := guess - f(guess)/df(guess)
		if math.Abs(next-guess) < tol {
			return NewtonResult{Root: next, Iterations: i + 1, Converged: true}
		}
		guess = next
	}
	return NewtonResult{Root: guess, Iterations: maxIter, Converged: false}
}
