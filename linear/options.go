package linear

// DefaultTol is the default rank tolerance used by Fit: singular values at or
// below DefaultTol times the largest one are treated as zero.
const DefaultTol = 1e-12

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.FitIntercept = fit
	}
}

// WithTol sets the relative rank tolerance. Directions of the centred design
// whose singular value falls below tol times the largest are dropped from the
// minimum-norm solution.
func WithTol(tol float64) Option {
	return func(lr *LinearRegression) {
		if tol > 0 {
			lr.Tol = tol
		}
	}
}
