// Package services - Forecaster (C2)
package services

import (
	"fmt"
	"math"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
)

const (
	// forecastHorizonDays is the length of the forecast window the ADS is
	// averaged over.
	forecastHorizonDays = 30

	weeklyPeriod       = 7.0
	weeklyFourierOrder = 3
	// defaultSeasonalityPriorScale is Prophet's built-in default prior
	// scale for automatic seasonalities (weekly here); it is translated
	// into a ridge penalty below.
	defaultSeasonalityPriorScale = 10.0

	paydayPeriod       = 30.5
	paydayFourierOrder = 10
	paydayPriorScale   = 15.0

	trendRegularization = 0.0 // trend/intercept columns are never penalized
)

// Forecaster fits a per-product additive seasonal model and emits ADS over
// a forecastHorizonDays window, matching a Prophet configuration of
// weekly_seasonality=True, daily_seasonality=False, and a custom
// add_seasonality(name="payday_monthly", period=30.5, fourier_order=10,
// prior_scale=15.0). Prophet's Bayesian structural model has no Go
// binding; this reimplements the same additive design (linear
// trend + weekly Fourier terms + payday Fourier terms) as ridge-regularized
// ordinary least squares, with each seasonality's prior_scale translated
// into its ridge penalty (smaller prior_scale => tighter/more regularized
// seasonality, matching Prophet's prior-scale semantics).
type Forecaster struct{}

// NewForecaster creates a new Forecaster.
func NewForecaster() *Forecaster {
	return &Forecaster{}
}

// Fit trains the model on series and returns the ADS: the mean of the
// model's clipped-at-zero predictions over the next forecastHorizonDays,
// rounded to 2 decimal places. A fit/predict failure is reported as an
// error of Kind ForecastSkipped; callers must not update an existing ADS
// snapshot when this happens (insert 0 only if none exists).
func (f *Forecaster) Fit(series models.DailySeries) (decimal.Decimal, error) {
	n := len(series.Points)
	if n < minObservations {
		return decimal.Zero, &models.DomainError{
			Kind:    models.KindForecastSkipped,
			Message: fmt.Sprintf("product %d has only %d observations, need >= %d", series.ProductID, n, minObservations),
		}
	}

	sum := series.Sum()
	if sum <= 0 {
		return decimal.Zero, &models.DomainError{
			Kind:    models.KindForecastSkipped,
			Message: fmt.Sprintf("product %d series sums to zero", series.ProductID),
		}
	}

	x, y := buildDesignMatrix(series, 0)
	beta, err := fitRidge(x, y)
	if err != nil {
		return decimal.Zero, &models.DomainError{
			Kind:    models.KindForecastSkipped,
			Message: fmt.Sprintf("product %d model fit failed: %v", series.ProductID, err),
		}
	}

	future, _ := buildDesignMatrix(series, forecastHorizonDays)
	rows, _ := future.Dims()

	total := 0.0
	for i := 0; i < rows; i++ {
		yhat := mat.Row(nil, i, future)
		pred := dot(yhat, beta)
		if pred < 0 {
			pred = 0
		}
		total += pred
	}

	ads := total / float64(forecastHorizonDays)
	if ads < 0 {
		ads = 0
	}

	return decimal.NewFromFloat(ads).Round(2), nil
}

// buildDesignMatrix constructs the additive model's feature matrix for day
// indices n..n+horizon-1 (horizon==0 reproduces the training rows 0..n-1).
// Columns: [intercept, trend, weekly sin/cos x weeklyFourierOrder, payday
// sin/cos x paydayFourierOrder]. When horizon==0 it also returns the
// training targets y.
func buildDesignMatrix(series models.DailySeries, horizon int) (*mat.Dense, []float64) {
	n := len(series.Points)
	rows := n
	if horizon > 0 {
		rows = horizon
	}
	cols := 2 + 2*weeklyFourierOrder + 2*paydayFourierOrder

	data := make([]float64, rows*cols)
	var y []float64
	if horizon == 0 {
		y = make([]float64, n)
	}

	for i := 0; i < rows; i++ {
		t := float64(i)
		if horizon > 0 {
			t = float64(n + i)
		}

		base := i * cols
		data[base+0] = 1.0
		data[base+1] = t

		col := 2
		for k := 1; k <= weeklyFourierOrder; k++ {
			arg := 2 * math.Pi * float64(k) * t / weeklyPeriod
			data[base+col] = math.Sin(arg)
			data[base+col+1] = math.Cos(arg)
			col += 2
		}
		for k := 1; k <= paydayFourierOrder; k++ {
			arg := 2 * math.Pi * float64(k) * t / paydayPeriod
			data[base+col] = math.Sin(arg)
			data[base+col+1] = math.Cos(arg)
			col += 2
		}

		if horizon == 0 {
			y[i] = float64(series.Points[i].Quantity)
		}
	}

	return mat.NewDense(rows, cols, data), y
}

// fitRidge solves beta = (X^T X + Lambda)^-1 X^T y, where Lambda is a
// diagonal penalty matrix: 0 for the intercept/trend columns, 1/10^2 for
// weekly columns (Prophet's default seasonality prior scale) and
// 1/15^2 for payday columns (paydayPriorScale).
func fitRidge(x *mat.Dense, y []float64) ([]float64, error) {
	_, cols := x.Dims()
	yVec := mat.NewVecDense(len(y), y)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	for j := 0; j < cols; j++ {
		lambda := ridgePenalty(j)
		xtx.Set(j, j, xtx.At(j, j)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), yVec)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("ridge solve failed: %w", err)
	}

	out := make([]float64, cols)
	for i := 0; i < cols; i++ {
		out[i] = beta.AtVec(i)
	}
	return out, nil
}

func ridgePenalty(col int) float64 {
	switch {
	case col < 2:
		return trendRegularization
	case col < 2+2*weeklyFourierOrder:
		return 1.0 / (defaultSeasonalityPriorScale * defaultSeasonalityPriorScale)
	default:
		return 1.0 / (paydayPriorScale * paydayPriorScale)
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
