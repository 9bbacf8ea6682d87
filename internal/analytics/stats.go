package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Thresholds of the statistical views.
const (
	minConsistencyDays = 7
	minPredictionDays  = 5
	accelerationWindow = 5
	anomalyFactor      = 3.0
	accelerationFactor = 1.5
)

// Consistency scores how evenly money is spent across the days that have
// spending, from 0 (erratic) to 100 (flat). Fewer than seven spent days
// score 0.
func Consistency(series []model.DailyPoint) int {
	spent := SpentDays(series)
	if len(spent) < minConsistencyDays {
		return 0
	}
	amounts := floats(spent)
	mean := meanOf(amounts)
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, a := range amounts {
		variance += (a - mean) * (a - mean)
	}
	sigma := math.Sqrt(variance / float64(len(amounts)))
	return int(math.Round(clamp(100*(1-sigma/mean), 0, 100)))
}

// Trend returns the percentage change of spending inside a month. For the
// current month it compares the last seven days up to currentDay with the
// seven before; for past months it compares the mean of the first half with
// the second half. A month with a single spent day is compared to the daily
// share of limit.
func Trend(series []model.DailyPoint, current bool, currentDay int, limit decimal.Decimal) float64 {
	total := Summarize(series).Total
	if len(series) <= 1 || total.IsZero() {
		return 0
	}

	spent := SpentDays(series)
	if len(spent) == 1 {
		target := limit.InexactFloat64() / float64(len(series))
		if target == 0 {
			return 0
		}
		return (spent[0].Amount.InexactFloat64() - target) / target * 100
	}

	if current {
		end := min(currentDay, len(series))
		recent := sumRange(series, max(0, currentDay-7), end)
		previous := sumRange(series, max(0, currentDay-14), max(0, min(currentDay-7, len(series))))
		switch {
		case previous == 0 && recent == 0:
			return 0
		case previous == 0:
			return 25
		}
		return clamp((recent-previous)/previous*100, -95, 200)
	}

	half := len(series) / 2
	first := sumRange(series, 0, half) / float64(half)
	second := sumRange(series, half, len(series)) / float64(len(series)-half)
	switch {
	case first == 0 && second == 0:
		return 0
	case first == 0:
		return 30
	}
	return clamp((second-first)/first*100, -90, 150)
}

// Prediction is a least-squares fit of cumulative spending by day.
type Prediction struct {
	Sufficient bool    `json:"sufficient"`
	Samples    int     `json:"samples"`
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	Predicted  float64 `json:"predicted"`
	Confidence float64 `json:"confidence"`
}

// Predict fits y = slope*day + intercept over the cumulative totals of the
// spent days of series and extrapolates to the last day of the month. It
// needs at least five spent days.
func Predict(series []model.DailyPoint) Prediction {
	spent := SpentDays(series)
	p := Prediction{Samples: len(spent)}
	if len(spent) < minPredictionDays {
		return p
	}

	var sumX, sumY, sumXY, sumX2, running float64
	for _, d := range spent {
		running += d.Amount.InexactFloat64()
		x := float64(d.Day)
		sumX += x
		sumY += running
		sumXY += x * running
		sumX2 += x * x
	}
	n := float64(len(spent))
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return p
	}

	p.Sufficient = true
	p.Slope = (n*sumXY - sumX*sumY) / denom
	p.Intercept = (sumY - p.Slope*sumX) / n
	p.Predicted = p.Slope*float64(len(series)) + p.Intercept
	p.Confidence = clamp(n/15, 0.6, 0.95)
	return p
}

// Anomaly is a day whose spending is far above the usual spent day.
type Anomaly struct {
	Day      int             `json:"day"`
	Amount   decimal.Decimal `json:"amount"`
	Severity float64         `json:"severity"`
}

// Anomalies flags days spending more than three times the average of the
// spent days.
func Anomalies(series []model.DailyPoint) []Anomaly {
	spent := SpentDays(series)
	if len(spent) == 0 {
		return nil
	}
	avg := meanOf(floats(spent))

	var out []Anomaly
	for _, d := range spent {
		a := d.Amount.InexactFloat64()
		if a > anomalyFactor*avg {
			out = append(out, Anomaly{Day: d.Day, Amount: d.Amount, Severity: a / avg})
		}
	}
	return out
}

// Acceleration compares the mean of the last five spent days with the first
// five.
type Acceleration struct {
	Accelerating bool    `json:"accelerating"`
	RecentMean   float64 `json:"recentMean"`
	EarlyMean    float64 `json:"earlyMean"`
	Increase     float64 `json:"increase"`
}

// Accelerating reports whether recent spending outpaces early spending by
// more than half. It needs at least five spent days.
func Accelerating(series []model.DailyPoint) Acceleration {
	spent := SpentDays(series)
	if len(spent) < accelerationWindow {
		return Acceleration{}
	}
	early := meanOf(floats(spent[:accelerationWindow]))
	recent := meanOf(floats(spent[len(spent)-accelerationWindow:]))
	a := Acceleration{RecentMean: recent, EarlyMean: early}
	a.Accelerating = recent > accelerationFactor*early
	if early > 0 {
		a.Increase = (recent/early - 1) * 100
	}
	return a
}

func floats(points []model.DailyPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Amount.InexactFloat64()
	}
	return out
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sumRange adds the amounts of series[from:to].
func sumRange(series []model.DailyPoint, from, to int) float64 {
	var sum float64
	for _, p := range series[from:to] {
		sum += p.Amount.InexactFloat64()
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
