package domain

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors returned by Dataset.Validate.
var (
	ErrEmptyDataset   = errors.New("dataset has no observations")
	ErrInvalidMonth   = errors.New("month out of range 1-12")
	ErrNonFiniteValue = errors.New("non-finite number")
)

// Observation is the temperature variance for one (year, month) pair.
type Observation struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"` // 1-based
	Variance float64 `json:"variance"`
}

// Dataset is the decoded source document. It is never mutated after decoding.
type Dataset struct {
	BaseTemperature float64       `json:"baseTemperature"`
	MonthlyVariance []Observation `json:"monthlyVariance"`
}

// Temperature returns the absolute temperature of o in °C.
func (d Dataset) Temperature(o Observation) float64 {
	return d.BaseTemperature + o.Variance
}

// Validate reports the first structural problem that would prevent a chart
// from being built.
func (d Dataset) Validate() error {
	if math.IsNaN(d.BaseTemperature) || math.IsInf(d.BaseTemperature, 0) {
		return fmt.Errorf("baseTemperature: %w", ErrNonFiniteValue)
	}
	if len(d.MonthlyVariance) == 0 {
		return ErrEmptyDataset
	}
	for i, o := range d.MonthlyVariance {
		if o.Month < 1 || o.Month > 12 {
			return fmt.Errorf("observation %d (year %d): month %d: %w", i, o.Year, o.Month, ErrInvalidMonth)
		}
		if math.IsNaN(o.Variance) || math.IsInf(o.Variance, 0) {
			return fmt.Errorf("observation %d (year %d, month %d): variance: %w", i, o.Year, o.Month, ErrNonFiniteValue)
		}
	}
	return nil
}

// VarianceExtent returns the minimum and maximum variance. It returns zeros
// for an empty dataset.
func (d Dataset) VarianceExtent() (lo, hi float64) {
	for i, o := range d.MonthlyVariance {
		if i == 0 || o.Variance < lo {
			lo = o.Variance
		}
		if i == 0 || o.Variance > hi {
			hi = o.Variance
		}
	}
	return lo, hi
}

// YearExtent returns the first and last year covered by the dataset.
func (d Dataset) YearExtent() (first, last int) {
	for i, o := range d.MonthlyVariance {
		if i == 0 || o.Year < first {
			first = o.Year
		}
		if i == 0 || o.Year > last {
			last = o.Year
		}
	}
	return first, last
}

// Years returns the distinct years in first-seen order.
func (d Dataset) Years() []int {
	seen := make(map[int]struct{})
	years := make([]int, 0, len(d.MonthlyVariance)/12+1)
	for _, o := range d.MonthlyVariance {
		if _, ok := seen[o.Year]; ok {
			continue
		}
		seen[o.Year] = struct{}{}
		years = append(years, o.Year)
	}
	return years
}
