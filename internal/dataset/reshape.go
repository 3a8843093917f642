package dataset

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// SeriesTable is the dense, date-aligned form of a set of observations.
// Matrix[p][i] is the value of product p on Dates[i].
type SeriesTable struct {
	Dates    []string             `json:"dates"`
	Products []string             `json:"products"`
	Matrix   map[string][]float64 `json:"matrix"`
}

type cellKey struct {
	date, product string
}

// Reshape converts flat observations into a SeriesTable. Dates and products
// are distinct and sorted ascending by string order; a (date, product) pair
// without an observation is 0. Input is never rejected: when a pair occurs
// more than once the last observation in input order wins.
func Reshape(obs []Observation) *SeriesTable {
	index := make(map[cellKey]float64, len(obs))
	for _, o := range obs {
		index[cellKey{o.Date, o.Product}] = o.Value
	}

	dates := lo.Uniq(lo.Map(obs, func(o Observation, _ int) string { return o.Date }))
	products := lo.Uniq(lo.Map(obs, func(o Observation, _ int) string { return o.Product }))
	slices.Sort(dates)
	slices.Sort(products)

	matrix := make(map[string][]float64, len(products))
	for _, p := range products {
		row := make([]float64, len(dates))
		for i, d := range dates {
			row[i] = index[cellKey{d, p}]
		}
		matrix[p] = row
	}

	return &SeriesTable{Dates: dates, Products: products, Matrix: matrix}
}

// Len returns the number of dates.
func (t *SeriesTable) Len() int {
	return len(t.Dates)
}

// Totals returns the sum over all products for each date.
func (t *SeriesTable) Totals() []float64 {
	totals := make([]float64, len(t.Dates))
	for _, p := range t.Products {
		for i, v := range t.Matrix[p] {
			totals[i] += v
		}
	}
	return totals
}

// Max returns the largest per-date total, or 0 for an empty table.
func (t *SeriesTable) Max() float64 {
	totals := t.Totals()
	if len(totals) == 0 {
		return 0
	}
	return slices.Max(totals)
}

// Band is one product's layer in a stacked chart.
type Band struct {
	Product string
	Lower   []float64
	Upper   []float64
}

// Stack layers the products in table order on a zero baseline: each band's
// Lower is the previous band's Upper.
func (t *SeriesTable) Stack() []Band {
	bands := make([]Band, 0, len(t.Products))
	baseline := make([]float64, len(t.Dates))
	for _, p := range t.Products {
		lower := slices.Clone(baseline)
		for i, v := range t.Matrix[p] {
			baseline[i] += v
		}
		bands = append(bands, Band{Product: p, Lower: lower, Upper: slices.Clone(baseline)})
	}
	return bands
}

// Times parses Dates as calendar days.
func (t *SeriesTable) Times() ([]time.Time, error) {
	times := make([]time.Time, len(t.Dates))
	for i, d := range t.Dates {
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q at index %d: %w", d, i, err)
		}
		times[i] = parsed
	}
	return times, nil
}

// Head returns the first n products, the subset shown in chart legends.
func (t *SeriesTable) Head(n int) []string {
	if n > len(t.Products) {
		n = len(t.Products)
	}
	return slices.Clone(t.Products[:n])
}
