package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// GeneratorConfig controls the synthetic sales dataset.
type GeneratorConfig struct {
	// Start and End bound the inclusive range of calendar days.
	Start, End time.Time
	// Products is the number of products named product1..productN.
	Products int
	// Seed makes the pseudo-random base sales reproducible.
	Seed int64
}

// DefaultGeneratorConfig covers every day of 2020 (366 days) for 100 products.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
		Products: 100,
		Seed:     1,
	}
}

// Days returns the number of calendar days in the configured range.
func (c GeneratorConfig) Days() int {
	start, end := day(c.Start), day(c.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Generate builds one observation per (day, product), days ascending and
// products in numeric order within a day. Sales are a random base in
// [100, 1100) scaled by a yearly sine seasonality and a per-product factor
// growing linearly from 0.5 to 2.0, rounded to whole units.
func Generate(cfg GeneratorConfig) []Observation {
	days := cfg.Days()
	if days == 0 || cfg.Products <= 0 {
		return []Observation{}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	start := day(cfg.Start)
	out := make([]Observation, 0, days*cfg.Products)

	for d := 0; d < days; d++ {
		current := start.AddDate(0, 0, d)
		date := current.Format(DateLayout)
		elapsed := current.Sub(start).Hours() / 24
		seasonal := 1 + 0.3*math.Sin(elapsed/365*2*math.Pi)

		for i := 1; i <= cfg.Products; i++ {
			base := rng.Float64()*1000 + 100
			productFactor := 0.5 + float64(i)/float64(cfg.Products)*1.5
			out = append(out, Observation{
				Date:    date,
				Product: ProductName(i),
				Value:   math.Round(base * seasonal * productFactor),
			})
		}
	}
	return out
}

// ProductName returns the identifier of the i-th generated product.
func ProductName(i int) string {
	return fmt.Sprintf("product%d", i)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
