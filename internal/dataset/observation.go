// Package dataset generates, loads and reshapes the flat sales observations
// that every chart renderer consumes.
package dataset

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

// DateLayout is the calendar-day layout of Observation.Date.
const DateLayout = "2006-01-02"

// Observation is one (date, product, value) sales record.
type Observation struct {
	Date    string  `json:"date"`
	Product string  `json:"product"`
	Value   float64 `json:"sales"`
}

// Summary describes a collection of observations for logging.
type Summary struct {
	Count     int           `json:"count"`
	Products  int           `json:"products"`
	FirstDate string        `json:"first_date"`
	LastDate  string        `json:"last_date"`
	Sample    []Observation `json:"sample"`
}

const summarySampleSize = 5

// Summarize reports the size, input-order date range and a leading sample of obs.
func Summarize(obs []Observation) Summary {
	s := Summary{Count: len(obs), Sample: []Observation{}}
	if len(obs) == 0 {
		return s
	}

	s.Products = len(lo.Uniq(lo.Map(obs, func(o Observation, _ int) string { return o.Product })))
	s.FirstDate = obs[0].Date
	s.LastDate = obs[len(obs)-1].Date
	s.Sample = append(s.Sample, obs[:min(summarySampleSize, len(obs))]...)
	return s
}

// Fields returns the summary as structured log fields.
func (s Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"count":      s.Count,
		"products":   s.Products,
		"first_date": s.FirstDate,
		"last_date":  s.LastDate,
	}
}

// LoadJSON decodes an array of observations.
func LoadJSON(r io.Reader) ([]Observation, error) {
	var obs []Observation
	if err := json.NewDecoder(r).Decode(&obs); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = []Observation{}
	}
	return obs, nil
}

// WriteJSON encodes obs as an array of observations.
func WriteJSON(w io.Writer, obs []Observation) error {
	if obs == nil {
		obs = []Observation{}
	}
	return json.NewEncoder(w).Encode(obs)
}
