package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// Fetcher loads a previously published observation array over HTTP so a
// dataset can be reused instead of regenerated.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher creates a fetcher with the given request timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetHeader("Accept", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return &Fetcher{client: client}
}

// Fetch downloads and decodes the observation array at url
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Observation, error) {
	var obs []Observation
	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&obs).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dataset request to %s returned status %d", url, resp.StatusCode())
	}
	if obs == nil {
		obs = []Observation{}
	}
	return obs, nil
}
