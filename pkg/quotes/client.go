// Package quotes fetches intraday price series from a Yahoo-chart style
// market data provider.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"atb/backend/internal/model"
)

// Source fetches the latest price series for one asset symbol.
// Implementations may fail per symbol; a failure never affects other symbols.
type Source interface {
	Fetch(ctx context.Context, symbol string) (model.QuoteSeries, error)
}

// FetchError reports a failed provider fetch for a single symbol
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client represents the market data provider API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new provider client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// chartResponse mirrors the provider's chart payload
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns the last trading day of 1-minute quotes for a symbol
func (c *Client) Fetch(ctx context.Context, symbol string) (model.QuoteSeries, error) {
	return c.FetchRange(ctx, symbol, "1d", "1m")
}

// FetchRange returns quotes for an explicit provider range and bar interval
func (c *Client) FetchRange(ctx context.Context, symbol, rng, interval string) (model.QuoteSeries, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s", c.baseURL, symbol, rng, interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "atb-backend/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if chart.Chart.Error != nil {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("provider error %s: %s",
			chart.Chart.Error.Code, chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("empty result")}
	}

	result := chart.Chart.Result[0]
	bars := result.Indicators.Quote[0]

	series := make(model.QuoteSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(bars.Close) {
			break
		}
		// Providers pad halted minutes with zero rows; skip them
		if bars.Close[i] == 0 {
			continue
		}
		q := model.Quote{
			Time:  time.Unix(ts, 0).UTC(),
			Price: bars.Close[i],
		}
		if i < len(bars.Open) {
			q.Open = bars.Open[i]
		}
		if i < len(bars.High) {
			q.High = bars.High[i]
		}
		if i < len(bars.Low) {
			q.Low = bars.Low[i]
		}
		if i < len(bars.Volume) {
			q.Volume = bars.Volume[i]
		}
		series = append(series, q)
	}

	if len(series) == 0 {
		return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("no usable data points")}
	}

	return series, nil
}
