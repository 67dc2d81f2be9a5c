package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartPayload = `{
  "chart": {
    "result": [{
      "timestamp": [1700000000, 1700000060, 1700000120],
      "indicators": {
        "quote": [{
          "open":   [150.0, 150.5, 0],
          "high":   [151.0, 151.5, 0],
          "low":    [149.5, 150.0, 0],
          "close":  [150.5, 151.0, 0],
          "volume": [120000, 98000, 0]
        }]
      }
    }],
    "error": null
  }
}`

func TestClientFetchParsesSeries(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	series, err := client.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "range=1d&interval=1m", gotQuery)

	// The zero-close row is dropped
	require.Len(t, series, 2)
	assert.Equal(t, 150.5, series[0].Price)
	assert.Equal(t, 151.0, series[1].Price)
	assert.Equal(t, int64(98000), series[1].Volume)
	assert.True(t, series[1].Time.After(series[0].Time))
}

func TestClientFetchRange(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchRange(context.Background(), "BTC-USD", "5d", "15m")
	require.NoError(t, err)
	assert.Equal(t, "range=5d&interval=15m", gotQuery)
}

func TestClientFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Fetch(context.Background(), "AAPL")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "AAPL", fetchErr.Symbol)
}

func TestClientFetchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Fetch(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestClientFetchEmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1700000000],"indicators":{"quote":[{"close":[0]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Fetch(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestProviderSymbolMapping(t *testing.T) {
	assert.Equal(t, "BTC-USD", ProviderSymbol("BTC"))
	assert.Equal(t, "SI=F", ProviderSymbol("SI"))
	assert.Equal(t, "AAPL", ProviderSymbol("AAPL"))
	assert.Equal(t, "XYZ", ProviderSymbol("XYZ"))

	assert.Equal(t, "BTC", DisplaySymbol("BTC-USD"))
	assert.Equal(t, "SI", DisplaySymbol("SI=F"))
	assert.Equal(t, "AAPL", DisplaySymbol("AAPL"))
}

func TestTrackedSymbols(t *testing.T) {
	symbols := TrackedSymbols()
	assert.Len(t, symbols, len(providerSymbols))
	assert.Contains(t, symbols, "AAPL")
	assert.Contains(t, symbols, "ZS")
}

func TestLookupTimeframe(t *testing.T) {
	tf, ok := LookupTimeframe("5m")
	require.True(t, ok)
	assert.Equal(t, "5d", tf.Range)
	assert.Equal(t, "5m", tf.Interval)

	_, ok = LookupTimeframe("2h")
	assert.False(t, ok)
}
