package quotes

// Timeframe maps a chart timeframe to the provider range and bar interval
type Timeframe struct {
	Range    string
	Interval string
}

var timeframes = map[string]Timeframe{
	"1m":  {Range: "1d", Interval: "1m"},
	"5m":  {Range: "5d", Interval: "5m"},
	"15m": {Range: "5d", Interval: "15m"},
	"1h":  {Range: "7d", Interval: "60m"},
	"4h":  {Range: "1mo", Interval: "60m"},
	"1d":  {Range: "1mo", Interval: "1d"},
	"1w":  {Range: "3mo", Interval: "1d"},
	"1M":  {Range: "6mo", Interval: "1d"},
	"3M":  {Range: "1y", Interval: "1d"},
	"6M":  {Range: "2y", Interval: "1d"},
	"1y":  {Range: "5y", Interval: "1d"},
}

// LookupTimeframe resolves a chart timeframe like "5m" or "1M".
// The second return is false for an unknown timeframe.
func LookupTimeframe(tf string) (Timeframe, bool) {
	t, ok := timeframes[tf]
	return t, ok
}
