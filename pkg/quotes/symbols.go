package quotes

import "strings"

// Tracked asset universe. Display symbols are the short forms used across
// the API; provider symbols carry the -USD / =F suffixes the provider wants.
var providerSymbols = map[string]string{
	"AAPL":  "AAPL",
	"GOOGL": "GOOGL",
	"MSFT":  "MSFT",
	"TSLA":  "TSLA",
	"AMZN":  "AMZN",
	"BTC":   "BTC-USD",
	"ETH":   "ETH-USD",
	"SI":    "SI=F",
	"GC":    "GC=F",
	"CL":    "CL=F",
	"HG":    "HG=F",
	"PL":    "PL=F",
	"PA":    "PA=F",
	"NG":    "NG=F",
	"ZW":    "ZW=F",
	"ZC":    "ZC=F",
	"ZS":    "ZS=F",
}

// TrackedSymbols returns the display symbols of the default asset universe
func TrackedSymbols() []string {
	symbols := make([]string, 0, len(providerSymbols))
	for s := range providerSymbols {
		symbols = append(symbols, s)
	}
	return symbols
}

// ProviderSymbol maps a display symbol to the provider's notation
func ProviderSymbol(symbol string) string {
	if p, ok := providerSymbols[symbol]; ok {
		return p
	}
	return symbol
}

// DisplaySymbol strips provider suffixes (BTC-USD -> BTC, SI=F -> SI)
func DisplaySymbol(symbol string) string {
	symbol = strings.TrimSuffix(symbol, "-USD")
	symbol = strings.TrimSuffix(symbol, "=F")
	return symbol
}
