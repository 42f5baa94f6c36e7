package crypto

import (
	"sort"
	"strings"
)

// Supported cryptocurrency tickers. The set is fixed at build time;
// transactions referencing anything else are rejected.
var supportedCryptocurrencies = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"BNB":   "BNB",
	"ADA":   "Cardano",
	"XRP":   "XRP",
	"SOL":   "Solana",
	"DOT":   "Polkadot",
	"DOGE":  "Dogecoin",
	"AVAX":  "Avalanche",
	"MATIC": "Polygon",
	"LTC":   "Litecoin",
	"BCH":   "Bitcoin Cash",
	"LINK":  "Chainlink",
	"UNI":   "Uniswap",
	"ATOM":  "Cosmos",
	"XLM":   "Stellar",
	"VET":   "VeChain",
	"FIL":   "Filecoin",
	"TRX":   "TRON",
	"ETC":   "Ethereum Classic",
}

// Normalize returns the canonical form of a ticker symbol: trimmed and
// uppercased. It does not check registry membership.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Supported checks if the ticker symbol is in the registry, case-insensitively.
func Supported(symbol string) bool {
	_, ok := supportedCryptocurrencies[Normalize(symbol)]
	return ok
}

// Name returns the human-readable name for a ticker symbol.
func Name(symbol string) string {
	if name, ok := supportedCryptocurrencies[Normalize(symbol)]; ok {
		return name
	}
	return "Unknown"
}

// Symbols returns all supported ticker symbols in sorted order.
func Symbols() []string {
	symbols := make([]string, 0, len(supportedCryptocurrencies))
	for symbol := range supportedCryptocurrencies {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
