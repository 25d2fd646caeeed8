package market

// Canonical column names of a normalized bar collection.
const (
	ColTS         = "ts"
	ColSymbol     = "symbol"
	ColTimeframe  = "timeframe"
	ColOpen       = "open"
	ColHigh       = "high"
	ColLow        = "low"
	ColClose      = "close"
	ColVolume     = "volume"
	ColVWAP       = "vwap"
	ColTradeCount = "trade_count"
	ColSource     = "source"
)

// PriceColumns are the numeric columns every raw table must provide.
var PriceColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// DefaultOptional is the allow-list of optional columns kept when the caller
// does not pick one.
var DefaultOptional = []string{ColVWAP, ColTradeCount}

// KnownOptional reports whether name is an optional column of the canonical
// schema.
func KnownOptional(name string) bool {
	return name == ColVWAP || name == ColTradeCount
}

// RequiredColumns returns the fixed leading columns. timeframeLast moves
// timeframe from after symbol to the end of the block.
func RequiredColumns(timeframeLast bool) []string {
	if timeframeLast {
		return []string{ColTS, ColSymbol, ColOpen, ColHigh, ColLow, ColClose, ColVolume, ColTimeframe}
	}
	return []string{ColTS, ColSymbol, ColTimeframe, ColOpen, ColHigh, ColLow, ColClose, ColVolume}
}
