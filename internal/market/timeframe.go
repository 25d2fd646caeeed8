package market

import "strings"

// Timeframe is a standardized bar granularity. The zero value is not a valid
// timeframe; use ParseTimeframe or one of the constants below.
type Timeframe string

const (
	Tick  Timeframe = "tick"
	Min1  Timeframe = "1Min"
	Min2  Timeframe = "2Min"
	Min5  Timeframe = "5Min"
	Min10 Timeframe = "10Min"
	Min15 Timeframe = "15Min"
	Min30 Timeframe = "30Min"
	H1    Timeframe = "1H"
	H2    Timeframe = "2H"
	H4    Timeframe = "4H"
	H6    Timeframe = "6H"
	H8    Timeframe = "8H"
	H12   Timeframe = "12H"
	D1    Timeframe = "1D"
	W1    Timeframe = "1W"
	Mo1   Timeframe = "1Mo"
	Q1    Timeframe = "1Q"
	Y1    Timeframe = "1Y"
)

var timeframes = []Timeframe{
	Tick,
	Min1, Min2, Min5, Min10, Min15, Min30,
	H1, H2, H4, H6, H8, H12,
	D1, W1, Mo1, Q1, Y1,
}

// aliases maps a lowercased, trimmed key to its timeframe. Canonical values
// are matched before this table is consulted.
var aliases = map[string]Timeframe{
	"1m":        Min1,
	"1min":      Min1,
	"1minute":   Min1,
	"2m":        Min2,
	"2min":      Min2,
	"5m":        Min5,
	"5min":      Min5,
	"10m":       Min10,
	"10min":     Min10,
	"15m":       Min15,
	"15min":     Min15,
	"30m":       Min30,
	"30min":     Min30,
	"60m":       H1,
	"60min":     H1,
	"1h":        H1,
	"1hr":       H1,
	"1hour":     H1,
	"2h":        H2,
	"4h":        H4,
	"6h":        H6,
	"8h":        H8,
	"12h":       H12,
	"1d":        D1,
	"1day":      D1,
	"daily":     D1,
	"1w":        W1,
	"1wk":       W1,
	"1week":     W1,
	"weekly":    W1,
	"1mo":       Mo1,
	"1mth":      Mo1,
	"1month":    Mo1,
	"monthly":   Mo1,
	"1q":        Q1,
	"3mo":       Q1,
	"quarterly": Q1,
	"1y":        Y1,
	"1yr":       Y1,
	"12mo":      Y1,
	"yearly":    Y1,
}

// Timeframes returns every supported timeframe, finest first.
func Timeframes() []Timeframe {
	out := make([]Timeframe, len(timeframes))
	copy(out, timeframes)
	return out
}

// ParseTimeframe resolves a canonical value or a known alias, ignoring case
// and surrounding whitespace.
//
//	ParseTimeframe("1min") // Min1
//	ParseTimeframe(" 1H ") // H1
//	ParseTimeframe("1mth") // Mo1
func ParseTimeframe(s string) (Timeframe, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, tf := range timeframes {
		if key == strings.ToLower(string(tf)) {
			return tf, nil
		}
	}
	if tf, ok := aliases[key]; ok {
		return tf, nil
	}
	return "", &InvalidTimeframeError{Input: s}
}

// String returns the canonical form used for storage and wire exchange.
func (tf Timeframe) String() string {
	return string(tf)
}

// Valid reports whether tf is one of the canonical timeframes.
func (tf Timeframe) Valid() bool {
	for _, v := range timeframes {
		if tf == v {
			return true
		}
	}
	return false
}
