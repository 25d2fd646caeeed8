package market

import (
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// Bar is one normalized OHLCV observation.
//
// Timestamp is kept in UTC. Prices satisfy low <= open, close <= high and
// volume is never negative once Validate has passed.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timeframe Timeframe
	Source    null.String
}

// NewBar builds a Bar and checks its invariants.
func NewBar(symbol string, ts time.Time, open, high, low, close, volume float64, tf Timeframe, source null.String) (Bar, error) {
	b := Bar{
		Symbol:    symbol,
		Timestamp: ts.UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		Timeframe: tf,
		Source:    source,
	}
	if err := b.Validate(); err != nil {
		return Bar{}, err
	}
	return b, nil
}

// Validate returns an error wrapping ErrInvariantViolation when the bar is
// malformed. NaN prices fail the ordering checks.
func (b Bar) Validate() error {
	if b.Symbol == "" {
		return invariantf("symbol is empty")
	}
	if b.Symbol != strings.ToUpper(b.Symbol) {
		return invariantf("symbol %q is not uppercase", b.Symbol)
	}
	if b.Timestamp.IsZero() {
		return invariantf("%s: timestamp is not set", b.Symbol)
	}
	if !b.Timeframe.Valid() {
		return invariantf("%s: unknown timeframe %q", b.Symbol, b.Timeframe)
	}
	if !(b.Low <= b.Open && b.Open <= b.High && b.Low <= b.Close && b.Close <= b.High) {
		return invariantf("%s @ %s: expected low <= open, close <= high (o=%g h=%g l=%g c=%g)",
			b.Symbol, b.Timestamp.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close)
	}
	if !(b.Volume >= 0) {
		return invariantf("%s @ %s: volume must be >= 0, got %g",
			b.Symbol, b.Timestamp.Format(time.RFC3339), b.Volume)
	}
	return nil
}
