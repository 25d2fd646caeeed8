package alpaca

import (
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/RBrouq/trading-framework/internal/market"
)

var timeFrames = map[market.Timeframe]marketdata.TimeFrame{
	market.Min1:  marketdata.OneMin,
	market.Min2:  marketdata.NewTimeFrame(2, marketdata.Min),
	market.Min5:  marketdata.NewTimeFrame(5, marketdata.Min),
	market.Min10: marketdata.NewTimeFrame(10, marketdata.Min),
	market.Min15: marketdata.NewTimeFrame(15, marketdata.Min),
	market.Min30: marketdata.NewTimeFrame(30, marketdata.Min),
	market.H1:    marketdata.OneHour,
	market.H2:    marketdata.NewTimeFrame(2, marketdata.Hour),
	market.H4:    marketdata.NewTimeFrame(4, marketdata.Hour),
	market.H6:    marketdata.NewTimeFrame(6, marketdata.Hour),
	market.H8:    marketdata.NewTimeFrame(8, marketdata.Hour),
	market.H12:   marketdata.NewTimeFrame(12, marketdata.Hour),
	market.D1:    marketdata.OneDay,
	market.W1:    marketdata.NewTimeFrame(1, marketdata.Week),
	market.Mo1:   marketdata.NewTimeFrame(1, marketdata.Month),
	market.Q1:    marketdata.NewTimeFrame(3, marketdata.Month),
	market.Y1:    marketdata.NewTimeFrame(12, marketdata.Month),
}

// ToAlpacaTimeFrame translates a canonical timeframe into Alpaca's bar
// granularity. Tick data has no bar counterpart.
func ToAlpacaTimeFrame(tf market.Timeframe) (marketdata.TimeFrame, error) {
	atf, ok := timeFrames[tf]
	if !ok {
		return marketdata.TimeFrame{}, fmt.Errorf("%w: %q", ErrUnsupportedTimeframe, tf)
	}
	return atf, nil
}
