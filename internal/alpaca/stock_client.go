// Package alpaca fetches historical stock bars from Alpaca and hands them
// back in the canonical bar schema.
package alpaca

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/RBrouq/trading-framework/internal/frame"
	"github.com/RBrouq/trading-framework/internal/market"
	"github.com/RBrouq/trading-framework/internal/normalize"
)

// Source is the provider label stamped on every bar fetched here.
const Source = "alpaca"

const (
	defaultLookback = 5 * 24 * time.Hour
	defaultFeed     = "iex"
)

var (
	ErrMissingCredentials   = errors.New("alpaca: ALPACA_API_KEY / ALPACA_SECRET_KEY not set")
	ErrUnsupportedTimeframe = errors.New("alpaca: unsupported timeframe")
)

// BarsClient is the part of *marketdata.Client used for history requests.
type BarsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// StockClient
type StockClient struct {
	key    string
	secret string

	client BarsClient
	now    func() time.Time
	log    *slog.Logger
}

type Option func(*StockClient)

// WithBarsClient replaces the Alpaca REST client.
func WithBarsClient(c BarsClient) Option {
	return func(sc *StockClient) { sc.client = c }
}

func WithClock(now func() time.Time) Option {
	return func(sc *StockClient) { sc.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(sc *StockClient) { sc.log = l }
}

func NewStockClient(key, secret string, opts ...Option) *StockClient {
	sc := &StockClient{
		key:    key,
		secret: secret,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// HistoryRequest describes one bar request. Zero End means now, zero Start
// means five days before End, empty Feed means IEX and empty Timeframe 1Min.
type HistoryRequest struct {
	Symbol    string
	Timeframe market.Timeframe
	Start     time.Time
	End       time.Time
	Feed      string
}

// GetHistory fetches bars for one symbol and normalizes them. Errors from
// Alpaca are returned as is.
func (sc *StockClient) GetHistory(req HistoryRequest) (*market.Frame, error) {
	if sc.key == "" || sc.secret == "" {
		return nil, ErrMissingCredentials
	}

	end := req.End
	if end.IsZero() {
		end = sc.now().UTC()
	}
	start := req.Start
	if start.IsZero() {
		start = end.Add(-defaultLookback)
	}

	tf := req.Timeframe
	if tf == "" {
		tf = market.Min1
	}
	tf, err := market.ParseTimeframe(string(tf))
	if err != nil {
		return nil, err
	}
	timeframe, err := ToAlpacaTimeFrame(tf)
	if err != nil {
		return nil, err
	}

	feed := strings.ToLower(strings.TrimSpace(req.Feed))
	if feed == "" {
		feed = defaultFeed
	}

	sc.log.Info("fetching bars",
		"symbol", req.Symbol, "timeframe", tf.String(), "start", start, "end", end, "feed", feed)

	bars, err := sc.barsClient(feed).GetBars(req.Symbol, marketdata.GetBarsRequest{
		TimeFrame: timeframe,
		Start:     start,
		End:       end,
		Feed:      marketdata.Feed(feed),
	})
	if err != nil {
		return nil, err
	}
	sc.log.Debug("bars received", "symbol", req.Symbol, "count", len(bars))

	out, err := normalize.Normalize(BarsTable(req.Symbol, bars), normalize.Options{
		Symbol:    req.Symbol,
		Timeframe: tf,
		Source:    Source,
		Logger:    sc.log,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca: normalize %s: %w", req.Symbol, err)
	}
	return out, nil
}

func (sc *StockClient) barsClient(feed string) BarsClient {
	if sc.client == nil {
		sc.client = marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    sc.key,
			APISecret: sc.secret,
			Feed:      marketdata.Feed(feed),
		})
	}
	return sc.client
}

// BarsTable lays Alpaca bars out as a raw table with the same columns the
// REST response carries.
func BarsTable(symbol string, bars []marketdata.Bar) *frame.Table {
	t := frame.New("symbol", "timestamp", "open", "high", "low", "close", "volume", "trade_count", "vwap")
	for _, b := range bars {
		// column count is fixed above
		_ = t.Append(symbol, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume, b.TradeCount, b.VWAP)
	}
	return t
}
