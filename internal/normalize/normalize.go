// Package normalize turns raw provider tables into the canonical bar
// collection.
package normalize

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/guregu/null/v6"

	"github.com/RBrouq/trading-framework/internal/frame"
	"github.com/RBrouq/trading-framework/internal/market"
)

const rawTimestamp = "timestamp"

// Options control a single normalization pass.
type Options struct {
	// Symbol, when set, overrides every row's symbol.
	Symbol string

	// Timeframe is a canonical value or any accepted alias, e.g.
	// market.Timeframe("1min"). Empty means 1Min.
	Timeframe market.Timeframe

	// Source, when set, is stamped on every row as the source column.
	Source string

	// Optional lists the optional columns to keep. nil selects
	// market.DefaultOptional; an empty slice keeps none.
	Optional []string

	// TimeframeLast moves timeframe after volume instead of after symbol.
	TimeframeLast bool

	Logger *slog.Logger
}

func (o Options) optional() []string {
	if o.Optional == nil {
		return market.DefaultOptional
	}
	return o.Optional
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Normalize converts raw into the canonical schema:
// ts (UTC), symbol, timeframe, open, high, low, close, volume, then the
// optional columns and source. Rows come back sorted by (symbol, ts).
//
// Cells that cannot be parsed as numbers become missing values instead of
// failing the call; the per-column counts end up in Frame.Coerced.
func Normalize(raw *frame.Table, opts Options) (*market.Frame, error) {
	optional := opts.optional()

	if raw == nil || raw.Len() == 0 {
		cols := market.RequiredColumns(opts.TimeframeLast)
		var kept []string
		for _, c := range optional {
			if market.KnownOptional(c) {
				kept = append(kept, c)
			}
		}
		cols = append(cols, kept...)
		if opts.Source != "" {
			cols = append(cols, market.ColSource)
		}
		return market.NewFrame(cols, kept, nil), nil
	}

	n := raw.Len()
	rows := make([]market.Row, n)
	coerced := map[string]int{}

	// ts
	var tsCells []any
	switch {
	case raw.Has(rawTimestamp) && !raw.Has(market.ColTS):
		tsCells = raw.Column(rawTimestamp)
	case raw.Has(market.ColTS):
		tsCells = raw.Column(market.ColTS)
	default:
		return nil, &market.MissingColumnError{Column: market.ColTS}
	}
	for i, v := range tsCells {
		ts, err := toUTC(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i].TS = ts
	}

	// symbol
	if opts.Symbol != "" {
		sym := toSymbol(opts.Symbol)
		for i := range rows {
			rows[i].Symbol = sym
		}
	} else {
		if !raw.Has(market.ColSymbol) {
			return nil, &market.MissingColumnError{Column: market.ColSymbol}
		}
		for i, v := range raw.Column(market.ColSymbol) {
			rows[i].Symbol = toSymbol(v)
		}
	}

	// timeframe
	desc := opts.Timeframe
	if desc == "" {
		desc = market.Min1
	}
	tf, err := market.ParseTimeframe(string(desc))
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Timeframe = tf.String()
	}

	// prices and volume
	for _, col := range market.PriceColumns {
		if !raw.Has(col) {
			return nil, &market.MissingColumnError{Column: col}
		}
	}
	setters := map[string]func(r *market.Row, v null.Float){
		market.ColOpen:   func(r *market.Row, v null.Float) { r.Open = v },
		market.ColHigh:   func(r *market.Row, v null.Float) { r.High = v },
		market.ColLow:    func(r *market.Row, v null.Float) { r.Low = v },
		market.ColClose:  func(r *market.Row, v null.Float) { r.Close = v },
		market.ColVolume: func(r *market.Row, v null.Float) { r.Volume = v },
	}
	for _, col := range market.PriceColumns {
		set := setters[col]
		for i, v := range raw.Column(col) {
			f, ok := toFloat(v)
			if !ok {
				coerced[col]++
			}
			set(&rows[i], f)
		}
	}

	// optional columns
	for i := range rows {
		rows[i].Optional = make([]null.Float, len(optional))
	}
	for j, col := range optional {
		if !raw.Has(col) {
			continue
		}
		for i, v := range raw.Column(col) {
			f, ok := toFloat(v)
			if !ok {
				coerced[col]++
			}
			rows[i].Optional[j] = f
		}
	}

	// source
	if opts.Source != "" {
		src := null.StringFrom(opts.Source)
		for i := range rows {
			rows[i].Source = src
		}
	}

	cols := market.RequiredColumns(opts.TimeframeLast)
	cols = append(cols, optional...)
	if opts.Source != "" {
		cols = append(cols, market.ColSource)
	}

	slices.SortStableFunc(rows, compareRows)

	out := market.NewFrame(cols, optional, rows)
	out.Coerced = coerced

	log := opts.logger()
	log.Debug("normalized bars", "rows", n, "timeframe", tf.String(), "source", opts.Source)
	for _, col := range slices.Sorted(maps.Keys(coerced)) {
		log.Warn("non-numeric cells coerced to missing", "column", col, "cells", coerced[col])
	}
	return out, nil
}

// compareRows orders by symbol, then ts with missing timestamps last.
func compareRows(a, b market.Row) int {
	if c := cmp.Compare(a.Symbol, b.Symbol); c != 0 {
		return c
	}
	switch {
	case !a.TS.Valid && !b.TS.Valid:
		return 0
	case !a.TS.Valid:
		return 1
	case !b.TS.Valid:
		return -1
	}
	return a.TS.Time.Compare(b.TS.Time)
}
