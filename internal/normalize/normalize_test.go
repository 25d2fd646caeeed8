package normalize

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RBrouq/trading-framework/internal/frame"
	"github.com/RBrouq/trading-framework/internal/market"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	t0900 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1000 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

func rawTable(t *testing.T, columns []string, rows ...[]any) *frame.Table {
	t.Helper()
	tb := frame.New(columns...)
	for _, r := range rows {
		require.NoError(t, tb.Append(r...))
	}
	return tb
}

func TestNormalize_Empty(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			opts: Options{},
			want: []string{"ts", "symbol", "timeframe", "open", "high", "low", "close", "volume", "vwap", "trade_count"},
		},
		{
			name: "with source",
			opts: Options{Source: "alpaca"},
			want: []string{"ts", "symbol", "timeframe", "open", "high", "low", "close", "volume", "vwap", "trade_count", "source"},
		},
		{
			name: "no optional, timeframe last",
			opts: Options{Optional: []string{}, TimeframeLast: true},
			want: []string{"ts", "symbol", "open", "high", "low", "close", "volume", "timeframe"},
		},
		{
			name: "unknown optional dropped",
			opts: Options{Optional: []string{"trade_count", "foo"}},
			want: []string{"ts", "symbol", "timeframe", "open", "high", "low", "close", "volume", "trade_count"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = quiet
			out, err := Normalize(frame.New("timestamp", "open"), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 0, out.Len())
			assert.Equal(t, tt.want, out.Columns())
		})
	}
}

func TestNormalize_EmptySkipsValidation(t *testing.T) {
	// no ts, no prices, bad timeframe: nothing is inspected for zero rows
	out, err := Normalize(frame.New("foo"), Options{Timeframe: "nope", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestNormalize_MissingPriceColumn(t *testing.T) {
	all := []string{"open", "high", "low", "close", "volume"}
	for _, missing := range all {
		t.Run(missing, func(t *testing.T) {
			cols := []string{"timestamp", "symbol"}
			row := []any{t0900, "aapl"}
			for _, c := range all {
				if c != missing {
					cols = append(cols, c)
					row = append(row, 1.0)
				}
			}
			_, err := Normalize(rawTable(t, cols, row), Options{Logger: quiet})
			require.Error(t, err)
			assert.ErrorIs(t, err, market.ErrMissingColumn)

			var mc *market.MissingColumnError
			require.True(t, errors.As(err, &mc))
			assert.Equal(t, missing, mc.Column)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestNormalize_MissingTimestamp(t *testing.T) {
	raw := rawTable(t, []string{"symbol", "open", "high", "low", "close", "volume"},
		[]any{"AAPL", 1, 1, 1, 1, 1})
	_, err := Normalize(raw, Options{Logger: quiet})

	var mc *market.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "ts", mc.Column)
}

func TestNormalize_MissingSymbol(t *testing.T) {
	raw := rawTable(t, []string{"ts", "open", "high", "low", "close", "volume"},
		[]any{t0900, 1, 1, 1, 1, 1})
	_, err := Normalize(raw, Options{Logger: quiet})

	var mc *market.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "symbol", mc.Column)

	out, err := Normalize(raw, Options{Symbol: "msft", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", out.Value(0, "symbol"))
}

func TestNormalize_TimestampRenamed(t *testing.T) {
	raw := rawTable(t, []string{"timestamp", "symbol", "open", "high", "low", "close", "volume"},
		[]any{"2024-03-01T04:00:00-05:00", "aapl", 1, 2, 0.5, 1.5, 10},
		[]any{"2024-03-01 10:00:00", "aapl", 1, 2, 0.5, 1.5, 10},
	)
	out, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)

	assert.NotContains(t, out.Columns(), "timestamp")
	assert.Contains(t, out.Columns(), "ts")
	for i := 0; i < out.Len(); i++ {
		ts, ok := out.Value(i, "ts").(time.Time)
		require.True(t, ok)
		assert.Equal(t, time.UTC, ts.Location())
	}
	assert.Equal(t, t0900, out.Value(0, "ts"))
	assert.Equal(t, t1000, out.Value(1, "ts"))
}

func TestNormalize_TSColumnCoercedToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	raw := rawTable(t, []string{"ts", "timestamp", "symbol", "open", "high", "low", "close", "volume"},
		[]any{t0900.In(est), "ignored", "aapl", 1, 2, 0.5, 1.5, 10},
		[]any{t1000.UnixNano(), "ignored", "aapl", 1, 2, 0.5, 1.5, 10},
	)
	out, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, t0900, out.Value(0, "ts"))
	assert.Equal(t, t1000, out.Value(1, "ts"))
}

func TestNormalize_BadTimestamp(t *testing.T) {
	raw := rawTable(t, []string{"timestamp", "symbol", "open", "high", "low", "close", "volume"},
		[]any{"yesterday-ish", "aapl", 1, 2, 0.5, 1.5, 10})
	_, err := Normalize(raw, Options{Logger: quiet})
	assert.ErrorIs(t, err, market.ErrInvalidTimestamp)
}

func TestNormalize_Sorted(t *testing.T) {
	raw := rawTable(t, []string{"ts", "symbol", "open", "high", "low", "close", "volume"},
		[]any{t1000, "AAA", 1, 1, 1, 1, 1},
		[]any{t0900, "bbb", 2, 2, 2, 2, 2},
		[]any{t0900, "aaa", 3, 3, 3, 3, 3},
	)
	out, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	type key struct {
		sym string
		ts  any
	}
	var got []key
	for i := 0; i < out.Len(); i++ {
		got = append(got, key{out.Value(i, "symbol").(string), out.Value(i, "ts")})
	}
	assert.Equal(t, []key{{"AAA", t0900}, {"AAA", t1000}, {"BBB", t0900}}, got)
	assert.Equal(t, 3.0, out.Value(0, "open"))
}

func TestNormalize_MissingTSSortsLast(t *testing.T) {
	raw := rawTable(t, []string{"ts", "symbol", "open", "high", "low", "close", "volume"},
		[]any{nil, "AAA", 1, 1, 1, 1, 1},
		[]any{t1000, "AAA", 2, 2, 2, 2, 2},
	)
	out, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, t1000, out.Value(0, "ts"))
	assert.Nil(t, out.Value(1, "ts"))
}

func TestNormalize_LossyCoercion(t *testing.T) {
	raw := rawTable(t, []string{"ts", "symbol", "open", "high", "low", "close", "volume", "vwap"},
		[]any{t0900, "AAA", "1.5", "n/a", 1, uint64(2), int64(300), "abc"},
		[]any{t1000, "AAA", " 2 ", 3.0, nil, 2.5, "", 2.2},
	)
	out, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)

	assert.Equal(t, 1.5, out.Value(0, "open"))
	assert.Nil(t, out.Value(0, "high"))
	assert.Equal(t, 2.0, out.Value(0, "close"))
	assert.Equal(t, 300.0, out.Value(0, "volume"))
	assert.Nil(t, out.Value(0, "vwap"))

	assert.Equal(t, 2.0, out.Value(1, "open"))
	assert.Nil(t, out.Value(1, "low"))
	assert.Nil(t, out.Value(1, "volume"))
	assert.Equal(t, 2.2, out.Value(1, "vwap"))

	// trade_count was absent and is filled with missing values
	assert.Nil(t, out.Value(0, "trade_count"))
	assert.Nil(t, out.Value(1, "trade_count"))

	assert.Equal(t, map[string]int{"high": 1, "vwap": 1}, out.Coerced)
}

func TestNormalize_Layout(t *testing.T) {
	raw := rawTable(t, []string{"timestamp", "open", "high", "low", "close", "volume", "trade_count", "extra"},
		[]any{t0900, 1, 1, 1, 1, 1, 7, "x"})

	out, err := Normalize(raw, Options{
		Symbol:        "spy",
		Timeframe:     market.Timeframe("1h"),
		Source:        "alpaca",
		Optional:      []string{"trade_count"},
		TimeframeLast: true,
		Logger:        quiet,
	})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"ts", "symbol", "open", "high", "low", "close", "volume", "timeframe", "trade_count", "source"},
		out.Columns())
	assert.Equal(t, "1H", out.Value(0, "timeframe"))
	assert.Equal(t, 7.0, out.Value(0, "trade_count"))
	assert.Equal(t, "alpaca", out.Value(0, "source"))
	assert.Nil(t, out.Value(0, "extra"))
}

func TestNormalize_NoSourceColumn(t *testing.T) {
	raw := rawTable(t, []string{"ts", "symbol", "open", "high", "low", "close", "volume"},
		[]any{t0900, "AAA", 1, 1, 1, 1, 1})
	out, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)
	assert.NotContains(t, out.Columns(), "source")
	assert.Equal(t, "1Min", out.Value(0, "timeframe"))
}

func TestNormalize_InvalidTimeframe(t *testing.T) {
	raw := rawTable(t, []string{"ts", "symbol", "open", "high", "low", "close", "volume"},
		[]any{t0900, "AAA", 1, 1, 1, 1, 1})
	_, err := Normalize(raw, Options{Timeframe: "fortnight", Logger: quiet})
	assert.ErrorIs(t, err, market.ErrInvalidTimeframe)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := rawTable(t, []string{"timestamp", "symbol", "open", "high", "low", "close", "volume"},
		[]any{t0900, "aaa", "1", 1, 1, 1, 1})
	_, err := Normalize(raw, Options{Logger: quiet})
	require.NoError(t, err)

	assert.Equal(t, []string{"timestamp", "symbol", "open", "high", "low", "close", "volume"}, raw.Columns())
	assert.Equal(t, []any{"aaa"}, raw.Column("symbol"))
	assert.Equal(t, []any{"1"}, raw.Column("open"))
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := rawTable(t, []string{"ts", "symbol", "open", "high", "low", "close", "volume"},
		[]any{t1000, "b", 1, 1, 1, 1, 1},
		[]any{t0900, "a", 2, 2, 2, 2, 2},
		[]any{t0900, "b", 3, 3, 3, 3, 3},
	)
	a, err := Normalize(raw, Options{Source: "x", Logger: quiet})
	require.NoError(t, err)
	b, err := Normalize(raw, Options{Source: "x", Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalize_FeedsBars(t *testing.T) {
	raw := rawTable(t, []string{"timestamp", "open", "high", "low", "close", "volume"},
		[]any{t0900, 9.5, 10, 9, 9.8, 100})
	out, err := Normalize(raw, Options{Symbol: "aapl", Source: "alpaca", Logger: quiet})
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	bars, err := out.Bars()
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "AAPL", bars[0].Symbol)
	assert.Equal(t, market.Min1, bars[0].Timeframe)
}
