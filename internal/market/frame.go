package market

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guregu/null/v6"
)

// Row is one line of a normalized bar collection. Optional holds the values
// of the frame's optional columns, in the frame's order.
type Row struct {
	TS        null.Time
	Symbol    string
	Timeframe string
	Open      null.Float
	High      null.Float
	Low       null.Float
	Close     null.Float
	Volume    null.Float
	Optional  []null.Float
	Source    null.String
}

// Frame is a normalized, (symbol, ts)-ordered bar collection.
type Frame struct {
	columns  []string
	optional []string
	rows     []Row

	// Coerced counts, per column, the cells that could not be parsed as
	// numbers and were turned into missing values.
	Coerced map[string]int
}

// NewFrame wraps rows already laid out for columns. optional lists the
// optional columns in the order Row.Optional stores them.
func NewFrame(columns, optional []string, rows []Row) *Frame {
	return &Frame{
		columns:  slices.Clone(columns),
		optional: slices.Clone(optional),
		rows:     rows,
		Coerced:  map[string]int{},
	}
}

func (f *Frame) Columns() []string { return slices.Clone(f.columns) }

func (f *Frame) Len() int { return len(f.rows) }

// Row returns a copy of row i.
func (f *Frame) Row(i int) Row {
	r := f.rows[i]
	r.Optional = slices.Clone(r.Optional)
	return r
}

// HasColumn reports whether name is part of the frame's schema.
func (f *Frame) HasColumn(name string) bool {
	return slices.Contains(f.columns, name)
}

// Value returns the cell at (i, column) as time.Time, string or float64, or
// nil when the cell is missing or the column is unknown.
func (f *Frame) Value(i int, column string) any {
	r := f.rows[i]
	switch column {
	case ColTS:
		if r.TS.Valid {
			return r.TS.Time
		}
		return nil
	case ColSymbol:
		return r.Symbol
	case ColTimeframe:
		return r.Timeframe
	case ColOpen:
		return floatValue(r.Open)
	case ColHigh:
		return floatValue(r.High)
	case ColLow:
		return floatValue(r.Low)
	case ColClose:
		return floatValue(r.Close)
	case ColVolume:
		return floatValue(r.Volume)
	case ColSource:
		if r.Source.Valid {
			return r.Source.String
		}
		return nil
	}
	if j := slices.Index(f.optional, column); j >= 0 && j < len(r.Optional) {
		return floatValue(r.Optional[j])
	}
	return nil
}

func floatValue(v null.Float) any {
	if v.Valid {
		return v.Float64
	}
	return nil
}

// Validate checks the minimal schema every normalized collection satisfies:
// required columns present, every ts set, no negative volume.
func (f *Frame) Validate() error {
	for _, c := range RequiredColumns(false) {
		if !f.HasColumn(c) {
			return &MissingColumnError{Column: c}
		}
	}
	for i, r := range f.rows {
		if !r.TS.Valid {
			return invariantf("row %d: ts is missing", i)
		}
		if r.Volume.Valid && r.Volume.Float64 < 0 {
			return invariantf("row %d: negative volume %g", i, r.Volume.Float64)
		}
	}
	return nil
}

// Bars converts every row into a validated Bar. Missing prices, volume or ts
// are invariant violations.
func (f *Frame) Bars() ([]Bar, error) {
	bars := make([]Bar, 0, len(f.rows))
	for i, r := range f.rows {
		if !r.TS.Valid || !r.Open.Valid || !r.High.Valid || !r.Low.Valid || !r.Close.Valid || !r.Volume.Valid {
			return nil, invariantf("row %d (%s): missing ts, price or volume", i, r.Symbol)
		}
		tf, err := ParseTimeframe(r.Timeframe)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		b, err := NewBar(r.Symbol, r.TS.Time, r.Open.Float64, r.High.Float64, r.Low.Float64,
			r.Close.Float64, r.Volume.Float64, tf, r.Source)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// Format writes the first n rows (all rows when n < 0) as an aligned table.
func (f *Frame) Format(w io.Writer, n int) error {
	if n < 0 || n > len(f.rows) {
		n = len(f.rows)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range f.columns {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw)
	for i := 0; i < n; i++ {
		fmt.Fprintf(tw, "%d", i)
		for _, c := range f.columns {
			fmt.Fprintf(tw, "\t%s", formatCell(f.Value(i, c)))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return "<NA>"
	case time.Time:
		return v.Format("2006-01-02 15:04:05Z07:00")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
