package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/RBrouq/trading-framework/internal/market"
)

// toFloat coerces a raw cell to a number. ok is false when a non-missing
// cell could not be parsed; the returned value is then missing as well.
func toFloat(v any) (f null.Float, ok bool) {
	switch v := v.(type) {
	case nil:
		return null.Float{}, true
	case float64:
		return finite(v), true
	case float32:
		return finite(float64(v)), true
	case int:
		return null.FloatFrom(float64(v)), true
	case int8:
		return null.FloatFrom(float64(v)), true
	case int16:
		return null.FloatFrom(float64(v)), true
	case int32:
		return null.FloatFrom(float64(v)), true
	case int64:
		return null.FloatFrom(float64(v)), true
	case uint:
		return null.FloatFrom(float64(v)), true
	case uint8:
		return null.FloatFrom(float64(v)), true
	case uint16:
		return null.FloatFrom(float64(v)), true
	case uint32:
		return null.FloatFrom(float64(v)), true
	case uint64:
		return null.FloatFrom(float64(v)), true
	case bool:
		if v {
			return null.FloatFrom(1), true
		}
		return null.FloatFrom(0), true
	case null.Float:
		return v, true
	case json.Number:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	}
	return null.Float{}, false
}

func parseFloat(s string) (null.Float, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float{}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, false
	}
	return finite(f), true
}

// NaN counts as missing; infinities are kept.
func finite(f float64) null.Float {
	if math.IsNaN(f) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// toUTC coerces a raw cell to a UTC instant. Strings without an offset are
// read as UTC, integers as unix nanoseconds.
func toUTC(v any) (null.Time, error) {
	switch v := v.(type) {
	case nil:
		return null.Time{}, nil
	case time.Time:
		if v.IsZero() {
			return null.Time{}, nil
		}
		return null.TimeFrom(v.UTC()), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return null.Time{}, nil
		}
		return null.TimeFrom(v.UTC()), nil
	case null.Time:
		if !v.Valid {
			return v, nil
		}
		return null.TimeFrom(v.Time.UTC()), nil
	case int64:
		return null.TimeFrom(time.Unix(0, v).UTC()), nil
	case int:
		return null.TimeFrom(time.Unix(0, int64(v)).UTC()), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return null.Time{}, nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return null.TimeFrom(t.UTC()), nil
			}
		}
	}
	return null.Time{}, fmt.Errorf("%w: %v (%T)", market.ErrInvalidTimestamp, v, v)
}

func toSymbol(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.ToUpper(v)
	}
	return strings.ToUpper(fmt.Sprint(v))
}
