package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float coerces a raw cell to a finite float64. Anything that is not a number
// or numeric text, including NaN and infinities, reports ok=false.
func Float(v any) (f float64, ok bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		return parseText(string(x))
	case string:
		return parseText(x)
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case *int:
		if x == nil {
			return 0, false
		}
		f = float64(*x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int coerces a raw cell to an integer, truncating toward zero.
func Int(v any) (int, bool) {
	f, ok := Float(v)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func parseText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
