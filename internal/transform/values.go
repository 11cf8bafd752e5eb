package transform

import (
	"cmp"
	"fmt"
	"strconv"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime interprets a cell as a timestamp. ok is false for nil cells.
func toTime(v any) (ts time.Time, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return x, !x.IsZero(), nil
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false, nil
		}
		return *x, true, nil
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, x); err == nil {
				return ts, true, nil
			}
		}
		return time.Time{}, false, fmt.Errorf("cannot parse %q as a date", x)
	default:
		return time.Time{}, false, fmt.Errorf("cannot use %T as a date", v)
	}
}

func toString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

// valueKey gives equal cell values the same map key regardless of whether
// the value itself is comparable.
func valueKey(v any) string {
	if b, ok := v.([]byte); ok {
		return fmt.Sprintf("[]byte:%x", b)
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// toNumber is toFloat extended to strings holding a number, as cells read
// from CSV do.
func toNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return toFloat(v)
}

// compareValues orders numbers and numeric strings numerically, times
// chronologically and everything else by its string form.
func compareValues(a, b any) int {
	if fa, ok := toNumber(a); ok {
		if fb, ok := toNumber(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	sa, _ := toString(a)
	sb, _ := toString(b)
	return cmp.Compare(sa, sb)
}

// floorDiv divides d by unit rounding toward negative infinity.
func floorDiv(d, unit time.Duration) int64 {
	q := d / unit
	if d%unit != 0 && (d < 0) != (unit < 0) {
		q--
	}
	return int64(q)
}
