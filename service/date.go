package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeDate converts an accepted start date into YYYY-MM-DD.
//
// YYYYMMDD is reformatted and YYYY-MM-DD is returned as-is. Any other shape
// is returned unchanged so that parsing rejects it later with an invalid
// date error. Unresolved platform placeholders such as "sys.date" are
// rejected here.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", newValidationError(KindMissingInput, FieldStartDate, "")
	}
	if isPlaceholder(s) {
		return "", newValidationError(KindUnresolvedPlaceholder, FieldStartDate, s)
	}

	if len(s) == 8 && isDigits(s) {
		return s[:4] + "-" + s[4:6] + "-" + s[6:], nil
	}
	return s, nil
}

// ParseMonths converts a months parameter into an integer. It never fails:
// anything unparseable yields 0, which callers treat as invalid.
func ParseMonths(raw any) int {
	switch v := raw.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return integralFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return integralFloat(f)
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return 0
}

func integralFloat(f float64) int {
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// parseDate parses a normalized date at midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, newValidationError(KindInvalidDate, FieldStartDate, s)
	}
	return t, nil
}

// midnight truncates t to the start of its calendar day in its own location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b. Both dates are moved
// to UTC civil dates first so DST transitions do not skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func isPlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
