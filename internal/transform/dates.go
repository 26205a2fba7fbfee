// File path: internal/transform/dates.go
package transform

import (
	"strings"
	"time"
)

// NormalizeDate converts a registry date to YYYY-MM-DD. Partial-precision
// values are padded down: YYYY becomes January 1 of that year, YYYY-MM the
// first of that month. Unparseable or empty input yields "".
func NormalizeDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if len(value) > 10 {
		value = value[:10]
	}
	switch len(value) {
	case 4:
		if _, err := time.Parse("2006", value); err == nil {
			return value + "-01-01"
		}
	case 7:
		if _, err := time.Parse("2006-01", value); err == nil {
			return value + "-01"
		}
	case 10:
		if _, err := time.Parse("2006-01-02", value); err == nil {
			return value
		}
	}
	return ""
}
