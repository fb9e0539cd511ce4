package internal

import (
	"fmt"
	"strings"
	"time"
)

// ParseBool reports whether s is case-insensitively "true".
// Anything else, including "yes" or "1", is false.
func ParseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// Elapsed formats the seconds since start with two decimals, e.g. "0.42"
func Elapsed(start time.Time) string {
	return fmt.Sprintf("%.2f", time.Since(start).Seconds())
}
