package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseID parses a positive numeric path id. Front-end placeholders such as
// "undefined" and "null" are rejected with ErrInvalidInput.
func ParseID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "undefined", "null":
		return 0, InvalidInputf("ID inválido: %q", raw)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, InvalidInputf("ID inválido: %q", raw)
	}
	return uint(id), nil
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EscapeSQL escapes single quotes in SQL strings to prevent injection.
// Used when building INSERT statements for the in-memory SQL engine.
func EscapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// dateLayouts are tried in order by ParseFlexibleDate.
var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseFlexibleDate parses the date formats sent by the incident forms.
func ParseFlexibleDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, InvalidInputf("fecha vacía")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, InvalidInputf("formato de fecha no reconocido: %q", raw)
}

// FormatTimestamp renders t as YYYYmmdd_HHMMSS, the suffix used in stored file names.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
