package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bomino/xlc-bstt-server/models"
	"github.com/shopspring/decimal"
)

// Date layouts seen in the weekly dumps. Excel re-saves tend to flip
// between ISO and US slash formats.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02 15:04:05",
	"1/2/06",
	"01/02/06",
}

// normalizeEntryType maps the many spellings in source files onto the
// four canonical entry types. Returns an error for anything it cannot
// classify so the row is counted as failed instead of polluting rates.
func normalizeEntryType(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.Join(strings.Fields(key), " ")

	switch key {
	case "finger", "fingerprint", "biometric":
		return models.EntryTypeFinger, nil
	case "provisional", "provisional entry":
		return models.EntryTypeProvisional, nil
	case "write in", "writein", "manual entry":
		return models.EntryTypeWriteIn, nil
	case "missing c/o", "missing co", "missing clock out", "missing clockout":
		return models.EntryTypeMissingCO, nil
	}
	return "", fmt.Errorf("unrecognized entry type %q", raw)
}

// normalizeLabel trims and collapses internal whitespace in office,
// department and shift labels so grouping keys stay stable.
func normalizeLabel(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// parseHours parses an hour cell exactly and rounds to two decimals.
// Empty cells are zero hours, not an error.
func parseHours(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", raw)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative hours %q", raw)
	}
	return d.Round(2).InexactFloat64(), nil
}

// parseTries parses a clock attempt count, defaulting to a single try
func parseTries(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid try count %q", raw)
	}
	return n, nil
}

func optional(raw string) *string {
	value := normalizeLabel(raw)
	if value == "" {
		return nil
	}
	return &value
}
