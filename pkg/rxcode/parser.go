// Package rxcode parses the textual inputs of prescription validation:
// medication lists, evaluation dates, stock units and numeric lists.
package rxcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rx-rule-validator/internal/domain"
)

var (
	listSeparatorPattern = regexp.MustCompile(`[\s,;+]+`)
	stockEntryPattern    = regexp.MustCompile(`^\s*([A-Za-z]+)\s*[=:]\s*(-?\d+)\s*$`)

	dateLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
)

// splitList splits on commas, semicolons, plus signs and whitespace, dropping empty items.
func splitList(input string) []string {
	var out []string
	for _, item := range listSeparatorPattern.Split(strings.TrimSpace(input), -1) {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParsePrescription parses a medication list such as "X,Y", "Y + Z" or "w".
func ParsePrescription(input string) (domain.Prescription, error) {
	items := splitList(input)
	if len(items) == 0 {
		return domain.Prescription{}, fmt.Errorf("parsing prescription: %w",
			domain.NewValidationError("medications", "at least one medication is required", input))
	}

	meds := make([]domain.Medication, 0, len(items))
	for _, item := range items {
		med, err := domain.ParseMedication(item)
		if err != nil {
			return domain.Prescription{}, fmt.Errorf("parsing prescription: %w", err)
		}
		meds = append(meds, med)
	}
	return domain.NewPrescription(meds...), nil
}

// ParseDate parses an evaluation date. An empty input or "today" yields now.
// Dates without an offset are interpreted in loc, and every result is
// expressed in loc so its weekday is the one observed there.
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, "today") {
		return now.In(loc), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date: %w",
		domain.NewValidationError("date", "expected YYYY-MM-DD or RFC 3339", input))
}

// ParseUnits parses a non-negative stock unit count.
func ParseUnits(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("parsing units: %w", domain.NewValidationError("units", "not an integer", input))
	}
	if n < 0 {
		return 0, fmt.Errorf("parsing units: %w: %w", domain.ErrNegativeUnits,
			domain.NewValidationError("units", "must not be negative", n))
	}
	return n, nil
}

// ParseStock parses entries such as "W=5,X=2" into a snapshot.
func ParseStock(input string) (domain.Stock, error) {
	stock := domain.Stock{}
	for _, entry := range strings.Split(input, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		m := stockEntryPattern.FindStringSubmatch(entry)
		if m == nil {
			return nil, fmt.Errorf("parsing stock: %w", domain.NewValidationError("stock", "expected MED=UNITS", entry))
		}
		med, err := domain.ParseMedication(m[1])
		if err != nil {
			return nil, fmt.Errorf("parsing stock: %w", err)
		}
		units, err := ParseUnits(m[2])
		if err != nil {
			return nil, fmt.Errorf("parsing stock: %w", err)
		}
		stock[med] = units
	}
	return stock, nil
}

// ParseDecimals parses a comma separated list of decimal numbers.
func ParseDecimals(field, input string) ([]decimal.Decimal, error) {
	items := splitList(input)
	out := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		d, err := decimal.NewFromString(item)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", field, domain.NewValidationError(field, "not a number", item))
		}
		out = append(out, d)
	}
	return out, nil
}
