// Package report renders validation results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rx-rule-validator/internal/domain"
)

// Entry is one violation as presented in a report.
type Entry struct {
	domain.Violation
	Message string `json:"message"`
}

// Report is the outcome of validating one prescription.
type Report struct {
	ID          string              `json:"id"`
	EvaluatedAt time.Time           `json:"evaluated_at"`
	Date        time.Time           `json:"date"`
	Medications []domain.Medication `json:"medications"`
	Compliant   bool                `json:"compliant"`
	Violations  []Entry             `json:"violations"`
}

// New builds a report for the given validation result.
func New(prescription domain.Prescription, date time.Time, violations []domain.Violation) *Report {
	entries := make([]Entry, 0, len(violations))
	for _, v := range violations {
		entries = append(entries, Entry{Violation: v, Message: v.String()})
	}
	return &Report{
		ID:          uuid.New().String(),
		EvaluatedAt: time.Now().UTC(),
		Date:        date,
		Medications: prescription.Medications,
		Compliant:   len(violations) == 0,
		Violations:  entries,
	}
}

// Messages returns the violation messages in rule order.
func (r *Report) Messages() []string {
	out := make([]string, 0, len(r.Violations))
	for _, e := range r.Violations {
		out = append(out, e.Message)
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// WriteText writes one line per violation, or a compliance line when there are none.
func (r *Report) WriteText(w io.Writer) error {
	if r.Compliant {
		_, err := fmt.Fprintf(w, "Prescription compliant (%s)\n", r.Date.Format("Monday 2006-01-02"))
		return err
	}
	for _, msg := range r.Messages() {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

// Write renders the report in the named format ("json" or "text").
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.WriteJSON(w)
	case "text", "":
		return r.WriteText(w)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}
