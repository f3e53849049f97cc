package domain

import (
	"fmt"
	"strings"
)

// RuleID identifies a prescription safety rule.
type RuleID string

const (
	// Rule801 enforces the white blood cell floor for X.
	Rule801 RuleID = "801"
	// Rule327 requires BRCA1 clearance for the Y + Z interaction.
	Rule327 RuleID = "327"
	// Rule666 enforces stock sufficiency for W.
	Rule666 RuleID = "666"
)

// String returns the rule identifier.
func (id RuleID) String() string {
	return string(id)
}

// Violation records a failed rule. Observed and Required carry the compared
// quantities for rules that compare numbers and are zero otherwise.
type Violation struct {
	Rule        RuleID       `json:"rule"`
	Medications []Medication `json:"medications"`
	Observed    int          `json:"observed,omitempty"`
	Required    int          `json:"required,omitempty"`
}

// String renders the violation with the wording consumers of the validator match on.
func (v Violation) String() string {
	switch v.Rule {
	case Rule801:
		return fmt.Sprintf("Règle 801: Taux de globules blancs insuffisant (%d/mm3) pour prescrire %s.",
			v.Observed, v.medication(0))
	case Rule327:
		return fmt.Sprintf("Règle 327: %s + %s nécessite BRCA1 sauf sous IRM un mercredi.",
			v.medication(0), v.medication(1))
	case Rule666:
		return fmt.Sprintf("Règle 666: Stock insuffisant pour prescrire %s.", v.medication(0))
	default:
		meds := make([]string, len(v.Medications))
		for i, m := range v.Medications {
			meds[i] = string(m)
		}
		return fmt.Sprintf("Règle %s: %s", v.Rule, strings.Join(meds, " + "))
	}
}

func (v Violation) medication(i int) Medication {
	if i < len(v.Medications) {
		return v.Medications[i]
	}
	return ""
}

// LogFields returns structured logging fields for the violation.
func (v Violation) LogFields() map[string]any {
	return map[string]any{
		"rule":        string(v.Rule),
		"medications": v.Medications,
		"observed":    v.Observed,
		"required":    v.Required,
	}
}

// Messages renders each violation, preserving order.
func Messages(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.String())
	}
	return out
}
