package domain

import (
	"testing"
)

func TestViolationString(t *testing.T) {
	tests := []struct {
		name      string
		violation Violation
		expected  string
	}{
		{
			name:      "Rule 801",
			violation: Violation{Rule: Rule801, Medications: []Medication{MedicationX}, Observed: 1900, Required: 2000},
			expected:  "Règle 801: Taux de globules blancs insuffisant (1900/mm3) pour prescrire X.",
		},
		{
			name:      "Rule 327",
			violation: Violation{Rule: Rule327, Medications: []Medication{MedicationY, MedicationZ}},
			expected:  "Règle 327: Y + Z nécessite BRCA1 sauf sous IRM un mercredi.",
		},
		{
			name:      "Rule 666",
			violation: Violation{Rule: Rule666, Medications: []Medication{MedicationW}, Observed: 2, Required: 3},
			expected:  "Règle 666: Stock insuffisant pour prescrire W.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.violation.String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMessagesPreservesOrder(t *testing.T) {
	violations := []Violation{
		{Rule: Rule801, Medications: []Medication{MedicationX}, Observed: 10},
		{Rule: Rule666, Medications: []Medication{MedicationW}},
	}

	msgs := Messages(violations)
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0] != violations[0].String() || msgs[1] != violations[1].String() {
		t.Errorf("Messages out of order: %v", msgs)
	}

	if got := Messages(nil); len(got) != 0 {
		t.Errorf("Expected empty messages, got %v", got)
	}
}
