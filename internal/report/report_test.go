package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rx-rule-validator/internal/domain"
)

var thursday = time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)

func sampleViolations() []domain.Violation {
	return []domain.Violation{
		{Rule: domain.Rule801, Medications: []domain.Medication{domain.MedicationX}, Observed: 1900, Required: 2000},
		{Rule: domain.Rule666, Medications: []domain.Medication{domain.MedicationW}, Observed: 2, Required: 3},
	}
}

func TestNew(t *testing.T) {
	prescription := domain.NewPrescription(domain.MedicationX, domain.MedicationW)

	r := New(prescription, thursday, sampleViolations())

	_, err := uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.False(t, r.Compliant)
	assert.Equal(t, []string{
		"Règle 801: Taux de globules blancs insuffisant (1900/mm3) pour prescrire X.",
		"Règle 666: Stock insuffisant pour prescrire W.",
	}, r.Messages())

	other := New(prescription, thursday, nil)
	assert.NotEqual(t, r.ID, other.ID)
	assert.True(t, other.Compliant)
	assert.Empty(t, other.Messages())
}

func TestReport_WriteJSON(t *testing.T) {
	r := New(domain.NewPrescription(domain.MedicationX), thursday, sampleViolations()[:1])

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["compliant"])

	violations := decoded["violations"].([]any)
	require.Len(t, violations, 1)
	first := violations[0].(map[string]any)
	assert.Equal(t, "801", first["rule"])
	assert.Equal(t, float64(1900), first["observed"])
	assert.Contains(t, first["message"], "1900/mm3")
}

func TestReport_WriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(domain.NewPrescription(), thursday, nil).Write(&buf, "text"))
	assert.Equal(t, "Prescription compliant (Thursday 2025-02-20)\n", buf.String())

	buf.Reset()
	require.NoError(t, New(domain.NewPrescription(), thursday, sampleViolations()).Write(&buf, ""))
	assert.Equal(t,
		"Règle 801: Taux de globules blancs insuffisant (1900/mm3) pour prescrire X.\n"+
			"Règle 666: Stock insuffisant pour prescrire W.\n",
		buf.String())
}

func TestReport_UnsupportedFormat(t *testing.T) {
	err := New(domain.NewPrescription(), thursday, nil).Write(&bytes.Buffer{}, "xml")
	assert.Error(t, err)
}
