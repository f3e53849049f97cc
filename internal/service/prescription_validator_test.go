package service

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rx-rule-validator/internal/domain"
)

func newTestValidator(stock domain.Stock) *PrescriptionValidator {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return NewPrescriptionValidator(stock, logger)
}

func TestPrescriptionValidator_Stock(t *testing.T) {
	prescription := domain.NewPrescription(domain.MedicationW)

	t.Run("Insufficient stock on weekday", func(t *testing.T) {
		v := newTestValidator(domain.Stock{domain.MedicationW: 2})
		assert.Contains(t, v.ValidateMessages(prescription, domain.Patient{}, thursday),
			"Règle 666: Stock insuffisant pour prescrire W.")
	})

	t.Run("Weekend requires margin", func(t *testing.T) {
		v := newTestValidator(domain.Stock{domain.MedicationW: 3})
		assert.Contains(t, v.ValidateMessages(prescription, domain.Patient{}, saturday),
			"Règle 666: Stock insuffisant pour prescrire W.")
	})

	t.Run("Sufficient stock on Friday", func(t *testing.T) {
		v := newTestValidator(domain.Stock{domain.MedicationW: 3})
		assert.Empty(t, v.ValidateMessages(prescription, domain.Patient{}, friday))
	})

	t.Run("Sufficient stock for the weekend", func(t *testing.T) {
		v := newTestValidator(domain.Stock{domain.MedicationW: 4})
		assert.Empty(t, v.ValidateMessages(prescription, domain.Patient{}, sunday))
	})
}

func TestPrescriptionValidator_SnapshotIsCopied(t *testing.T) {
	stock := domain.Stock{domain.MedicationW: 5}
	v := newTestValidator(stock)

	stock[domain.MedicationW] = 0

	assert.Empty(t, v.Validate(domain.NewPrescription(domain.MedicationW), domain.Patient{}, thursday))
}

func TestPrescriptionValidator_ConcurrentUse(t *testing.T) {
	v := newTestValidator(domain.Stock{domain.MedicationW: 3})
	prescription := domain.NewPrescription(domain.MedicationX, domain.MedicationY, domain.MedicationZ, domain.MedicationW)
	patient := domain.Patient{WhiteBloodCellCount: 1000}
	want := v.ValidateMessages(prescription, patient, saturday)
	require.Len(t, want, 3)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = v.ValidateMessages(prescription, patient, saturday)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestPrescriptionValidator_Engine(t *testing.T) {
	v := newTestValidator(domain.Stock{})
	require.NotNil(t, v.Engine())
	assert.Len(t, v.Engine().Rules(), 3)
}
