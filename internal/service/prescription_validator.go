package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rx-rule-validator/internal/domain"
)

// PrescriptionValidator binds the rule engine to one stock snapshot.
// The snapshot is copied at construction and only read afterwards, so a
// validator is safe for concurrent use.
type PrescriptionValidator struct {
	engine *PrescriptionRuleEngine
	stock  domain.Stock
}

// NewPrescriptionValidator creates a validator over the given stock snapshot.
func NewPrescriptionValidator(stock domain.Stock, logger *logrus.Logger) *PrescriptionValidator {
	return &PrescriptionValidator{
		engine: NewPrescriptionRuleEngine(logger),
		stock:  stock.Clone(),
	}
}

// Validate returns the rule violations of the prescription for the patient on date.
func (v *PrescriptionValidator) Validate(prescription domain.Prescription, patient domain.Patient, date time.Time) []domain.Violation {
	return v.engine.Evaluate(prescription, patient, v.stock, date)
}

// ValidateMessages is Validate rendered to violation messages.
func (v *PrescriptionValidator) ValidateMessages(prescription domain.Prescription, patient domain.Patient, date time.Time) []string {
	return domain.Messages(v.Validate(prescription, patient, date))
}

// Engine exposes the underlying rule engine.
func (v *PrescriptionValidator) Engine() *PrescriptionRuleEngine {
	return v.engine
}
