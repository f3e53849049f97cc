package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rx-rule-validator/internal/domain"
)

// Thresholds used by the built-in rules
const (
	defaultWBCFloor = 2000
	gammaWBCFloor   = 1500

	baseStockW       = 3
	weekendMarginPct = 20

	interactionExemptDay = time.Wednesday
)

// RuleInput is the immutable view of everything a rule may consult.
type RuleInput struct {
	Prescription domain.Prescription
	Patient      domain.Patient
	Stock        domain.Stock
	Date         time.Time
}

// PrescriptionRule is a single independent safety check. Evaluator returns
// the violation and true when the rule fails.
type PrescriptionRule struct {
	ID          domain.RuleID
	Name        string
	Description string
	Evaluator   func(in RuleInput) (domain.Violation, bool)
}

// PrescriptionRuleEngine evaluates an ordered table of prescription rules.
// Every rule is evaluated on every call and violations are reported in table order.
// The engine keeps no state between calls and never modifies its inputs.
type PrescriptionRuleEngine struct {
	logger *logrus.Logger
	rules  []*PrescriptionRule
}

// NewPrescriptionRuleEngine creates an engine loaded with rules 801, 327 and 666, in that order.
func NewPrescriptionRuleEngine(logger *logrus.Logger) *PrescriptionRuleEngine {
	if logger == nil {
		logger = logrus.New()
	}
	engine := &PrescriptionRuleEngine{logger: logger}
	engine.initializeRules()
	return engine
}

func (e *PrescriptionRuleEngine) initializeRules() {
	e.register(&PrescriptionRule{
		ID:          domain.Rule801,
		Name:        "White blood cell floor",
		Description: "X requires 2000/mm3 white blood cells, 1500/mm3 under protocol Gamma unless relapsed after 2019",
		Evaluator:   evaluateRule801,
	})
	e.register(&PrescriptionRule{
		ID:          domain.Rule327,
		Name:        "Y + Z genetic clearance",
		Description: "Y with Z requires the BRCA1 marker, except on Wednesdays",
		Evaluator:   evaluateRule327,
	})
	e.register(&PrescriptionRule{
		ID:          domain.Rule666,
		Name:        "W stock sufficiency",
		Description: "W requires 3 units in stock, plus a 20% safety margin on weekends",
		Evaluator:   evaluateRule666,
	})
}

func (e *PrescriptionRuleEngine) register(rule *PrescriptionRule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the rule table in evaluation order.
func (e *PrescriptionRuleEngine) Rules() []PrescriptionRule {
	out := make([]PrescriptionRule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, *r)
	}
	return out
}

// Evaluate runs every rule and returns the violations in rule order.
// An empty, non-nil slice means the prescription is compliant.
func (e *PrescriptionRuleEngine) Evaluate(prescription domain.Prescription, patient domain.Patient, stock domain.Stock, date time.Time) []domain.Violation {
	in := RuleInput{Prescription: prescription, Patient: patient, Stock: stock, Date: date}
	violations := make([]domain.Violation, 0, len(e.rules))

	for _, rule := range e.rules {
		v, failed := rule.Evaluator(in)
		fields := logrus.Fields{
			"rule":   rule.ID.String(),
			"failed": failed,
		}
		if failed {
			for k, val := range v.LogFields() {
				fields[k] = val
			}
			violations = append(violations, v)
		}
		e.logger.WithFields(fields).Debug("Evaluated prescription rule")
	}

	e.logger.WithFields(logrus.Fields{
		"medications": prescription.Medications,
		"weekday":     date.Weekday().String(),
		"total_rules": len(e.rules),
		"violations":  len(violations),
	}).Info("Completed prescription rule evaluation")

	return violations
}

// EvaluateRule runs a single rule by ID.
func (e *PrescriptionRuleEngine) EvaluateRule(id domain.RuleID, prescription domain.Prescription, patient domain.Patient, stock domain.Stock, date time.Time) (*domain.Violation, error) {
	for _, rule := range e.rules {
		if rule.ID != id {
			continue
		}
		v, failed := rule.Evaluator(RuleInput{Prescription: prescription, Patient: patient, Stock: stock, Date: date})
		if !failed {
			return nil, nil
		}
		return &v, nil
	}
	return nil, fmt.Errorf("evaluating rule %s: %w", id, domain.ErrUnknownRule)
}

// evaluateRule801 checks the white blood cell floor for X.
func evaluateRule801(in RuleInput) (domain.Violation, bool) {
	if !in.Prescription.Includes(domain.MedicationX) {
		return domain.Violation{}, false
	}

	floor := requiredWBC(in.Patient)
	if in.Patient.WhiteBloodCellCount >= floor {
		return domain.Violation{}, false
	}
	return domain.Violation{
		Rule:        domain.Rule801,
		Medications: []domain.Medication{domain.MedicationX},
		Observed:    in.Patient.WhiteBloodCellCount,
		Required:    floor,
	}, true
}

func requiredWBC(p domain.Patient) int {
	if p.OnProtocol(domain.ProtocolGamma) && !p.RelapseAfter2019 {
		return gammaWBCFloor
	}
	return defaultWBCFloor
}

// evaluateRule327 checks the Y + Z interaction.
func evaluateRule327(in RuleInput) (domain.Violation, bool) {
	if !in.Prescription.IncludesAll(domain.MedicationY, domain.MedicationZ) {
		return domain.Violation{}, false
	}
	if in.Date.Weekday() == interactionExemptDay || in.Patient.HasMarker(domain.MarkerBRCA1) {
		return domain.Violation{}, false
	}
	return domain.Violation{
		Rule:        domain.Rule327,
		Medications: []domain.Medication{domain.MedicationY, domain.MedicationZ},
	}, true
}

// evaluateRule666 checks that enough W is in stock for the day.
func evaluateRule666(in RuleInput) (domain.Violation, bool) {
	if !in.Prescription.Includes(domain.MedicationW) {
		return domain.Violation{}, false
	}

	required := RequiredStockW(in.Date)
	available := in.Stock.Units(domain.MedicationW)
	if available >= required {
		return domain.Violation{}, false
	}
	return domain.Violation{
		Rule:        domain.Rule666,
		Medications: []domain.Medication{domain.MedicationW},
		Observed:    available,
		Required:    required,
	}, true
}

// RequiredStockW returns the W units needed on the given date: 3 on weekdays,
// 3 plus a 20% margin rounded up (4) on Saturday and Sunday.
func RequiredStockW(date time.Time) int {
	if isWeekend(date) {
		return baseStockW + ceilPercent(baseStockW, weekendMarginPct)
	}
	return baseStockW
}

func isWeekend(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// ceilPercent returns ceil(n * pct / 100) for non-negative n.
func ceilPercent(n, pct int) int {
	return (n*pct + 99) / 100
}
