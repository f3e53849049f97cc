// Package domain contains the core business entities for prescription rule validation:
// medications, prescriptions, patient records, stock snapshots and the violations
// produced when a prescription breaks one of the safety rules.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Medication identifies a prescribable medication. The set of medications is closed.
type Medication string

const (
	MedicationX Medication = "X"
	MedicationY Medication = "Y"
	MedicationZ Medication = "Z"
	MedicationW Medication = "W"
)

// AllMedications returns the closed medication set in declaration order.
func AllMedications() []Medication {
	return []Medication{MedicationX, MedicationY, MedicationZ, MedicationW}
}

// Validation errors for boundary input
var (
	ErrUnknownMedication = errors.New("unknown medication")
	ErrNegativeUnits     = errors.New("stock units cannot be negative")
	ErrUnknownRule       = errors.New("unknown prescription rule")
	ErrInvalidWeight     = errors.New("invalid weight")
)

// IsValid reports whether the medication belongs to the closed set.
func (m Medication) IsValid() bool {
	switch m {
	case MedicationX, MedicationY, MedicationZ, MedicationW:
		return true
	default:
		return false
	}
}

// String returns the medication identifier.
func (m Medication) String() string {
	return string(m)
}

// ParseMedication converts a code into a Medication. Matching is case-insensitive
// and surrounding whitespace is ignored.
func ParseMedication(code string) (Medication, error) {
	m := Medication(strings.ToUpper(strings.TrimSpace(code)))
	if !m.IsValid() {
		return "", fmt.Errorf("parsing medication %q: %w", code, ErrUnknownMedication)
	}
	return m, nil
}

// Prescription is the set of medications requested for one patient encounter.
// Duplicates are allowed; rules only check membership.
type Prescription struct {
	Medications []Medication `json:"medications" mapstructure:"medications"`
}

// NewPrescription builds a prescription from the given medications.
func NewPrescription(meds ...Medication) Prescription {
	return Prescription{Medications: meds}
}

// Includes reports whether the prescription contains the medication.
func (p Prescription) Includes(m Medication) bool {
	return slices.Contains(p.Medications, m)
}

// IncludesAll reports whether the prescription contains every given medication.
func (p Prescription) IncludesAll(meds ...Medication) bool {
	for _, m := range meds {
		if !p.Includes(m) {
			return false
		}
	}
	return true
}

// ProtocolGamma is the treatment protocol that lowers the white blood cell floor for X.
const ProtocolGamma = "Gamma"

// MarkerBRCA1 is the genetic marker clearing the Y + Z interaction.
const MarkerBRCA1 = "BRCA1"

// Patient holds the clinical attributes consulted by the rules.
// Protocol and RelapseAfter2019 are optional; their zero values mean
// "no protocol" and "no relapse".
type Patient struct {
	WhiteBloodCellCount int      `json:"white_blood_cell_count" mapstructure:"white_blood_cell_count"`
	Protocol            string   `json:"protocol,omitempty" mapstructure:"protocol"`
	RelapseAfter2019    bool     `json:"relapse_after_2019,omitempty" mapstructure:"relapse_after_2019"`
	GeneticMarkers      []string `json:"genetic_markers" mapstructure:"genetic_markers"`
}

// HasMarker reports whether the patient carries the given genetic marker.
func (p Patient) HasMarker(marker string) bool {
	return slices.Contains(p.GeneticMarkers, marker)
}

// OnProtocol reports whether the patient follows the named treatment protocol.
func (p Patient) OnProtocol(protocol string) bool {
	return p.Protocol == protocol
}

// Validate checks a patient record read from an external source.
func (p Patient) Validate() error {
	if p.WhiteBloodCellCount < 0 {
		return NewValidationError("white_blood_cell_count", "must not be negative", p.WhiteBloodCellCount)
	}
	return nil
}

// Stock is a read-only snapshot of available units per medication.
type Stock map[Medication]int

// Units returns the available units for a medication. Medications missing
// from the snapshot have no units.
func (s Stock) Units(m Medication) int {
	return s[m]
}

// Clone returns an independent copy of the snapshot.
func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for m, n := range s {
		out[m] = n
	}
	return out
}

// Validate checks that every entry names a known medication with non-negative units.
func (s Stock) Validate() error {
	for m, n := range s {
		if !m.IsValid() {
			return fmt.Errorf("stock entry %q: %w", m, ErrUnknownMedication)
		}
		if n < 0 {
			return fmt.Errorf("stock entry %s: %w", m, ErrNegativeUnits)
		}
	}
	return nil
}
