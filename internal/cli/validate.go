package cli

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/rx-rule-validator/internal/domain"
	"github.com/rx-rule-validator/internal/patient"
	"github.com/rx-rule-validator/internal/report"
	"github.com/rx-rule-validator/internal/service"
	"github.com/rx-rule-validator/pkg/rxcode"
)

type validateOptions struct {
	meds        string
	patientFile string
	wbc         int
	protocol    string
	relapse     bool
	markers     []string
	date        string
	timezone    string
	stock       string
	format      string
	strict      bool
}

func newValidateCommand(a *app) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a prescription for a patient on a date",
		Example: `  rxcheck validate --meds X --wbc 1900
  rxcheck validate --meds Y,Z --patient patient.yaml --date 2025-02-19
  rxcheck validate --meds W --stock W=3 --date 2025-02-22 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.meds, "meds", "", "medications to prescribe, e.g. X,Y,Z")
	f.StringVar(&opts.patientFile, "patient", "", "patient record file (yaml, json or toml)")
	f.IntVar(&opts.wbc, "wbc", 0, "white blood cell count per mm3 (required when no --patient)")
	f.StringVar(&opts.protocol, "protocol", "", "treatment protocol, e.g. Gamma (when no --patient)")
	f.BoolVar(&opts.relapse, "relapse-after-2019", false, "patient relapsed after 2019 (when no --patient)")
	f.StringSliceVar(&opts.markers, "markers", nil, "genetic markers, e.g. BRCA1 (when no --patient)")
	f.StringVar(&opts.date, "date", "", "evaluation date YYYY-MM-DD or RFC 3339 (default: now)")
	f.StringVar(&opts.timezone, "tz", "Local", "time zone used to determine the day of week")
	f.StringVar(&opts.stock, "stock", "", "stock snapshot override, e.g. W=3 (default: configured stock source)")
	f.StringVar(&opts.format, "format", "text", "output format: text or json")
	f.BoolVar(&opts.strict, "strict", false, "exit with an error when violations are found")
	_ = cmd.MarkFlagRequired("meds")
	cmd.MarkFlagsOneRequired("patient", "wbc")

	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, opts *validateOptions) error {
	prescription, err := rxcode.ParsePrescription(opts.meds)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("loading time zone %q: %w", opts.timezone, err)
	}
	date, err := rxcode.ParseDate(opts.date, time.Now(), loc)
	if err != nil {
		return err
	}

	p, err := a.resolvePatient(opts)
	if err != nil {
		return err
	}

	snapshot, err := a.resolveStock(cmd, opts)
	if err != nil {
		return err
	}

	validator := service.NewPrescriptionValidator(snapshot, a.logger)
	violations := validator.Validate(prescription, p, date)

	rep := report.New(prescription, date, violations)
	if err := rep.Write(cmd.OutOrStdout(), opts.format); err != nil {
		return err
	}

	if opts.strict && !rep.Compliant {
		return fmt.Errorf("%w: %d violation(s)", ErrViolationsFound, len(violations))
	}
	return nil
}

func (a *app) resolvePatient(opts *validateOptions) (domain.Patient, error) {
	if opts.patientFile != "" {
		return patient.LoadFile(opts.patientFile)
	}
	p := domain.Patient{
		WhiteBloodCellCount: opts.wbc,
		Protocol:            opts.protocol,
		RelapseAfter2019:    opts.relapse,
		GeneticMarkers:      opts.markers,
	}
	if err := p.Validate(); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

func (a *app) resolveStock(cmd *cobra.Command, opts *validateOptions) (domain.Stock, error) {
	if cmd.Flags().Changed("stock") {
		return rxcode.ParseStock(opts.stock)
	}

	s, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer s.Close()

	snapshot, err := s.Snapshot(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("reading stock snapshot: %w", err)
	}
	return snapshot, nil
}
