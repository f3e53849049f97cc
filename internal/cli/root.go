// Package cli implements the rxcheck command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rx-rule-validator/internal/config"
	"github.com/rx-rule-validator/internal/domain"
	"github.com/rx-rule-validator/internal/logging"
	"github.com/rx-rule-validator/internal/stock"
)

// ErrViolationsFound is returned by validate --strict when the prescription breaks a rule.
var ErrViolationsFound = errors.New("prescription violates one or more rules")

// app carries the state shared by subcommands once configuration is loaded.
type app struct {
	configFile string
	cfg        *domain.Config
	logger     *logrus.Logger
}

// load reads configuration and builds the logger.
func (a *app) load() error {
	m, err := config.NewManager(a.configFile)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	logger, err := logging.New(*m.GetLoggingConfig())
	if err != nil {
		return err
	}

	a.cfg = m.GetConfig()
	a.logger = logger
	a.logger.WithField("config_file", m.ConfigFileUsed()).Debug("Configuration loaded")
	return nil
}

// openStore opens the configured stock source.
func (a *app) openStore(ctx context.Context) (stock.Store, error) {
	s, err := stock.Open(ctx, a.cfg.Stock)
	if err != nil {
		return nil, fmt.Errorf("opening stock source: %w", err)
	}
	a.logger.WithField("driver", a.cfg.Stock.Driver).Debug("Stock source opened")
	return s, nil
}

// NewRootCommand builds the rxcheck command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rxcheck",
		Short: "Prescription safety rule validation",
		Long: `rxcheck validates prescriptions against the prescription safety rules:

  801  X requires a sufficient white blood cell count
  327  Y with Z requires the BRCA1 marker, except on Wednesdays
  666  W requires enough units in stock, with a weekend margin

It also manages the stock snapshot used by rule 666 and prices parcel deliveries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to configuration file (default: ./rxcheck.yaml)")

	root.AddCommand(newValidateCommand(a))
	root.AddCommand(newRulesCommand(a))
	root.AddCommand(newStockCommand(a))
	root.AddCommand(newPriceCommand(a))

	return root
}
