package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rx-rule-validator/internal/domain"
	"github.com/rx-rule-validator/internal/stock"
	"github.com/rx-rule-validator/pkg/rxcode"
)

func newStockCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and update the stock snapshot",
	}
	cmd.AddCommand(newStockShowCommand(a))
	cmd.AddCommand(newStockSetCommand(a))
	cmd.AddCommand(newStockImportCommand(a))
	cmd.AddCommand(newStockExportCommand(a))
	return cmd
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(cmd *cobra.Command, fn func(stock.Store) error) error {
	s, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newStockShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stocked units per medication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(s stock.Store) error {
				levels, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(levels) == 0 {
					_, err := fmt.Fprintln(out, "No stock recorded")
					return err
				}
				for _, l := range levels {
					if _, err := fmt.Fprintf(out, "%s\t%d\n", l.Medication, l.Units); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newStockSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set MEDICATION UNITS",
		Short: "Set the stocked units of a medication",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			med, err := domain.ParseMedication(args[0])
			if err != nil {
				return err
			}
			units, err := rxcode.ParseUnits(args[1])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(s stock.Store) error {
				if err := s.Set(cmd.Context(), med, units); err != nil {
					return err
				}
				a.logger.WithFields(logrus.Fields{
					"medication": med.String(),
					"units":      units,
				}).Info("Stock level updated")
				return nil
			})
		},
	}
}

func newStockImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import stock levels from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			return a.withStore(cmd, func(s stock.Store) error {
				n, err := stock.ImportJSON(cmd.Context(), s, f)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d stock level(s)\n", n)
				return err
			})
		},
	}
}

func newStockExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export stock levels as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(s stock.Store) error {
				return stock.ExportJSON(cmd.Context(), s, cmd.OutOrStdout())
			})
		},
	}
}
