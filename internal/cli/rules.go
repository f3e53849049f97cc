package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rx-rule-validator/internal/service"
)

func newRulesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the prescription rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := service.NewPrescriptionRuleEngine(a.logger)
			for _, r := range engine.Rules() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-24s %s\n", r.ID, r.Name, r.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
