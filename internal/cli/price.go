package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rx-rule-validator/internal/domain"
	"github.com/rx-rule-validator/internal/pricing"
	"github.com/rx-rule-validator/pkg/rxcode"
)

type priceOptions struct {
	weights   string
	distances string
	urgent    bool
	customer  string
}

func newPriceCommand(a *app) *cobra.Command {
	opts := &priceOptions{}

	cmd := &cobra.Command{
		Use:     "price",
		Short:   "Price a parcel delivery order",
		Example: `  rxcheck price --weights 3,12 --distances 100,40 --customer VIP`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPrice(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.weights, "weights", "", "package weights, comma separated")
	f.StringVar(&opts.distances, "distances", "", "package distances, comma separated")
	f.BoolVar(&opts.urgent, "urgent", false, "urgent delivery")
	f.StringVar(&opts.customer, "customer", "", "customer type: VIP, Business or empty")
	_ = cmd.MarkFlagRequired("weights")
	_ = cmd.MarkFlagRequired("distances")

	return cmd
}

func (a *app) runPrice(cmd *cobra.Command, opts *priceOptions) error {
	weights, err := rxcode.ParseDecimals("weights", opts.weights)
	if err != nil {
		return err
	}
	distances, err := rxcode.ParseDecimals("distances", opts.distances)
	if err != nil {
		return err
	}
	if len(weights) != len(distances) {
		return domain.NewValidationError("distances",
			fmt.Sprintf("expected %d values to match weights, got %d", len(weights), len(distances)), opts.distances)
	}

	pkgs := make([]pricing.Package, 0, len(weights))
	for i := range weights {
		p, err := pricing.NewPackage(weights[i], distances[i])
		if err != nil {
			return err
		}
		pkgs = append(pkgs, p)
	}

	calc := pricing.NewCalculator(pricing.ParseCustomerType(opts.customer), a.logger)
	total := calc.TotalPrice(pkgs, opts.urgent)
	return pricing.PrintInvoice(cmd.OutOrStdout(), total, a.cfg.Pricing.CurrencySymbol)
}
