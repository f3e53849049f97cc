// Package pricing computes parcel delivery prices.
package pricing

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rx-rule-validator/internal/domain"
)

// CustomerType selects the discount applied to an order total.
type CustomerType string

const (
	CustomerStandard CustomerType = "None"
	CustomerVIP      CustomerType = "VIP"
	CustomerBusiness CustomerType = "Business"
)

var discountMultipliers = map[CustomerType]decimal.Decimal{
	CustomerStandard: decimal.NewFromInt(1),
	CustomerVIP:      decimal.RequireFromString("0.8"),
	CustomerBusiness: decimal.RequireFromString("0.9"),
}

var (
	ratePerDistance     = decimal.RequireFromString("0.1")
	heavySurcharge      = decimal.NewFromInt(5)
	mediumSurcharge     = decimal.NewFromInt(3)
	heavyWeight         = decimal.NewFromInt(10)
	mediumWeight        = decimal.NewFromInt(5)
	urgentMultiplier    = decimal.RequireFromString("1.5")
	bulkMultiplier      = decimal.RequireFromString("0.95")
	bulkThreshold       = 3
	defaultCurrencySign = "€"
)

// ParseCustomerType maps a customer label to its type. Only the exact labels
// "VIP" and "Business" earn a discount; anything else is a standard customer.
func ParseCustomerType(label string) CustomerType {
	switch CustomerType(label) {
	case CustomerVIP, CustomerBusiness:
		return CustomerType(label)
	default:
		return CustomerStandard
	}
}

// Multiplier returns the factor applied to the order total.
func (c CustomerType) Multiplier() decimal.Decimal {
	if m, ok := discountMultipliers[c]; ok {
		return m
	}
	return discountMultipliers[CustomerStandard]
}

// Package is a parcel to deliver.
type Package struct {
	Weight   decimal.Decimal
	Distance decimal.Decimal
}

// NewPackage validates and creates a package.
func NewPackage(weight, distance decimal.Decimal) (Package, error) {
	if weight.IsNegative() {
		return Package{}, fmt.Errorf("creating package: %w: %w", domain.ErrInvalidWeight,
			domain.NewValidationError("weight", "must not be negative", weight.String()))
	}
	if distance.IsNegative() {
		return Package{}, fmt.Errorf("creating package: %w",
			domain.NewValidationError("distance", "must not be negative", distance.String()))
	}
	return Package{Weight: weight, Distance: distance}, nil
}

// Calculator prices orders for one customer type.
type Calculator struct {
	customer CustomerType
	logger   *logrus.Logger
}

// NewCalculator creates a calculator for the given customer type.
func NewCalculator(customer CustomerType, logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Calculator{customer: customer, logger: logger}
}

// BasePrice prices a single package before order-level discounts.
func (c *Calculator) BasePrice(pkg Package, urgent bool) decimal.Decimal {
	base := pkg.Distance.Mul(ratePerDistance)
	switch {
	case pkg.Weight.GreaterThan(heavyWeight):
		base = base.Add(heavySurcharge)
	case pkg.Weight.GreaterThan(mediumWeight):
		base = base.Add(mediumSurcharge)
	}
	if urgent {
		base = base.Mul(urgentMultiplier)
	}
	return base
}

// TotalPrice prices an order: the sum of base prices, a bulk discount above
// three packages, then the customer discount.
func (c *Calculator) TotalPrice(pkgs []Package, urgent bool) decimal.Decimal {
	total := decimal.Zero
	for _, pkg := range pkgs {
		total = total.Add(c.BasePrice(pkg, urgent))
	}
	if len(pkgs) > bulkThreshold {
		total = total.Mul(bulkMultiplier)
	}
	total = total.Mul(c.customer.Multiplier())

	c.logger.WithFields(logrus.Fields{
		"packages": len(pkgs),
		"urgent":   urgent,
		"customer": string(c.customer),
		"total":    total.StringFixed(2),
	}).Debug("Priced delivery order")

	return total
}

// FormatInvoice renders an order total, e.g. "Total: 15.20€".
func FormatInvoice(total decimal.Decimal, currencySign string) string {
	if currencySign == "" {
		currencySign = defaultCurrencySign
	}
	return fmt.Sprintf("Total: %s%s", total.StringFixed(2), currencySign)
}

// PrintInvoice writes the formatted invoice line to w.
func PrintInvoice(w io.Writer, total decimal.Decimal, currencySign string) error {
	_, err := fmt.Fprintln(w, FormatInvoice(total, currencySign))
	return err
}
