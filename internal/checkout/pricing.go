package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/pkg/config"
)

// QuoteItem is one priced cart line fed into the pricing engine.
type QuoteItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the server-computed money breakdown for a cart or order.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

// PricingConfig carries the parsed pricing constants.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// NewPricingConfig parses the configured pricing constants once at startup.
func NewPricingConfig(cfg config.CheckoutConfig) (PricingConfig, error) {
	threshold, fee, rate, err := cfg.Decimals()
	if err != nil {
		return PricingConfig{}, err
	}
	return PricingConfig{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRate:               rate,
	}, nil
}

// Quote computes totals from authoritative unit prices. The subtotal is the
// exact sum of price times quantity with no per-line rounding; tax and total
// are rounded to cents.
func Quote(items []QuoteItem, cfg PricingConfig) Totals {
	if len(items) == 0 {
		return Totals{
			Subtotal:     decimal.Zero,
			ShippingCost: decimal.Zero,
			Tax:          decimal.Zero,
			Total:        decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := cfg.FlatShippingFee
	if subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(cfg.TaxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax).Round(2)

	return Totals{
		Subtotal:     subtotal.Round(2),
		ShippingCost: shipping.Round(2),
		Tax:          tax,
		Total:        total,
	}
}
