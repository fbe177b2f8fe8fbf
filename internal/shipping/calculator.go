// Package shipping computes cart subtotals and shipping fees from the configured rates.
package shipping

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"crm-commerce/internal/models"
)

// Line is one priced cart line.
type Line struct {
	ProductID  string
	CategoryID *string
	Price      decimal.Decimal
	Quantity   int
}

// RateSource reads the shipping rates that are currently active.
type RateSource interface {
	ActiveCategoryRates(ctx context.Context, categoryIDs []string) ([]models.ShippingRate, error)
	ActiveDefaultRate(ctx context.Context) (*models.ShippingRate, error)
}

// Quote is the priced result for a set of lines. RateID is empty when no rate applied.
type Quote struct {
	SubtotalAmount decimal.Decimal `json:"subtotalAmount"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	RateID         string          `json:"rateId,omitempty"`
	FreeShipping   bool            `json:"freeShipping"`
}

// Calculate prices lines against the active rates. The applicable rate is the
// active rate with the highest fee among the categories in the cart (lowest
// category id on ties), falling back to the default rate. The fee is waived
// once the subtotal reaches that rate's free-shipping threshold.
func Calculate(ctx context.Context, lines []Line, rates RateSource) (Quote, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	rate, err := resolveRate(ctx, lines, rates)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{SubtotalAmount: subtotal, ShippingFee: decimal.Zero}
	if rate != nil {
		q.RateID = rate.ID
		q.ShippingFee = rate.ShippingFee
		if rate.FreeShippingThreshold.Valid && subtotal.GreaterThanOrEqual(rate.FreeShippingThreshold.Decimal) {
			q.ShippingFee = decimal.Zero
			q.FreeShipping = true
		}
	}
	q.TotalAmount = q.SubtotalAmount.Add(q.ShippingFee)
	return q, nil
}

func resolveRate(ctx context.Context, lines []Line, rates RateSource) (*models.ShippingRate, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var categoryIDs []string
	for _, l := range lines {
		if l.CategoryID == nil {
			continue
		}
		if _, ok := seen[*l.CategoryID]; ok {
			continue
		}
		seen[*l.CategoryID] = struct{}{}
		categoryIDs = append(categoryIDs, *l.CategoryID)
	}

	if len(categoryIDs) > 0 {
		found, err := rates.ActiveCategoryRates(ctx, categoryIDs)
		if err != nil {
			return nil, fmt.Errorf("category rates: %w", err)
		}
		if len(found) > 0 {
			sort.SliceStable(found, func(i, j int) bool {
				if c := found[i].ShippingFee.Cmp(found[j].ShippingFee); c != 0 {
					return c > 0
				}
				return *found[i].CategoryID < *found[j].CategoryID
			})
			return &found[0], nil
		}
	}

	rate, err := rates.ActiveDefaultRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("default rate: %w", err)
	}
	return rate, nil
}
