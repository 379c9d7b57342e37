package domain

import "github.com/shopspring/decimal"

// TotalPaid sums the payment amounts applied against one IOU. Every
// aggregation in the codebase funnels through here so list, detail and
// payment views always agree on a balance.
func TotalPaid(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p == nil {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingBalance is the IOU amount minus all payments against it. The
// result is exact; rounding to 2 decimal places happens only for display.
func RemainingBalance(amount decimal.Decimal, payments []*Payment) decimal.Decimal {
	return amount.Sub(TotalPaid(payments))
}
