package trading

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SoldLine is one product's sales during a trading day, used to value the
// goods that left stock
type SoldLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// ValueOfGoodsSold sums unit price x quantity sold over the day's sold items
func ValueOfGoodsSold(sold []SoldLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range sold {
		total = total.Add(line.UnitPrice.Mul(line.QuantitySold))
	}
	return total
}

// ExpectedClosingValue is the stock value that should remain after sales
func ExpectedClosingValue(openingValue, valueOfGoodsSold decimal.Decimal) decimal.Decimal {
	return openingValue.Sub(valueOfGoodsSold)
}

// Variance is the signed difference between the counted closing value and the
// expected closing value. Positive means more stock value remains than
// expected (unrecorded returns, under-counted sales); negative means
// shrinkage or loss. The engine surfaces the value verbatim and does not
// classify it.
func Variance(closingValue, openingValue, valueOfGoodsSold decimal.Decimal) decimal.Decimal {
	return closingValue.Sub(ExpectedClosingValue(openingValue, valueOfGoodsSold))
}

// Reconciliation is the result of reconciling a closed session
type Reconciliation struct {
	OpeningValue     decimal.Decimal `json:"opening_value"`
	ClosingValue     decimal.Decimal `json:"closing_value"`
	ValueOfGoodsSold decimal.Decimal `json:"value_of_goods_sold"`
	ExpectedClosing  decimal.Decimal `json:"expected_closing"`
	Variance         decimal.Decimal `json:"variance"`
}

// Reconcile computes the full reconciliation for a closed session
func Reconcile(openingValue, closingValue decimal.Decimal, sold []SoldLine) Reconciliation {
	vogs := ValueOfGoodsSold(sold)
	return Reconciliation{
		OpeningValue:     openingValue,
		ClosingValue:     closingValue,
		ValueOfGoodsSold: vogs,
		ExpectedClosing:  ExpectedClosingValue(openingValue, vogs),
		Variance:         Variance(closingValue, openingValue, vogs),
	}
}
