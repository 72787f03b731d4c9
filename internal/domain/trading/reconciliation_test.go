package trading

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestValueOfGoodsSold(t *testing.T) {
	sold := []SoldLine{
		{ProductID: uuid.New(), QuantitySold: d("3"), UnitPrice: d("50")},
		{ProductID: uuid.New(), QuantitySold: d("2"), UnitPrice: d("75")},
	}
	assert.True(t, ValueOfGoodsSold(sold).Equal(d("300")))
	assert.True(t, ValueOfGoodsSold(nil).IsZero())
}

func TestVariance(t *testing.T) {
	tests := []struct {
		name    string
		opening string
		vogs    string
		closing string
		want    string
	}{
		{"shortfall", "1000", "300", "680", "-20"},
		{"exact", "1000", "300", "700", "0"},
		{"surplus from unrecorded returns", "1000", "300", "725.50", "25.5"},
		{"no sales", "500", "0", "500", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sold := []SoldLine{{QuantitySold: decimal.NewFromInt(1), UnitPrice: d(tt.vogs)}}
			got := Variance(d(tt.closing), d(tt.opening), ValueOfGoodsSold(sold))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestReconcile(t *testing.T) {
	sold := []SoldLine{
		{QuantitySold: d("10"), UnitPrice: d("30")},
	}
	rec := Reconcile(d("1000"), d("680"), sold)

	assert.True(t, rec.ValueOfGoodsSold.Equal(d("300")))
	assert.True(t, rec.ExpectedClosing.Equal(d("700")))
	assert.True(t, rec.Variance.Equal(d("-20")))
	assert.True(t, rec.OpeningValue.Equal(d("1000")))
	assert.True(t, rec.ClosingValue.Equal(d("680")))
}

func TestSnapshotValue(t *testing.T) {
	snap := StockSnapshot{
		{ProductID: uuid.New(), Quantity: d("4"), UnitPrice: d("25.25")},
		{ProductID: uuid.New(), Quantity: d("1"), UnitPrice: d("99")},
	}
	assert.True(t, snap.Value().Equal(d("200")))
	assert.True(t, StockSnapshot{}.Value().IsZero())
}
