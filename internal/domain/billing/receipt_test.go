package billing

import (
	"testing"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptVoid(t *testing.T) {
	r := &Receipt{Status: ReceiptStatusActive}
	require.NoError(t, r.Void())
	assert.Equal(t, ReceiptStatusVoided, r.Status)

	assert.ErrorIs(t, r.Void(), shared.ErrInvalidState)
}

func TestReceiptStatusIsHonored(t *testing.T) {
	assert.True(t, ReceiptStatusActive.IsHonored())
	assert.False(t, ReceiptStatusVoided.IsHonored())
	assert.False(t, ReceiptStatusCancelled.IsHonored())
}

func TestCustomerLabel(t *testing.T) {
	assert.Equal(t, "Walk-in Customer", (&Receipt{}).CustomerLabel())
	assert.Equal(t, "Mama Ntilie", (&Receipt{CustomerName: "Mama Ntilie"}).CustomerLabel())
}
