package persistence

import (
	"context"
	"testing"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSession(t *testing.T, tenantID uuid.UUID, tradingDate string) *trading.StockSession {
	t.Helper()

	opening := trading.StockSnapshot{
		{ProductID: uuid.New(), ProductCode: "SODA-500", ProductName: "Soda 500ml", Quantity: d("120"), UnitPrice: d("800")},
		{ProductID: uuid.New(), ProductCode: "MAJI-1L", ProductName: "Maji 1L", Quantity: d("60"), UnitPrice: d("1000")},
	}
	session, err := trading.NewStockSession(tenantID, day(tradingDate), uuid.New(), "Asha", opening)
	require.NoError(t, err)
	session.ClearDomainEvents()
	return session
}

func TestStockSessionRoundtrip(t *testing.T) {
	repo := NewGormStockSessionRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	session := openTestSession(t, tenantID, "2026-08-24")
	sub, err := session.OpenSubSession(uuid.New(), "Juma", session.OpeningSnapshot)
	require.NoError(t, err)
	_, err = session.RecordAdjustment(trading.AdjustmentRequest{
		SubSessionID: &sub.ID,
		ProductID:    session.OpeningSnapshot[0].ProductID,
		OldQuantity:  d("120"),
		NewQuantity:  d("118"),
		Type:         trading.AdjustmentTypeRemoval,
		AdjustedByID: uuid.New(),
		AdjustedBy:   "Juma",
		Notes:        "two bottles broken",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindByID(ctx, tenantID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, trading.StockSessionStatusOpen, found.Status)
	assert.True(t, found.OpeningStockValue.Equal(session.OpeningStockValue))
	require.Len(t, found.SubSessions, 1)
	assert.Equal(t, "Juma", found.SubSessions[0].OpenedByName)
	assert.Len(t, found.SubSessions[0].StockSnapshot, 2)
	require.Len(t, found.Adjustments, 1)
	assert.Equal(t, "two bottles broken", found.Adjustments[0].Notes)
}

func TestStockSessionFindOpen(t *testing.T) {
	repo := NewGormStockSessionRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	_, err := repo.FindOpen(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	session := openTestSession(t, tenantID, "2026-08-24")
	require.NoError(t, repo.Save(ctx, session))

	open, err := repo.FindOpen(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, open.ID)

	// Sessions of other tenants are invisible
	_, err = repo.FindOpen(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, session.Close(session.OpeningSnapshot, decimal.Zero, 0))
	session.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, session))

	_, err = repo.FindOpen(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStockSessionFindByDate(t *testing.T) {
	repo := NewGormStockSessionRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	session := openTestSession(t, tenantID, "2026-08-24")
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindByDate(ctx, tenantID, day("2026-08-24"))
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	_, err = repo.FindByDate(ctx, tenantID, day("2026-08-25"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStockSessionSaveRejectsSecondSessionForDay(t *testing.T) {
	repo := NewGormStockSessionRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	first := openTestSession(t, tenantID, "2026-08-24")
	require.NoError(t, repo.Save(ctx, first))

	second := openTestSession(t, tenantID, "2026-08-24")
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrSessionConflict)

	// Re-saving the existing session is an update, not a conflict
	require.NoError(t, first.Close(first.OpeningSnapshot, d("45000"), 12))
	first.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, first))

	found, err := repo.FindByID(ctx, tenantID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, trading.StockSessionStatusClosed, found.Status)
	assert.Equal(t, 12, found.TotalReceipts)

	// A different tenant may trade the same day
	other := openTestSession(t, uuid.New(), "2026-08-24")
	assert.NoError(t, repo.Save(ctx, other))
}

func TestStockSessionFindAll(t *testing.T) {
	repo := NewGormStockSessionRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	for _, date := range []string{"2026-08-22", "2026-08-23", "2026-08-24"} {
		session := openTestSession(t, tenantID, date)
		require.NoError(t, session.Close(session.OpeningSnapshot, decimal.Zero, 0))
		session.ClearDomainEvents()
		require.NoError(t, repo.Save(ctx, session))
	}

	sessions, err := repo.FindAll(ctx, tenantID, shared.Filter{OrderBy: "trading_date", OrderDir: "desc", Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].TradingDate.After(sessions[1].TradingDate))

	count, err := repo.Count(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
