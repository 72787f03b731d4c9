package persistence

import (
	"context"
	"testing"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySummaryRoundtrip(t *testing.T) {
	repo := NewGormDailySummaryRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	session := openTestSession(t, tenantID, "2026-08-24")
	require.NoError(t, session.Close(session.OpeningSnapshot, d("45000"), 12))
	rec, err := session.Reconcile(nil)
	require.NoError(t, err)
	summary, err := trading.NewDailySummary(session, rec)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, summary))

	bySession, err := repo.FindBySessionID(ctx, tenantID, session.ID)
	require.NoError(t, err)
	assert.True(t, bySession.TotalRevenue.Equal(d("45000")))
	assert.Equal(t, 12, bySession.TotalReceipts)
	assert.True(t, bySession.Variance.Equal(summary.Variance))

	byDate, err := repo.FindByDate(ctx, tenantID, day("2026-08-24"))
	require.NoError(t, err)
	assert.Equal(t, summary.ID, byDate.ID)

	_, err = repo.FindByDate(ctx, tenantID, day("2026-08-25"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDailySummarySaveUpdatesPDFPath(t *testing.T) {
	repo := NewGormDailySummaryRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	session := openTestSession(t, tenantID, "2026-08-24")
	require.NoError(t, session.Close(session.OpeningSnapshot, d("0"), 0))
	rec, err := session.Reconcile(nil)
	require.NoError(t, err)
	summary, err := trading.NewDailySummary(session, rec)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, summary))

	summary.AttachPDF("reports/2026-08-24.pdf")
	require.NoError(t, repo.Save(ctx, summary))

	found, err := repo.FindBySessionID(ctx, tenantID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "reports/2026-08-24.pdf", found.PDFPath)
}
