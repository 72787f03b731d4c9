package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/dukahub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDailySummaryRepository implements trading.DailySummaryRepository using GORM
type GormDailySummaryRepository struct {
	db *gorm.DB
}

// NewGormDailySummaryRepository creates a new GormDailySummaryRepository
func NewGormDailySummaryRepository(db *gorm.DB) *GormDailySummaryRepository {
	return &GormDailySummaryRepository{db: db}
}

// FindBySessionID finds the summary for a session
func (r *GormDailySummaryRepository) FindBySessionID(ctx context.Context, tenantID, sessionID uuid.UUID) (*trading.DailySummary, error) {
	var model models.DailySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds the summary for a trading day
func (r *GormDailySummaryRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, tradingDate time.Time) (*trading.DailySummary, error) {
	var model models.DailySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND trading_date = ?", tenantID, identity.CanonicalDay(tradingDate)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a summary
func (r *GormDailySummaryRepository) Save(ctx context.Context, summary *trading.DailySummary) error {
	model := models.DailySummaryModelFromDomain(summary)
	return r.db.WithContext(ctx).Save(model).Error
}
