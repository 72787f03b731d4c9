package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/dukahub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockSessionRepository implements trading.StockSessionRepository using GORM
type GormStockSessionRepository struct {
	db *gorm.DB
}

// NewGormStockSessionRepository creates a new GormStockSessionRepository
func NewGormStockSessionRepository(db *gorm.DB) *GormStockSessionRepository {
	return &GormStockSessionRepository{db: db}
}

// FindByID finds a session by ID within a tenant
func (r *GormStockSessionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*trading.StockSession, error) {
	var model models.StockSessionModel
	if err := r.db.WithContext(ctx).
		Preload("SubSessions").
		Preload("Adjustments").
		Where("tenant_id = ?", tenantID).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds the session for a trading day, if any
func (r *GormStockSessionRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, tradingDate time.Time) (*trading.StockSession, error) {
	var model models.StockSessionModel
	if err := r.db.WithContext(ctx).
		Preload("SubSessions").
		Preload("Adjustments").
		Where("tenant_id = ? AND trading_date = ?", tenantID, identity.CanonicalDay(tradingDate)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpen finds the currently open session for a tenant, if any
func (r *GormStockSessionRepository) FindOpen(ctx context.Context, tenantID uuid.UUID) (*trading.StockSession, error) {
	var model models.StockSessionModel
	if err := r.db.WithContext(ctx).
		Preload("SubSessions").
		Preload("Adjustments").
		Where("tenant_id = ? AND status = ?", tenantID, trading.StockSessionStatusOpen).
		Order("trading_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds sessions for a tenant matching the filter
func (r *GormStockSessionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trading.StockSession, error) {
	var sessionModels []models.StockSessionModel
	query := r.db.WithContext(ctx).Model(&models.StockSessionModel{}).
		Where("tenant_id = ?", tenantID)

	sortField := ValidateSortField(filter.OrderBy, StockSessionSortFields, "trading_date")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]trading.StockSession, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = *sessionModels[i].ToDomain()
	}
	return sessions, nil
}

// Save creates or updates a session together with its sub-sessions and
// adjustments. The one-session-per-(tenant, trading date) invariant is
// enforced here; violating it returns shared.ErrSessionConflict.
func (r *GormStockSessionRepository) Save(ctx context.Context, session *trading.StockSession) error {
	model := models.StockSessionModelFromDomain(session)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Pre-check for a different session on the same day; the unique index
		// backs this up against concurrent writers
		var existingID uuid.UUID
		err := tx.Model(&models.StockSessionModel{}).
			Select("id").
			Where("tenant_id = ? AND trading_date = ? AND id <> ?", model.TenantID, model.TradingDate, model.ID).
			Take(&existingID).Error
		if err == nil {
			return shared.ErrSessionConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(model).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrSessionConflict
		}
		return err
	}
	return nil
}

// Count counts sessions for a tenant
func (r *GormStockSessionRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockSessionModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
