package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tenants matching the filter
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	return r.findWhere(ctx, filter, nil)
}

// FindActive finds all active tenants
func (r *GormTenantRepository) FindActive(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	return r.findWhere(ctx, filter, map[string]any{"status": identity.TenantStatusActive})
}

// FindFiscalEligible finds active tenants whose fiscal integration is verified
func (r *GormTenantRepository) FindFiscalEligible(ctx context.Context) ([]identity.Tenant, error) {
	var tenantModels []models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", identity.TenantStatusActive).
		Where("fiscal_tra_verified = ?", true).
		Where("fiscal_tin <> '' AND fiscal_vfd_serial <> ''").
		Order("code ASC").
		Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	return toDomainTenants(tenantModels), nil
}

func (r *GormTenantRepository) findWhere(ctx context.Context, filter shared.Filter, conds map[string]any) ([]identity.Tenant, error) {
	var tenantModels []models.TenantModel
	query := r.db.WithContext(ctx).Model(&models.TenantModel{})

	for field, value := range conds {
		query = query.Where(field+" = ?", value)
	}
	if filter.Search != "" {
		keyword := "%" + strings.ToUpper(filter.Search) + "%"
		query = query.Where("UPPER(name) LIKE ? OR UPPER(code) LIKE ?", keyword, keyword)
	}

	sortField := ValidateSortField(filter.OrderBy, TenantSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	// PageSize 0 means unbounded; the daily batch iterates every tenant
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	return toDomainTenants(tenantModels), nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	return r.db.WithContext(ctx).Save(model).Error
}

// ClaimZReportDate atomically claims the report day for the tenant with a
// single conditional update. The claim wins only when no equal or later day
// has been recorded, so two submitters racing on the same day cannot both
// proceed.
func (r *GormTenantRepository) ClaimZReportDate(ctx context.Context, tenantID uuid.UUID, day time.Time) (bool, error) {
	day = identity.CanonicalDay(day)
	res := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", tenantID).
		Where("fiscal_last_zreport_date IS NULL OR fiscal_last_zreport_date < ?", day).
		Update("fiscal_last_zreport_date", day)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseZReportDate rolls a failed claim back to the pre-claim date and
// records the submission error. The restore only applies while the claimed
// day is still held, so a concurrent successful submission is never undone.
func (r *GormTenantRepository) ReleaseZReportDate(ctx context.Context, tenantID uuid.UUID, claimedDay time.Time, prior *time.Time, submissionErr string) error {
	claimedDay = identity.CanonicalDay(claimedDay)
	return r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", tenantID).
		Where("fiscal_last_zreport_date = ?", claimedDay).
		Updates(map[string]any{
			"fiscal_last_zreport_date":     prior,
			"fiscal_last_submission_error": submissionErr,
		}).Error
}

// RecordZReportResult persists the outcome of a successful submission
func (r *GormTenantRepository) RecordZReportResult(ctx context.Context, tenantID uuid.UUID, day time.Time, globalCounter int64) error {
	return r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", tenantID).
		Updates(map[string]any{
			"fiscal_last_zreport_date":      identity.CanonicalDay(day),
			"fiscal_current_global_counter": globalCounter,
			"fiscal_last_submission_error":  "",
		}).Error
}

// Delete deletes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.TenantModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tenants matching the filter
func (r *GormTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TenantModel{})
	if filter.Search != "" {
		keyword := "%" + strings.ToUpper(filter.Search) + "%"
		query = query.Where("UPPER(name) LIKE ? OR UPPER(code) LIKE ?", keyword, keyword)
	}
	err := query.Count(&count).Error
	return count, err
}

// ExistsByCode checks if a tenant with the given code exists
func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

func toDomainTenants(tenantModels []models.TenantModel) []identity.Tenant {
	tenants := make([]identity.Tenant, len(tenantModels))
	for i := range tenantModels {
		tenants[i] = *tenantModels[i].ToDomain()
	}
	return tenants
}
