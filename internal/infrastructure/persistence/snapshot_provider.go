package persistence

import (
	"context"

	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/dukahub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockSnapshotProvider values a tenant's inventory from the
// inventory_items table. The provider is a pure read; session opening and
// closing snapshot through it without touching stock levels.
type GormStockSnapshotProvider struct {
	db *gorm.DB
}

// NewGormStockSnapshotProvider creates a new GormStockSnapshotProvider
func NewGormStockSnapshotProvider(db *gorm.DB) *GormStockSnapshotProvider {
	return &GormStockSnapshotProvider{db: db}
}

// CurrentSnapshot reads the tenant's stock positions ordered by product code
// so repeated snapshots of unchanged stock compare equal line by line.
func (p *GormStockSnapshotProvider) CurrentSnapshot(ctx context.Context, tenantID uuid.UUID) (trading.StockSnapshot, error) {
	var items []models.InventoryItemModel
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("product_code ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	snapshot := make(trading.StockSnapshot, len(items))
	for i, item := range items {
		snapshot[i] = trading.SnapshotLine{
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return snapshot, nil
}
