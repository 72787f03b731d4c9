package persistence

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/dukahub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database migrated with all models.
// Each test gets its own named database so parallel tests cannot interfere.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.TenantModel{},
		&models.StockSessionModel{},
		&models.SubSessionModel{},
		&models.StockAdjustmentModel{},
		&models.DailySummaryModel{},
		&models.ReceiptModel{},
		&models.ReceiptItemModel{},
		&models.InventoryItemModel{},
	))
	return db
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return identity.CanonicalDay(parsed)
}

// newVerifiedTenant builds a tenant with verified fiscal credentials
func newVerifiedTenant(t *testing.T, code string) *identity.Tenant {
	t.Helper()

	tenant, err := identity.NewTenant(code, "Duka "+code)
	require.NoError(t, err)
	require.NoError(t, tenant.ConfigureFiscal("123456789", "10TZ"+code))
	require.NoError(t, tenant.MarkFiscalVerified())
	tenant.ClearDomainEvents()
	return tenant
}
