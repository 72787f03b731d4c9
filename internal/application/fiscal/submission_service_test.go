package fiscal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukahub/backend/internal/domain/billing"
	"github.com/dukahub/backend/internal/domain/fiscal"
	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixedClock pins time for deterministic report dates
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindActive(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindFiscalEligible(ctx context.Context) ([]identity.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) ClaimZReportDate(ctx context.Context, tenantID uuid.UUID, day time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) ReleaseZReportDate(ctx context.Context, tenantID uuid.UUID, claimedDay time.Time, prior *time.Time, submissionErr string) error {
	args := m.Called(ctx, tenantID, claimedDay, prior, submissionErr)
	return args.Error(0)
}

func (m *MockTenantRepository) RecordZReportResult(ctx context.Context, tenantID uuid.UUID, day time.Time, globalCounter int64) error {
	args := m.Called(ctx, tenantID, day, globalCounter)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockReceiptRepository is a mock implementation of billing.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Receipt, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindActiveByIssueDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]billing.Receipt, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *billing.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

// MockGateway is a mock implementation of fiscal.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SubmitZReport(ctx context.Context, creds fiscal.Credentials, report *fiscal.ZReport) (*fiscal.SubmissionAck, error) {
	args := m.Called(ctx, creds, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiscal.SubmissionAck), args.Error(1)
}

// stubLocker is a TenantLocker that can simulate a held lock
type stubLocker struct {
	held     bool
	acquired int
	released int
}

func (l *stubLocker) Lock(ctx context.Context, tenantID uuid.UUID) (func(), error) {
	if l.held {
		return nil, ErrLockHeld
	}
	l.acquired++
	return func() { l.released++ }, nil
}

func verifiedTenant(t *testing.T, code string) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant(code, "Duka "+code)
	require.NoError(t, err)
	require.NoError(t, tenant.ConfigureFiscal("123456789", "10TZ"+code))
	require.NoError(t, tenant.MarkFiscalVerified())
	tenant.ClearDomainEvents()
	return tenant
}

func testClock() fixedClock {
	return fixedClock{now: time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)}
}

func yesterdayOf(c fixedClock) time.Time {
	return identity.CanonicalDay(c.now.AddDate(0, 0, -1))
}

func TestSubmitForTenant(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	day := yesterdayOf(clock)
	tenant := verifiedTenant(t, "KARIAKOO")

	tenantRepo := new(MockTenantRepository)
	receiptRepo := new(MockReceiptRepository)
	gateway := new(MockGateway)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("ClaimZReportDate", ctx, tenant.ID, day).Return(true, nil)
	receiptRepo.On("FindActiveByIssueDateRange", ctx, tenant.ID, day, mock.Anything).Return([]billing.Receipt{
		{ReceiptNumber: "RCP-001", Status: billing.ReceiptStatusActive, TotalAmount: decimal.NewFromInt(600), TaxAmount: decimal.NewFromInt(91)},
	}, nil)
	gateway.On("SubmitZReport", ctx, fiscal.Credentials{TIN: "123456789", VFDSerial: "10TZKARIAKOO"}, mock.AnythingOfType("*fiscal.ZReport")).
		Return(&fiscal.SubmissionAck{GlobalCounter: 42}, nil)
	tenantRepo.On("RecordZReportResult", ctx, tenant.ID, day, int64(42)).Return(nil)

	service := NewSubmissionService(tenantRepo, NewAggregationService(receiptRepo, clock), gateway, nil, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, SubmissionStatusSubmitted, result.Status)
	assert.Equal(t, int64(42), result.GlobalCounter)
	assert.Equal(t, day, result.ReportDate)
	assert.True(t, result.TotalSales.Equal(decimal.NewFromInt(600)))

	tenantRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestSubmitForTenantSkipsUnverified(t *testing.T) {
	ctx := context.Background()
	tenant, err := identity.NewTenant("MBEZI", "Duka Mbezi")
	require.NoError(t, err)

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	service := NewSubmissionService(tenantRepo, NewAggregationService(nil, testClock()), nil, nil, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, SubmissionStatusSkipped, result.Status)
	assert.Equal(t, "fiscal integration not verified", result.Reason)

	// Unverified tenants never reach the claim or the gateway
	tenantRepo.AssertNotCalled(t, "ClaimZReportDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitForTenantSkipsAlreadySubmitted(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	day := yesterdayOf(clock)
	tenant := verifiedTenant(t, "TEMEKE")
	tenant.RecordZReportSubmission(day, 7)

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	service := NewSubmissionService(tenantRepo, NewAggregationService(nil, clock), nil, nil, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, SubmissionStatusSkipped, result.Status)
	tenantRepo.AssertNotCalled(t, "ClaimZReportDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitForTenantSkipsWhenClaimLost(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	day := yesterdayOf(clock)
	tenant := verifiedTenant(t, "ILALA")

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("ClaimZReportDate", ctx, tenant.ID, day).Return(false, nil)

	service := NewSubmissionService(tenantRepo, NewAggregationService(nil, clock), nil, nil, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, SubmissionStatusSkipped, result.Status)
}

func TestSubmitForTenantReleasesClaimOnGatewayFailure(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	day := yesterdayOf(clock)
	tenant := verifiedTenant(t, "KINONDONI")

	tenantRepo := new(MockTenantRepository)
	receiptRepo := new(MockReceiptRepository)
	gateway := new(MockGateway)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("ClaimZReportDate", ctx, tenant.ID, day).Return(true, nil)
	receiptRepo.On("FindActiveByIssueDateRange", ctx, tenant.ID, day, mock.Anything).Return([]billing.Receipt{}, nil)
	gateway.On("SubmitZReport", ctx, mock.Anything, mock.Anything).Return(nil, fiscal.ErrUnavailable)
	tenantRepo.On("ReleaseZReportDate", ctx, tenant.ID, day, (*time.Time)(nil), fiscal.ErrUnavailable.Error()).Return(nil)

	service := NewSubmissionService(tenantRepo, NewAggregationService(receiptRepo, clock), gateway, nil, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.Error(t, err)
	assert.Equal(t, SubmissionStatusFailed, result.Status)

	tenantRepo.AssertExpectations(t)
}

func TestSubmitForTenantReportsFailedClaimRelease(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	day := yesterdayOf(clock)
	tenant := verifiedTenant(t, "MAGOMENI")

	tenantRepo := new(MockTenantRepository)
	receiptRepo := new(MockReceiptRepository)
	gateway := new(MockGateway)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("ClaimZReportDate", ctx, tenant.ID, day).Return(true, nil)
	receiptRepo.On("FindActiveByIssueDateRange", ctx, tenant.ID, day, mock.Anything).Return([]billing.Receipt{}, nil)
	gateway.On("SubmitZReport", ctx, mock.Anything, mock.Anything).Return(nil, fiscal.ErrUnavailable)
	tenantRepo.On("ReleaseZReportDate", ctx, tenant.ID, day, (*time.Time)(nil), fiscal.ErrUnavailable.Error()).
		Return(errors.New("db connection lost"))

	service := NewSubmissionService(tenantRepo, NewAggregationService(receiptRepo, clock), gateway, nil, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.Error(t, err)
	assert.Equal(t, SubmissionStatusFailed, result.Status)

	// The claim is stuck on the failed day; the reason must carry both the
	// gateway error and the rollback failure
	assert.Contains(t, result.Reason, fiscal.ErrUnavailable.Error())
	assert.Contains(t, result.Reason, "db connection lost")

	tenantRepo.AssertExpectations(t)
}

func TestSubmitForTenantSkipsWhenLockHeld(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	tenant := verifiedTenant(t, "MWENGE")

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	locker := &stubLocker{held: true}
	service := NewSubmissionService(tenantRepo, NewAggregationService(nil, clock), nil, locker, nil)

	result, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, SubmissionStatusSkipped, result.Status)
	assert.Equal(t, "submission already in progress", result.Reason)
	tenantRepo.AssertNotCalled(t, "ClaimZReportDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitForTenantReleasesLock(t *testing.T) {
	ctx := context.Background()
	clock := testClock()
	day := yesterdayOf(clock)
	tenant := verifiedTenant(t, "UBUNGO")

	tenantRepo := new(MockTenantRepository)
	receiptRepo := new(MockReceiptRepository)
	gateway := new(MockGateway)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("ClaimZReportDate", ctx, tenant.ID, day).Return(true, nil)
	receiptRepo.On("FindActiveByIssueDateRange", ctx, tenant.ID, day, mock.Anything).Return([]billing.Receipt{}, nil)
	gateway.On("SubmitZReport", ctx, mock.Anything, mock.Anything).Return(&fiscal.SubmissionAck{GlobalCounter: 1}, nil)
	tenantRepo.On("RecordZReportResult", ctx, tenant.ID, day, int64(1)).Return(nil)

	locker := &stubLocker{}
	service := NewSubmissionService(tenantRepo, NewAggregationService(receiptRepo, clock), gateway, locker, nil)

	_, err := service.SubmitForTenant(ctx, tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, locker.acquired)
	assert.Equal(t, 1, locker.released)
}
