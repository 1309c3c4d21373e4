package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"sitedesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockCacheService mocks the CacheService interface for testing
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetMaterial(ctx context.Context, materialID uuid.UUID) (*models.Material, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockCacheService) SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error {
	args := m.Called(ctx, material, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteMaterial(ctx context.Context, materialID uuid.UUID) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MockCacheService) GetUserAllocations(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AllocationView), args.Error(1)
}

func (m *MockCacheService) SetUserAllocations(ctx context.Context, userID uuid.UUID, allocations []*models.AllocationView, ttl time.Duration) error {
	args := m.Called(ctx, userID, allocations, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteUserAllocations(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAttachmentStore mocks the AttachmentStore interface for testing
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockAttachmentStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAttachmentStore) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MovementServiceTestSuite struct {
	suite.Suite
	dbMock     pgxmock.PgxPoolIface
	cache      *MockCacheService
	store      *MockAttachmentStore
	service    MovementService
	materialID uuid.UUID
	userID     uuid.UUID
	actorID    uuid.UUID
}

func (suite *MovementServiceTestSuite) SetupTest() {
	dbMock, err := pgxmock.NewPool()
	suite.Require().NoError(err)

	suite.dbMock = dbMock
	suite.cache = &MockCacheService{}
	suite.store = &MockAttachmentStore{}
	suite.service = NewMovementService(dbMock, NewAllocationService(dbMock, suite.cache), suite.store, suite.cache)
	suite.materialID = uuid.New()
	suite.userID = uuid.New()
	suite.actorID = uuid.New()
}

func (suite *MovementServiceTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.dbMock.ExpectationsWereMet())
	suite.cache.AssertExpectations(suite.T())
	suite.store.AssertExpectations(suite.T())
	suite.dbMock.Close()
}

func (suite *MovementServiceTestSuite) materialRows(quantity decimal.Decimal, active bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "unit", "current_quantity", "min_quantity", "price_per_unit", "supplier", "is_active", "created_at", "updated_at"}).
		AddRow(suite.materialID, "Cement M500", "kg", quantity, decimal.Zero, nil, nil, active, time.Now(), time.Now())
}

func (suite *MovementServiceTestSuite) allocationRows(id uuid.UUID, quantity decimal.Decimal) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "material_id", "quantity", "updated_at"}).
		AddRow(id, suite.userID, suite.materialID, quantity, time.Now())
}

func (suite *MovementServiceTestSuite) expectMaterialLock(rows *pgxmock.Rows) {
	suite.dbMock.ExpectQuery(regexp.QuoteMeta(`FROM materials WHERE id = $1 FOR UPDATE`)).
		WithArgs(suite.materialID).
		WillReturnRows(rows)
}

func (suite *MovementServiceTestSuite) TestRecord_AddIncreasesStock() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(100), true))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO warehouse_movements`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`SET current_quantity = $1, is_active = $2`)).
		WithArgs(pgxmock.AnyArg(), true, suite.materialID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.dbMock.ExpectCommit()

	suite.cache.On("DeleteMaterial", ctx, suite.materialID).Return(nil).Once()

	result, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(50),
		MovementType: models.MovementAdd,
		CreatedBy:    suite.actorID,
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Material.CurrentQuantity.Equal(decimal.NewFromInt(150)))
	assert.True(suite.T(), result.Material.IsActive)
	assert.Empty(suite.T(), result.Warning)
	assert.Equal(suite.T(), models.MovementAdd, result.Movement.MovementType)
}

func (suite *MovementServiceTestSuite) TestRecord_MoveCreatesAllocation() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(100), true))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO warehouse_movements`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`SET current_quantity = $1, is_active = $2`)).
		WithArgs(pgxmock.AnyArg(), true, suite.materialID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// No allocation exists yet, so the delta lazily creates one.
	suite.dbMock.ExpectQuery(regexp.QuoteMeta(`FROM user_material_allocations`)).
		WithArgs(suite.userID, suite.materialID).
		WillReturnError(pgx.ErrNoRows)
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_material_allocations`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectCommit()

	suite.cache.On("DeleteMaterial", ctx, suite.materialID).Return(nil).Once()
	suite.cache.On("DeleteUserAllocations", ctx, suite.userID).Return(nil).Once()

	result, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(40),
		MovementType: models.MovementMove,
		ToUserID:     &suite.userID,
		CreatedBy:    suite.actorID,
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Material.CurrentQuantity.Equal(decimal.NewFromInt(60)))
	assert.True(suite.T(), result.Material.IsActive)
}

func (suite *MovementServiceTestSuite) TestRecord_MoveInsufficientStock() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(10), true))
	suite.dbMock.ExpectRollback()

	_, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(40),
		MovementType: models.MovementMove,
		ToUserID:     &suite.userID,
		CreatedBy:    suite.actorID,
	})

	var stockErr *InsufficientStockError
	assert.ErrorAs(suite.T(), err, &stockErr)
	assert.True(suite.T(), stockErr.Available.Equal(decimal.NewFromInt(10)))
	assert.True(suite.T(), stockErr.Requested.Equal(decimal.NewFromInt(40)))
}

func (suite *MovementServiceTestSuite) TestRecord_ReturnUpdatesAllocation() {
	ctx := context.Background()
	allocationID := uuid.New()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(100), true))
	// Sufficiency check reads the holder's allocation locked.
	suite.dbMock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(suite.userID, suite.materialID).
		WillReturnRows(suite.allocationRows(allocationID, decimal.NewFromInt(50)))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO warehouse_movements`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`SET current_quantity = $1, is_active = $2`)).
		WithArgs(pgxmock.AnyArg(), true, suite.materialID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// The delta re-reads the row locked and decrements it.
	suite.dbMock.ExpectQuery(regexp.QuoteMeta(`FROM user_material_allocations`)).
		WithArgs(suite.userID, suite.materialID).
		WillReturnRows(suite.allocationRows(allocationID, decimal.NewFromInt(50)))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE user_material_allocations`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.dbMock.ExpectCommit()

	suite.cache.On("DeleteMaterial", ctx, suite.materialID).Return(nil).Once()
	suite.cache.On("DeleteUserAllocations", ctx, suite.userID).Return(nil).Once()

	result, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(20),
		MovementType: models.MovementReturn,
		FromUserID:   &suite.userID,
		CreatedBy:    suite.actorID,
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Material.CurrentQuantity.Equal(decimal.NewFromInt(120)))
}

func (suite *MovementServiceTestSuite) TestRecord_ReturnWithoutAllocation() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(100), true))
	suite.dbMock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(suite.userID, suite.materialID).
		WillReturnError(pgx.ErrNoRows)
	suite.dbMock.ExpectRollback()

	_, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(5),
		MovementType: models.MovementReturn,
		FromUserID:   &suite.userID,
		CreatedBy:    suite.actorID,
	})

	var allocErr *InsufficientAllocationError
	assert.ErrorAs(suite.T(), err, &allocErr)
	assert.True(suite.T(), allocErr.Available.IsZero())
}

func (suite *MovementServiceTestSuite) TestRecord_WriteoffDepletionDeactivates() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(40), true))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO warehouse_movements`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`SET current_quantity = $1, is_active = $2`)).
		WithArgs(pgxmock.AnyArg(), false, suite.materialID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.dbMock.ExpectCommit()

	suite.cache.On("DeleteMaterial", ctx, suite.materialID).Return(nil).Once()

	result, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(40),
		MovementType: models.MovementWriteoff,
		CreatedBy:    suite.actorID,
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Material.CurrentQuantity.IsZero())
	assert.False(suite.T(), result.Material.IsActive)
}

func (suite *MovementServiceTestSuite) TestRecord_AddReactivatesWithWarning() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.Zero, false))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO warehouse_movements`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`SET current_quantity = $1, is_active = $2`)).
		WithArgs(pgxmock.AnyArg(), true, suite.materialID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.dbMock.ExpectCommit()

	suite.cache.On("DeleteMaterial", ctx, suite.materialID).Return(nil).Once()

	result, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(5),
		MovementType: models.MovementAdd,
		CreatedBy:    suite.actorID,
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Material.IsActive)
	assert.Contains(suite.T(), result.Warning, "restored to the active list")
}

func (suite *MovementServiceTestSuite) TestRecord_ValidationErrors() {
	ctx := context.Background()

	cases := []struct {
		name string
		req  *MovementRequest
	}{
		{"zero quantity", &MovementRequest{MaterialID: suite.materialID, Quantity: decimal.Zero, MovementType: models.MovementAdd}},
		{"negative quantity", &MovementRequest{MaterialID: suite.materialID, Quantity: decimal.NewFromInt(-3), MovementType: models.MovementAdd}},
		{"unknown type", &MovementRequest{MaterialID: suite.materialID, Quantity: decimal.NewFromInt(1), MovementType: "transfer"}},
		{"move without recipient", &MovementRequest{MaterialID: suite.materialID, Quantity: decimal.NewFromInt(1), MovementType: models.MovementMove}},
		{"return without sender", &MovementRequest{MaterialID: suite.materialID, Quantity: decimal.NewFromInt(1), MovementType: models.MovementReturn}},
	}

	for _, tc := range cases {
		_, err := suite.service.Record(ctx, tc.req)
		assert.ErrorIs(suite.T(), err, ErrInvalidInput, tc.name)
	}
}

func (suite *MovementServiceTestSuite) TestRecord_UnknownMaterial() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.dbMock.ExpectQuery(regexp.QuoteMeta(`FROM materials WHERE id = $1 FOR UPDATE`)).
		WithArgs(suite.materialID).
		WillReturnError(pgx.ErrNoRows)
	suite.dbMock.ExpectRollback()

	_, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(1),
		MovementType: models.MovementAdd,
		CreatedBy:    suite.actorID,
	})

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *MovementServiceTestSuite) TestRecord_AttachmentFailureRollsBack() {
	ctx := context.Background()

	suite.dbMock.ExpectBegin()
	suite.expectMaterialLock(suite.materialRows(decimal.NewFromInt(100), true))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO warehouse_movements`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.dbMock.ExpectExec(regexp.QuoteMeta(`SET current_quantity = $1, is_active = $2`)).
		WithArgs(pgxmock.AnyArg(), true, suite.materialID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.dbMock.ExpectRollback()

	suite.store.On("Upload", ctx, mock.Anything, mock.Anything, int64(3), "text/plain").
		Return(errors.New("storage unavailable")).Once()

	_, err := suite.service.Record(ctx, &MovementRequest{
		MaterialID:   suite.materialID,
		Quantity:     decimal.NewFromInt(10),
		MovementType: models.MovementAdd,
		CreatedBy:    suite.actorID,
		Attachment: &AttachmentUpload{
			FileName:    "delivery.txt",
			ContentType: "text/plain",
			Size:        3,
			Reader:      nil,
		},
	})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "upload attachment")
}

func TestMovementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MovementServiceTestSuite))
}

func TestNextVisibility(t *testing.T) {
	active, warning := nextVisibility(true, decimal.NewFromInt(5), models.MovementMove, "Cement")
	assert.True(t, active)
	assert.Empty(t, warning)

	active, warning = nextVisibility(true, decimal.Zero, models.MovementMove, "Cement")
	assert.False(t, active)
	assert.Empty(t, warning)

	active, warning = nextVisibility(false, decimal.NewFromInt(3), models.MovementAdd, "Cement")
	assert.True(t, active)
	assert.NotEmpty(t, warning)

	active, warning = nextVisibility(true, decimal.NewFromInt(3), models.MovementReturn, "Cement")
	assert.True(t, active)
	assert.Empty(t, warning)

	active, _ = nextVisibility(true, decimal.Zero, models.MovementWriteoff, "Cement")
	assert.False(t, active)
}
