package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitedesk/internal/models"
	"sitedesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockObjectRepository mocks the ObjectRepository interface for testing
type MockObjectRepository struct {
	mock.Mock
}

func (m *MockObjectRepository) Create(ctx context.Context, object *models.SiteObject) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}

func (m *MockObjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SiteObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteObject), args.Error(1)
}

func (m *MockObjectRepository) Update(ctx context.Context, object *models.SiteObject) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}

func (m *MockObjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockObjectRepository) List(ctx context.Context, limit, offset int) ([]*models.SiteObject, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.SiteObject), args.Error(1)
}

func (m *MockObjectRepository) ListActive(ctx context.Context) ([]*models.SiteObject, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.SiteObject), args.Error(1)
}

func (m *MockObjectRepository) CreateElement(ctx context.Context, element *models.SiteElement) error {
	args := m.Called(ctx, element)
	return args.Error(0)
}

func (m *MockObjectRepository) GetElementByID(ctx context.Context, id uuid.UUID) (*models.SiteElement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteElement), args.Error(1)
}

func (m *MockObjectRepository) UpdateElement(ctx context.Context, element *models.SiteElement) error {
	args := m.Called(ctx, element)
	return args.Error(0)
}

func (m *MockObjectRepository) DeleteElement(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockObjectRepository) ListElements(ctx context.Context, objectID uuid.UUID) ([]*models.SiteElement, error) {
	args := m.Called(ctx, objectID)
	return args.Get(0).([]*models.SiteElement), args.Error(1)
}

// MockPlannedWorkRepository mocks the PlannedWorkRepository interface for testing
type MockPlannedWorkRepository struct {
	mock.Mock
}

func (m *MockPlannedWorkRepository) Create(ctx context.Context, work *models.PlannedWork) error {
	args := m.Called(ctx, work)
	return args.Error(0)
}

func (m *MockPlannedWorkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PlannedWork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlannedWork), args.Error(1)
}

func (m *MockPlannedWorkRepository) Update(ctx context.Context, work *models.PlannedWork) error {
	args := m.Called(ctx, work)
	return args.Error(0)
}

func (m *MockPlannedWorkRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPlannedWorkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlannedWorkRepository) ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.PlannedWork, error) {
	args := m.Called(ctx, objectID, limit, offset)
	return args.Get(0).([]*models.PlannedWork), args.Error(1)
}

func (m *MockPlannedWorkRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlannedWorkRepository) CountsAsOf(ctx context.Context, objectID uuid.UUID, asOf time.Time) (repositories.WorkCounts, error) {
	args := m.Called(ctx, objectID, asOf)
	return args.Get(0).(repositories.WorkCounts), args.Error(1)
}

// MockDailyReportRepository mocks the DailyReportRepository interface for testing
type MockDailyReportRepository struct {
	mock.Mock
}

func (m *MockDailyReportRepository) Create(ctx context.Context, report *models.DailyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockDailyReportRepository) Exists(ctx context.Context, objectID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, objectID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockDailyReportRepository) EarliestDate(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockDailyReportRepository) List(ctx context.Context, limit, offset int) ([]*models.DailyReport, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.DailyReport), args.Error(1)
}

func (m *MockDailyReportRepository) ListByObject(ctx context.Context, objectID uuid.UUID, limit, offset int) ([]*models.DailyReport, error) {
	args := m.Called(ctx, objectID, limit, offset)
	return args.Get(0).([]*models.DailyReport), args.Error(1)
}

// MockSettingRepository mocks the SettingRepository interface for testing
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type ReportBackfillTestSuite struct {
	suite.Suite
	objects  *MockObjectRepository
	works    *MockPlannedWorkRepository
	reports  *MockDailyReportRepository
	settings *MockSettingRepository
	service  *ReportBackfillService
	today    time.Time
}

func (suite *ReportBackfillTestSuite) SetupTest() {
	suite.objects = &MockObjectRepository{}
	suite.works = &MockPlannedWorkRepository{}
	suite.reports = &MockDailyReportRepository{}
	suite.settings = &MockSettingRepository{}
	suite.service = NewReportBackfillService(suite.objects, suite.works, suite.reports, suite.settings)
	suite.today = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return time.Date(2026, 8, 31, 15, 42, 0, 0, time.UTC) }
}

func (suite *ReportBackfillTestSuite) TearDownTest() {
	suite.objects.AssertExpectations(suite.T())
	suite.works.AssertExpectations(suite.T())
	suite.reports.AssertExpectations(suite.T())
	suite.settings.AssertExpectations(suite.T())
}

func (suite *ReportBackfillTestSuite) activeObjects(n int) []*models.SiteObject {
	objects := make([]*models.SiteObject, 0, n)
	for i := 0; i < n; i++ {
		objects = append(objects, &models.SiteObject{ID: uuid.New(), Status: models.ObjectActive})
	}
	return objects
}

func (suite *ReportBackfillTestSuite) TestRun_ResumesFromCursor() {
	ctx := context.Background()
	objects := suite.activeObjects(1)

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("2026-08-29", nil).Once()
	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()

	// Two days to process: the 30th and the 31st.
	for _, day := range []time.Time{suite.today.AddDate(0, 0, -1), suite.today} {
		suite.reports.On("Exists", ctx, objects[0].ID, day).Return(false, nil).Once()
		suite.works.On("CountsAsOf", ctx, objects[0].ID, day).Return(repositories.WorkCounts{Planned: 2, Completed: 1}, nil).Once()
		suite.reports.On("Create", ctx, mock.MatchedBy(func(r *models.DailyReport) bool {
			return r.ObjectID == objects[0].ID && r.ReportDate.Equal(day) && r.PlannedCount == 2 && r.Status == models.ReportDraft
		})).Return(nil).Once()
	}

	suite.settings.On("Set", ctx, models.SettingReportsCursor, "2026-08-31").Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func (suite *ReportBackfillTestSuite) TestRun_NothingToDoWhenCursorIsToday() {
	ctx := context.Background()

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("2026-08-31", nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
	suite.objects.AssertNotCalled(suite.T(), "ListActive")
	suite.settings.AssertNotCalled(suite.T(), "Set")
}

func (suite *ReportBackfillTestSuite) TestRun_SecondRunCreatesNothing() {
	ctx := context.Background()
	objects := suite.activeObjects(1)

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("2026-08-30", nil).Once()
	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()
	suite.reports.On("Exists", ctx, objects[0].ID, suite.today).Return(true, nil).Once()
	suite.settings.On("Set", ctx, models.SettingReportsCursor, "2026-08-31").Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
	suite.reports.AssertNotCalled(suite.T(), "Create")
}

func (suite *ReportBackfillTestSuite) TestRun_NoCursorClampsToFourteenDays() {
	ctx := context.Background()
	objects := suite.activeObjects(1)
	earliest := suite.today.AddDate(0, 0, -30)

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("", nil).Once()
	suite.reports.On("EarliestDate", ctx).Return(&earliest, nil).Once()
	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()

	// 14 days back through today inclusive: 15 days, none missing.
	suite.reports.On("Exists", ctx, objects[0].ID, mock.AnythingOfType("time.Time")).Return(true, nil).Times(15)
	suite.settings.On("Set", ctx, models.SettingReportsCursor, "2026-08-31").Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func (suite *ReportBackfillTestSuite) TestRun_NoHistoryFallsBackToSevenDays() {
	ctx := context.Background()
	objects := suite.activeObjects(1)

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("", nil).Once()
	suite.reports.On("EarliestDate", ctx).Return(nil, nil).Once()
	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()

	// 7 days back through today inclusive: 8 days.
	suite.reports.On("Exists", ctx, objects[0].ID, mock.AnythingOfType("time.Time")).Return(true, nil).Times(8)
	suite.settings.On("Set", ctx, models.SettingReportsCursor, "2026-08-31").Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func (suite *ReportBackfillTestSuite) TestRun_ObjectFailureDoesNotStallOthers() {
	ctx := context.Background()
	objects := suite.activeObjects(2)

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("2026-08-30", nil).Once()
	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()

	suite.reports.On("Exists", ctx, objects[0].ID, suite.today).Return(false, nil).Once()
	suite.works.On("CountsAsOf", ctx, objects[0].ID, suite.today).
		Return(repositories.WorkCounts{}, errors.New("object gone sideways")).Once()

	suite.reports.On("Exists", ctx, objects[1].ID, suite.today).Return(false, nil).Once()
	suite.works.On("CountsAsOf", ctx, objects[1].ID, suite.today).Return(repositories.WorkCounts{Planned: 1}, nil).Once()
	suite.reports.On("Create", ctx, mock.MatchedBy(func(r *models.DailyReport) bool {
		return r.ObjectID == objects[1].ID
	})).Return(nil).Once()

	// The failed object is skipped, the run still finishes and advances.
	suite.settings.On("Set", ctx, models.SettingReportsCursor, "2026-08-31").Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func (suite *ReportBackfillTestSuite) TestRunStartup_CoversTwoDaysWithoutCursor() {
	ctx := context.Background()
	objects := suite.activeObjects(1)

	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()
	for _, day := range []time.Time{suite.today.AddDate(0, 0, -1), suite.today} {
		suite.reports.On("Exists", ctx, objects[0].ID, day).Return(true, nil).Once()
	}

	assert.NoError(suite.T(), suite.service.RunStartup(ctx))
	suite.settings.AssertNotCalled(suite.T(), "Get")
	suite.settings.AssertNotCalled(suite.T(), "Set")
}

func (suite *ReportBackfillTestSuite) TestRun_MalformedCursorFallsBack() {
	ctx := context.Background()
	objects := suite.activeObjects(1)

	suite.settings.On("Get", ctx, models.SettingReportsCursor).Return("yesterday-ish", nil).Once()
	suite.reports.On("EarliestDate", ctx).Return(nil, nil).Once()
	suite.objects.On("ListActive", ctx).Return(objects, nil).Once()
	suite.reports.On("Exists", ctx, objects[0].ID, mock.AnythingOfType("time.Time")).Return(true, nil).Times(8)
	suite.settings.On("Set", ctx, models.SettingReportsCursor, "2026-08-31").Return(nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func TestReportBackfillTestSuite(t *testing.T) {
	suite.Run(t, new(ReportBackfillTestSuite))
}
