package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OverdueSweepTestSuite struct {
	suite.Suite
	works   *MockPlannedWorkRepository
	service *OverdueSweepService
	today   time.Time
}

func (suite *OverdueSweepTestSuite) SetupTest() {
	suite.works = &MockPlannedWorkRepository{}
	suite.service = NewOverdueSweepService(suite.works)
	suite.today = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return time.Date(2026, 8, 31, 6, 15, 0, 0, time.UTC) }
}

func (suite *OverdueSweepTestSuite) TearDownTest() {
	suite.works.AssertExpectations(suite.T())
}

func (suite *OverdueSweepTestSuite) TestRun_MarksOverdueWithDayGranularity() {
	ctx := context.Background()

	suite.works.On("MarkOverdue", ctx, suite.today).Return(int64(3), nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func (suite *OverdueSweepTestSuite) TestRun_NoMatchesIsStillSuccess() {
	ctx := context.Background()

	suite.works.On("MarkOverdue", ctx, suite.today).Return(int64(0), nil).Once()

	assert.NoError(suite.T(), suite.service.Run(ctx))
}

func (suite *OverdueSweepTestSuite) TestRun_PropagatesErrors() {
	ctx := context.Background()

	suite.works.On("MarkOverdue", ctx, suite.today).Return(int64(0), errors.New("connection reset")).Once()

	assert.Error(suite.T(), suite.service.Run(ctx))
}

func TestOverdueSweepTestSuite(t *testing.T) {
	suite.Run(t, new(OverdueSweepTestSuite))
}
