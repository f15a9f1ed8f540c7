package moderation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/moderation"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateReport(report models.Report) (*models.Report, error) {
	args := m.Called(report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockDBLayer) GetReportByID(id int64) (*models.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockDBLayer) ListReports() ([]models.Report, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockDBLayer) SetReportVerified(id int64, verified bool) error {
	args := m.Called(id, verified)
	return args.Error(0)
}

func (m *MockDBLayer) CreateDispute(dispute models.Dispute) (*models.Dispute, error) {
	args := m.Called(dispute)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *MockDBLayer) GetDisputeByReport(reportID int64) (*models.Dispute, error) {
	args := m.Called(reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

type MockKafkaPublisher struct {
	mock.Mock
}

func (m *MockKafkaPublisher) PublishReportFiled(topic string, report models.Report) error {
	args := m.Called(topic, report)
	return args.Error(0)
}

func TestFileReportValidation(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := moderation.NewModerationService(mockDB, nil, "", "")

	_, err := svc.FileReport(models.Report{
		UserID:         "reporter",
		ReportedUserID: "seller",
		ListingID:      1,
	})
	assert.Error(t, err, "missing reason should fail")

	_, err = svc.FileReport(models.Report{
		UserID:         "reporter",
		ReportedUserID: "reporter",
		ListingID:      1,
		Reason:         "counterfeit",
	})
	assert.Error(t, err, "self-report should fail")

	mockDB.AssertNotCalled(t, "CreateReport", mock.Anything)
}

func TestFileReportResetsFlags(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockKafka := new(MockKafkaPublisher)
	svc := moderation.NewModerationService(mockDB, mockKafka, "marketplace.report.filed", "marketplace.report.disputed")

	filed := &models.Report{ID: 1, Reason: "counterfeit"}
	mockDB.On("CreateReport", mock.MatchedBy(func(r models.Report) bool {
		return !r.Verified && !r.Disputed
	})).Return(filed, nil)
	mockKafka.On("PublishReportFiled", "marketplace.report.filed", *filed).Return(nil)

	result, err := svc.FileReport(models.Report{
		UserID:         "reporter",
		ReportedUserID: "seller",
		ListingID:      1,
		Reason:         "counterfeit",
		Verified:       true,
		Disputed:       true,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.ID)
	mockDB.AssertExpectations(t)
	mockKafka.AssertExpectations(t)
}

func TestDisputeReportRequiresExplanation(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := moderation.NewModerationService(mockDB, nil, "", "")

	_, err := svc.DisputeReport(1, "seller", "")
	assert.Error(t, err)
	mockDB.AssertNotCalled(t, "CreateDispute", mock.Anything)
}

func TestDisputeReportPublishesDisputedReport(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockKafka := new(MockKafkaPublisher)
	svc := moderation.NewModerationService(mockDB, mockKafka, "marketplace.report.filed", "marketplace.report.disputed")

	dispute := &models.Dispute{ReportID: 1, UserID: "seller", Explanation: "genuine ticket"}
	disputed := &models.Report{ID: 1, Reason: "counterfeit", Disputed: true}
	mockDB.On("CreateDispute", mock.Anything).Return(dispute, nil)
	mockDB.On("GetReportByID", int64(1)).Return(disputed, nil)
	mockKafka.On("PublishReportFiled", "marketplace.report.disputed", *disputed).Return(nil)

	result, err := svc.DisputeReport(1, "seller", "genuine ticket")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.ReportID)
	mockKafka.AssertExpectations(t)
}

func TestDisputeReportConflict(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := moderation.NewModerationService(mockDB, nil, "", "")

	mockDB.On("CreateDispute", mock.Anything).Return(nil, errors.New("report already disputed"))

	_, err := svc.DisputeReport(1, "seller", "second attempt")
	assert.Error(t, err)
}
