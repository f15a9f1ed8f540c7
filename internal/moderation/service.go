package moderation

import (
	"errors"
	"fmt"

	"ms-marketplace/internal/models"
)

type DBLayer interface {
	CreateReport(report models.Report) (*models.Report, error)
	GetReportByID(id int64) (*models.Report, error)
	ListReports() ([]models.Report, error)
	SetReportVerified(id int64, verified bool) error
	CreateDispute(dispute models.Dispute) (*models.Dispute, error)
	GetDisputeByReport(reportID int64) (*models.Dispute, error)
}

type KafkaPublisher interface {
	PublishReportFiled(topic string, report models.Report) error
}

type ModerationService struct {
	DB            DBLayer
	Kafka         KafkaPublisher
	FiledTopic    string
	DisputedTopic string
}

func NewModerationService(db DBLayer, kafka KafkaPublisher, filedTopic, disputedTopic string) *ModerationService {
	return &ModerationService{DB: db, Kafka: kafka, FiledTopic: filedTopic, DisputedTopic: disputedTopic}
}

func (s *ModerationService) FileReport(report models.Report) (*models.Report, error) {
	if report.Reason == "" {
		return nil, errors.New("report reason is required")
	}
	if report.UserID == report.ReportedUserID {
		return nil, errors.New("cannot report yourself")
	}

	// New reports always start unresolved.
	report.Verified = false
	report.Disputed = false

	filed, err := s.DB.CreateReport(report)
	if err != nil {
		return nil, err
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishReportFiled(s.FiledTopic, *filed); err != nil {
			fmt.Printf("Kafka publish error (report filed): %v\n", err)
		}
	}

	return filed, nil
}

func (s *ModerationService) GetReport(id int64) (*models.Report, error) {
	report, err := s.DB.GetReportByID(id)
	if err != nil {
		return nil, fmt.Errorf("report %d not found: %w", id, err)
	}
	return report, nil
}

func (s *ModerationService) ListReports() ([]models.Report, error) {
	return s.DB.ListReports()
}

// VerifyReport is the moderator action confirming a report checks out.
func (s *ModerationService) VerifyReport(id int64) error {
	if err := s.DB.SetReportVerified(id, true); err != nil {
		return fmt.Errorf("failed to verify report %d: %w", id, err)
	}
	return nil
}

// DisputeReport records the reported party's explanation. At most one dispute
// per report; the store enforces it.
func (s *ModerationService) DisputeReport(reportID int64, userID, explanation string) (*models.Dispute, error) {
	if explanation == "" {
		return nil, errors.New("dispute explanation is required")
	}

	dispute, err := s.DB.CreateDispute(models.Dispute{
		ReportID:    reportID,
		UserID:      userID,
		Explanation: explanation,
	})
	if err != nil {
		return nil, err
	}

	if s.Kafka != nil {
		if report, err := s.DB.GetReportByID(reportID); err == nil {
			if err := s.Kafka.PublishReportFiled(s.DisputedTopic, *report); err != nil {
				fmt.Printf("Kafka publish error (report disputed): %v\n", err)
			}
		}
	}

	return dispute, nil
}

func (s *ModerationService) GetDispute(reportID int64) (*models.Dispute, error) {
	dispute, err := s.DB.GetDisputeByReport(reportID)
	if err != nil {
		return nil, fmt.Errorf("dispute for report %d not found: %w", reportID, err)
	}
	return dispute, nil
}
