package events

import (
	"errors"
	"fmt"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"
)

type DBLayer interface {
	CreateEvent(event models.Event) (*models.Event, error)
	UpdateEvent(event models.Event) (*models.Event, error)
	GetEventByID(id int64) (*models.Event, error)
	GetEventBySlug(slug string) (*models.Event, error)
	ListEvents() ([]models.Event, error)
	DeleteEvent(id int64) error
}

type KafkaPublisher interface {
	PublishEventCreated(topic string, event models.Event) error
}

type EventService struct {
	DB           DBLayer
	Kafka        KafkaPublisher
	CreatedTopic string
}

func NewEventService(db DBLayer, kafka KafkaPublisher, createdTopic string) *EventService {
	return &EventService{DB: db, Kafka: kafka, CreatedTopic: createdTopic}
}

func (s *EventService) CreateEvent(event models.Event) (*models.Event, error) {
	if event.Name == "" {
		return nil, errors.New("event name is required")
	}
	if event.Date.IsZero() {
		return nil, errors.New("event date is required")
	}
	if event.Status == "" {
		event.Status = models.EventActive
	}
	if !event.Status.Valid() {
		return nil, fmt.Errorf("unknown event status %q", event.Status)
	}
	if event.Category == "" {
		event.Category = models.CategorySports
	}
	if !event.Category.Valid() {
		return nil, fmt.Errorf("unknown event category %q", event.Category)
	}
	event.Date = utils.DateOnly(event.Date)

	created, err := s.DB.CreateEvent(event)
	if err != nil {
		return nil, err
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishEventCreated(s.CreatedTopic, *created); err != nil {
			fmt.Printf("Kafka publish error (event created): %v\n", err)
		}
	}

	return created, nil
}

func (s *EventService) GetEvent(id int64) (*models.Event, error) {
	event, err := s.DB.GetEventByID(id)
	if err != nil {
		return nil, fmt.Errorf("event %d not found: %w", id, err)
	}
	return event, nil
}

func (s *EventService) GetEventBySlug(slug string) (*models.Event, error) {
	event, err := s.DB.GetEventBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("event %q not found: %w", slug, err)
	}
	return event, nil
}

func (s *EventService) ListEvents() ([]models.Event, error) {
	return s.DB.ListEvents()
}

// UpdateEvent rewrites mutable fields. Status and category omitted from the
// payload keep their stored values.
func (s *EventService) UpdateEvent(id int64, updateData models.Event) (*models.Event, error) {
	if updateData.Status != "" && !updateData.Status.Valid() {
		return nil, fmt.Errorf("unknown event status %q", updateData.Status)
	}
	if updateData.Category != "" && !updateData.Category.Valid() {
		return nil, fmt.Errorf("unknown event category %q", updateData.Category)
	}
	updateData.ID = id
	if !updateData.Date.IsZero() {
		updateData.Date = utils.DateOnly(updateData.Date)
	}
	return s.DB.UpdateEvent(updateData)
}

// DeleteEvent removes the event outright. Freed ids are never handed out
// again; listings pointing at the deleted event keep their snapshots but fail
// on their next save.
func (s *EventService) DeleteEvent(id int64) error {
	if err := s.DB.DeleteEvent(id); err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return nil
}

// CancelEvent flips the event to CANCELED. Existing listings keep their last
// saved snapshot until their own next save.
func (s *EventService) CancelEvent(id int64) error {
	event, err := s.DB.GetEventByID(id)
	if err != nil {
		return fmt.Errorf("event %d not found: %w", id, err)
	}

	event.Status = models.EventCanceled
	if _, err := s.DB.UpdateEvent(*event); err != nil {
		return fmt.Errorf("failed to cancel event %d: %w", id, err)
	}

	return nil
}
