package listings

import (
	"context"
	"errors"
	"fmt"

	"ms-marketplace/internal/models"
)

// RecentFeedSize matches the storefront page: the twelve newest listings.
const RecentFeedSize = 12

type DBLayer interface {
	CreateListing(listing models.Listing) (*models.Listing, error)
	UpdateListing(listing models.Listing) (*models.Listing, error)
	GetListingByID(id int64) (*models.Listing, error)
	ListListings() ([]models.Listing, error)
	ListListingsByEvent(eventID int64) ([]models.Listing, error)
	RecentListings(limit int) ([]models.Listing, error)
	UpdateListingStatus(id int64, status models.ListingStatus) error
	DeleteListing(id int64) error
}

type FeedCache interface {
	GetRecent(ctx context.Context) ([]models.Listing, bool)
	SetRecent(ctx context.Context, listings []models.Listing) error
	Invalidate(ctx context.Context) error
}

type KafkaPublisher interface {
	PublishListingCreated(topic string, listing models.Listing) error
}

type ListingService struct {
	DB           DBLayer
	Cache        FeedCache
	Kafka        KafkaPublisher
	CreatedTopic string
}

func NewListingService(db DBLayer, cache FeedCache, kafka KafkaPublisher, createdTopic string) *ListingService {
	return &ListingService{DB: db, Cache: cache, Kafka: kafka, CreatedTopic: createdTopic}
}

func (s *ListingService) CreateListing(listing models.Listing) (*models.Listing, error) {
	if listing.EventID == 0 {
		return nil, errors.New("listing event is required")
	}
	if listing.Price < 0 {
		return nil, errors.New("listing price cannot be negative")
	}
	if listing.Status == "" {
		listing.Status = models.ListingActive
	}
	if !listing.Status.Valid() {
		return nil, fmt.Errorf("unknown listing status %q", listing.Status)
	}

	created, err := s.DB.CreateListing(listing)
	if err != nil {
		return nil, err
	}

	s.invalidateFeed()

	if s.Kafka != nil {
		if err := s.Kafka.PublishListingCreated(s.CreatedTopic, *created); err != nil {
			fmt.Printf("Kafka publish error (listing created): %v\n", err)
		}
	}

	return created, nil
}

func (s *ListingService) UpdateListing(id int64, updateData models.Listing) (*models.Listing, error) {
	if updateData.Price < 0 {
		return nil, errors.New("listing price cannot be negative")
	}
	if updateData.Status != "" && !updateData.Status.Valid() {
		return nil, fmt.Errorf("unknown listing status %q", updateData.Status)
	}
	updateData.ID = id

	updated, err := s.DB.UpdateListing(updateData)
	if err != nil {
		return nil, err
	}

	s.invalidateFeed()
	return updated, nil
}

func (s *ListingService) GetListing(id int64) (*models.Listing, error) {
	listing, err := s.DB.GetListingByID(id)
	if err != nil {
		return nil, fmt.Errorf("listing %d not found: %w", id, err)
	}
	return listing, nil
}

func (s *ListingService) ListListings() ([]models.Listing, error) {
	return s.DB.ListListings()
}

func (s *ListingService) ListByEvent(eventID int64) ([]models.Listing, error) {
	return s.DB.ListListingsByEvent(eventID)
}

// RecentListings serves the storefront feed, preferring the Redis copy. The
// feed shows stored event snapshots, not live event state.
func (s *ListingService) RecentListings(ctx context.Context) ([]models.Listing, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.GetRecent(ctx); ok {
			return cached, nil
		}
	}

	listings, err := s.DB.RecentListings(RecentFeedSize)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetRecent(ctx, listings); err != nil {
			fmt.Printf("Failed to cache recent listings: %v\n", err)
		}
	}

	return listings, nil
}

func (s *ListingService) MarkSold(id int64) error {
	if err := s.DB.UpdateListingStatus(id, models.ListingSold); err != nil {
		return fmt.Errorf("failed to mark listing %d sold: %w", id, err)
	}
	s.invalidateFeed()
	return nil
}

func (s *ListingService) MarkExpired(id int64) error {
	if err := s.DB.UpdateListingStatus(id, models.ListingExpired); err != nil {
		return fmt.Errorf("failed to mark listing %d expired: %w", id, err)
	}
	s.invalidateFeed()
	return nil
}

func (s *ListingService) DeleteListing(id int64) error {
	if err := s.DB.DeleteListing(id); err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	s.invalidateFeed()
	return nil
}

func (s *ListingService) invalidateFeed() {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(context.Background()); err != nil {
		fmt.Printf("Failed to invalidate recent listings cache: %v\n", err)
	}
}
