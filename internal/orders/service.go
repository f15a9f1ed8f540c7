package orders

import (
	"errors"
	"fmt"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"
)

type DBLayer interface {
	PlaceOrder(order models.Order, items []models.OrderItem) (*models.OrderWithItems, error)
	GetOrderByID(id int64) (*models.Order, error)
	GetOrderWithItems(id int64) (*models.OrderWithItems, error)
	ListOrdersByUser(userID string) ([]models.Order, error)
	ListOrders() ([]models.Order, error)
}

type ListingMarker interface {
	MarkSold(id int64) error
}

type KafkaPublisher interface {
	PublishOrderCreated(topic string, order models.Order) error
}

type OrderService struct {
	DB           DBLayer
	Listings     ListingMarker
	Kafka        KafkaPublisher
	CreatedTopic string
}

func NewOrderService(db DBLayer, listings ListingMarker, kafka KafkaPublisher, createdTopic string) *OrderService {
	return &OrderService{DB: db, Listings: listings, Kafka: kafka, CreatedTopic: createdTopic}
}

// PlaceOrder persists the checkout as a unit: the header and every line item
// commit together or not at all. Line items are frozen point-of-sale
// snapshots; once written they are never touched again.
func (s *OrderService) PlaceOrder(userID string, req models.OrderRequest) (*models.OrderWithItems, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order must contain at least one line item")
	}
	if req.Email == "" {
		return nil, errors.New("buyer email is required")
	}

	order := models.Order{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Cost:        req.Cost,
		StripeToken: req.StripeToken,
	}

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		if item.ListingID == 0 {
			return nil, fmt.Errorf("line item %d is missing its listing", i)
		}
		item.Date = utils.DateOnly(item.Date)
		items[i] = item
	}

	placed, err := s.DB.PlaceOrder(order, items)
	if err != nil {
		return nil, err
	}

	// Checkout takes the listings off the market. A failure here leaves the
	// listing ACTIVE; a follow-up save corrects it.
	if s.Listings != nil {
		for _, item := range placed.Items {
			if err := s.Listings.MarkSold(item.ListingID); err != nil {
				fmt.Printf("Failed to mark listing %d sold: %v\n", item.ListingID, err)
			}
		}
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishOrderCreated(s.CreatedTopic, placed.Order); err != nil {
			fmt.Printf("Kafka publish error (order created): %v\n", err)
		}
	}

	return placed, nil
}

func (s *OrderService) GetOrder(id int64) (*models.OrderWithItems, error) {
	order, err := s.DB.GetOrderWithItems(id)
	if err != nil {
		return nil, fmt.Errorf("order %d not found: %w", id, err)
	}
	return order, nil
}

func (s *OrderService) ListOrdersByUser(userID string) ([]models.Order, error) {
	return s.DB.ListOrdersByUser(userID)
}

func (s *OrderService) ListOrders() ([]models.Order, error) {
	return s.DB.ListOrders()
}
