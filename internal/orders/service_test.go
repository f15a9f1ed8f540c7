package orders_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/orders"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) PlaceOrder(order models.Order, items []models.OrderItem) (*models.OrderWithItems, error) {
	args := m.Called(order, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithItems), args.Error(1)
}

func (m *MockDBLayer) GetOrderByID(id int64) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) GetOrderWithItems(id int64) (*models.OrderWithItems, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithItems), args.Error(1)
}

func (m *MockDBLayer) ListOrdersByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) ListOrders() ([]models.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockListingMarker struct {
	mock.Mock
}

func (m *MockListingMarker) MarkSold(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockKafkaPublisher struct {
	mock.Mock
}

func (m *MockKafkaPublisher) PublishOrderCreated(topic string, order models.Order) error {
	args := m.Called(topic, order)
	return args.Error(0)
}

func validRequest() models.OrderRequest {
	return models.OrderRequest{
		FirstName: "Carol",
		LastName:  "Jones",
		Email:     "carol@example.com",
		Cost:      60,
		Items: []models.OrderItem{
			{ListingID: 1, Price: 30, SellerID: "seller"},
			{ListingID: 2, Price: 30, SellerID: "seller"},
		},
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := orders.NewOrderService(mockDB, nil, nil, "")

	req := validRequest()
	req.Items = nil
	_, err := svc.PlaceOrder("buyer", req)
	assert.Error(t, err, "empty order should fail")

	req = validRequest()
	req.Email = ""
	_, err = svc.PlaceOrder("buyer", req)
	assert.Error(t, err, "missing email should fail")

	req = validRequest()
	req.Items[1].ListingID = 0
	_, err = svc.PlaceOrder("buyer", req)
	assert.Error(t, err, "item without a listing should fail")

	mockDB.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrderMarksListingsSold(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockListings := new(MockListingMarker)
	mockKafka := new(MockKafkaPublisher)
	svc := orders.NewOrderService(mockDB, mockListings, mockKafka, "marketplace.order.created")

	placed := &models.OrderWithItems{
		Order: models.Order{ID: 10, UserID: "buyer", Email: "carol@example.com"},
		Items: []models.OrderItem{
			{OrderID: 10, ListingID: 1},
			{OrderID: 10, ListingID: 2},
		},
	}
	mockDB.On("PlaceOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.UserID == "buyer" && o.Email == "carol@example.com"
	}), mock.Anything).Return(placed, nil)
	mockListings.On("MarkSold", int64(1)).Return(nil)
	mockListings.On("MarkSold", int64(2)).Return(nil)
	mockKafka.On("PublishOrderCreated", "marketplace.order.created", placed.Order).Return(nil)

	result, err := svc.PlaceOrder("buyer", validRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.Order.ID)
	mockListings.AssertExpectations(t)
	mockKafka.AssertExpectations(t)
}

func TestPlaceOrderSurvivesMarkSoldFailure(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockListings := new(MockListingMarker)
	svc := orders.NewOrderService(mockDB, mockListings, nil, "")

	placed := &models.OrderWithItems{
		Order: models.Order{ID: 11},
		Items: []models.OrderItem{{OrderID: 11, ListingID: 1}},
	}
	mockDB.On("PlaceOrder", mock.Anything, mock.Anything).Return(placed, nil)
	mockListings.On("MarkSold", int64(1)).Return(errors.New("listing gone"))

	req := validRequest()
	req.Items = req.Items[:1]
	result, err := svc.PlaceOrder("buyer", req)

	assert.NoError(t, err, "the committed order stands even if the status flip fails")
	assert.Equal(t, int64(11), result.Order.ID)
}

func TestPlaceOrderDatabaseFailure(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockListings := new(MockListingMarker)
	svc := orders.NewOrderService(mockDB, mockListings, nil, "")

	mockDB.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, errors.New("listing 2 not found"))

	_, err := svc.PlaceOrder("buyer", validRequest())

	assert.Error(t, err)
	mockListings.AssertNotCalled(t, "MarkSold", mock.Anything)
}

func TestGetOrderNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := orders.NewOrderService(mockDB, nil, nil, "")

	mockDB.On("GetOrderWithItems", int64(404)).Return(nil, errors.New("no rows"))

	result, err := svc.GetOrder(404)
	assert.Error(t, err)
	assert.Nil(t, result)
}
