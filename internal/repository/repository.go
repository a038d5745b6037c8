package repository

import (
	"sync"

	model "auction-marketplace/internal/models"
)

// ProductStore defines product persistence for the marketplace
type ProductStore interface {
	AddProduct(product model.Product) error
	GetProduct(productID string) (model.Product, error)
	ListProducts() ([]model.Product, error)
	ListProductsBySeller(sellerID string) ([]model.Product, error)
	ListWonProducts(userID string) ([]model.Product, error)
	UpdateProduct(product model.Product) error
	DeleteProduct(productID string) error
}

// BidStore defines bid persistence for the auction system
type BidStore interface {
	RecordBidForProduct(bid model.Bid) error
	GetBidsByProduct(productID string) ([]model.Bid, error)
	GetHighestBid(productID string) (model.Bid, error)
}

// UserStore defines user persistence. AdjustBalance applies a signed delta
// atomically and fails rather than driving a balance negative.
type UserStore interface {
	AddUser(user model.User) error
	GetUser(userID string) (model.User, error)
	GetUserByEmail(email string) (model.User, error)
	ListUsers() ([]model.User, error)
	UpdateUser(user model.User) error
	DeleteUser(userID string) error
	AdjustBalance(userID string, delta float64) (model.User, error)
}

// CategoryStore defines category persistence
type CategoryStore interface {
	AddCategory(category model.Category) error
	GetCategory(categoryID string) (model.Category, error)
	ListCategories() ([]model.Category, error)
	UpdateCategory(category model.Category) error
	DeleteCategory(categoryID string) error
}

// NotificationStore defines notification persistence
type NotificationStore interface {
	AddNotification(notification model.Notification) error
	ListNotificationsByUser(userID string) ([]model.Notification, error)
	CountUnread(userID string) (int, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
}

// BalanceRequestStore defines balance top-up request persistence
type BalanceRequestStore interface {
	AddRequest(request model.BalanceRequest) error
	GetRequest(requestID string) (model.BalanceRequest, error)
	ListRequests() ([]model.BalanceRequest, error)
	ListRequestsByUser(userID string) ([]model.BalanceRequest, error)
	UpdateRequest(request model.BalanceRequest) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of all stores
type MemoryRepo struct {
	mu            sync.RWMutex
	products      map[string]model.Product
	bids          map[string][]model.Bid // key: productID
	users         map[string]model.User
	categories    map[string]model.Category
	notifications map[string][]model.Notification // key: userID
	requests      map[string]model.BalanceRequest
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		products:      make(map[string]model.Product),
		bids:          make(map[string][]model.Bid),
		users:         make(map[string]model.User),
		categories:    make(map[string]model.Category),
		notifications: make(map[string][]model.Notification),
		requests:      make(map[string]model.BalanceRequest),
	}
}
