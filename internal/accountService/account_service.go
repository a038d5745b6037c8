package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/keyvalue"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// AccountService defines the business logic for users, balance requests,
// notifications and favorites
type AccountService struct {
	users         repository.UserStore
	products      repository.ProductStore
	requests      repository.BalanceRequestStore
	notifications repository.NotificationStore
	favorites     keyvalue.Store
	jwt           *config.JWTConfig
	now           func() time.Time
}

// NewAccountService creates a new AccountService instance
func NewAccountService(
	users repository.UserStore,
	products repository.ProductStore,
	requests repository.BalanceRequestStore,
	notifications repository.NotificationStore,
	favorites keyvalue.Store,
	jwtCfg *config.JWTConfig,
) *AccountService {
	return &AccountService{
		users:         users,
		products:      products,
		requests:      requests,
		notifications: notifications,
		favorites:     favorites,
		jwt:           jwtCfg,
		now:           time.Now,
	}
}

// Register creates a new user account. Role defaults to buyer; admin
// accounts are seeded at startup, never self-registered.
func (s *AccountService) Register(username, email, password string, role models.Role) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 6 {
		return models.User{}, fmt.Errorf("service: %w - username, email and a password of 6+ chars required", auctionerrors.ErrInvalidInput)
	}
	if role == "" {
		role = models.RoleBuyer
	}
	if role == models.RoleAdmin {
		return models.User{}, fmt.Errorf("service: %w - cannot self-register as admin", auctionerrors.ErrForbidden)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}

	user := models.User{
		UserID:       utils.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.AddUser(user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to add user: %w", err)
	}
	return user, nil
}

// Login checks credentials and issues a session token
func (s *AccountService) Login(email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
		}
		return models.User{}, "", fmt.Errorf("service: failed to load user by email: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	token, err := auth.GenerateToken(s.jwt, user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to sign token: %w", err)
	}
	return user, token, nil
}

// Profile returns the user's own record, including the authoritative balance
func (s *AccountService) Profile(userID string) (models.User, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}
	return user, nil
}

// UpdateProfile changes the user's display name
func (s *AccountService) UpdateProfile(userID, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("service: %w - empty username", auctionerrors.ErrInvalidInput)
	}

	user, err := s.users.GetUser(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}

	user.Username = username
	if err := s.users.UpdateUser(user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// BecomeSeller upgrades a buyer account to a seller account
func (s *AccountService) BecomeSeller(userID string) (models.User, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}
	if user.Role == models.RoleAdmin {
		return models.User{}, fmt.Errorf("service: %w - admin accounts cannot become sellers", auctionerrors.ErrForbidden)
	}

	user.Role = models.RoleSeller
	if err := s.users.UpdateUser(user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// ListUsers returns all users (admin view)
func (s *AccountService) ListUsers() ([]models.User, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user account (admin)
func (s *AccountService) DeleteUser(userID string) error {
	if err := s.users.DeleteUser(userID); err != nil {
		return fmt.Errorf("service: failed to delete user %s: %w", userID, err)
	}
	return nil
}

// EstimatedIncome totals the marketplace commission over all settled
// products (admin)
func (s *AccountService) EstimatedIncome() (float64, error) {
	products, err := s.products.ListProducts()
	if err != nil {
		return 0, fmt.Errorf("service: failed to list products: %w", err)
	}

	total := decimal.Zero
	for _, p := range products {
		if !p.IsSoldout || p.FinalPrice <= 0 {
			continue
		}
		cut := decimal.NewFromFloat(p.FinalPrice).
			Mul(decimal.NewFromFloat(p.Commission)).
			Div(decimal.NewFromInt(100))
		total = total.Add(cut)
	}

	income, _ := total.Round(2).Float64()
	return income, nil
}

// SellerIncome totals a seller's proceeds, net of commission, over their
// settled products
func (s *AccountService) SellerIncome(sellerID string) (float64, error) {
	products, err := s.products.ListProductsBySeller(sellerID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to list products for seller %s: %w", sellerID, err)
	}

	total := decimal.Zero
	for _, p := range products {
		if !p.IsSoldout || p.FinalPrice <= 0 {
			continue
		}
		price := decimal.NewFromFloat(p.FinalPrice)
		cut := price.Mul(decimal.NewFromFloat(p.Commission)).Div(decimal.NewFromInt(100))
		total = total.Add(price.Sub(cut))
	}

	income, _ := total.Round(2).Float64()
	return income, nil
}

// BalanceRequestInput carries the user-submitted top-up fields
type BalanceRequestInput struct {
	Amount        float64
	PaymentMethod string
	TransactionID string
	Notes         string
	ProofURL      string
}

// SubmitBalanceRequest files a top-up request for admin review
func (s *AccountService) SubmitBalanceRequest(userID string, in BalanceRequestInput) (models.BalanceRequest, error) {
	if in.Amount <= 0 {
		return models.BalanceRequest{}, fmt.Errorf("service: %w - amount must be greater than 0", auctionerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(in.TransactionID) == "" {
		return models.BalanceRequest{}, fmt.Errorf("service: %w - transaction ID is required", auctionerrors.ErrInvalidInput)
	}
	if _, err := s.users.GetUser(userID); err != nil {
		return models.BalanceRequest{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}

	request := models.BalanceRequest{
		RequestID:     utils.GenerateID(),
		UserID:        userID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
		ProofURL:      in.ProofURL,
		Status:        models.BalanceRequestPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.requests.AddRequest(request); err != nil {
		return models.BalanceRequest{}, fmt.Errorf("service: failed to add balance request: %w", err)
	}
	return request, nil
}

// ListBalanceRequests returns all top-up requests (admin view)
func (s *AccountService) ListBalanceRequests() ([]models.BalanceRequest, error) {
	requests, err := s.requests.ListRequests()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list balance requests: %w", err)
	}
	return requests, nil
}

// MyBalanceRequests returns the caller's own top-up requests
func (s *AccountService) MyBalanceRequests(userID string) ([]models.BalanceRequest, error) {
	requests, err := s.requests.ListRequestsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list balance requests for user %s: %w", userID, err)
	}
	return requests, nil
}

// ResolveBalanceRequest approves or rejects a pending top-up request.
// Approval credits the user's balance; both outcomes notify the user.
func (s *AccountService) ResolveBalanceRequest(requestID string, approve bool, adminNote string) (models.BalanceRequest, error) {
	request, err := s.requests.GetRequest(requestID)
	if err != nil {
		return models.BalanceRequest{}, fmt.Errorf("service: failed to load balance request %s: %w", requestID, err)
	}
	if request.Status != models.BalanceRequestPending {
		return models.BalanceRequest{}, fmt.Errorf("service: %w", auctionerrors.ErrRequestResolved)
	}

	if approve {
		if _, err := s.users.AdjustBalance(request.UserID, request.Amount); err != nil {
			return models.BalanceRequest{}, fmt.Errorf("service: failed to credit user %s: %w", request.UserID, err)
		}
		request.Status = models.BalanceRequestApproved
	} else {
		request.Status = models.BalanceRequestRejected
	}
	request.AdminNote = adminNote
	request.ResolvedAt = s.now().UTC()

	if err := s.requests.UpdateRequest(request); err != nil {
		return models.BalanceRequest{}, fmt.Errorf("service: failed to update balance request %s: %w", requestID, err)
	}

	title := "Balance request approved"
	message := fmt.Sprintf("Your top-up of %.2f was approved", request.Amount)
	if !approve {
		title = "Balance request rejected"
		message = fmt.Sprintf("Your top-up of %.2f was rejected", request.Amount)
	}
	s.notify(request.UserID, title, message)

	return request, nil
}

// Notifications returns the user's notifications, newest first
func (s *AccountService) Notifications(userID string) ([]models.Notification, error) {
	notifications, err := s.notifications.ListNotificationsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// UnreadCount returns how many notifications the user has not read
func (s *AccountService) UnreadCount(userID string) (int, error) {
	count, err := s.notifications.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// MarkNotificationRead marks one notification as read
func (s *AccountService) MarkNotificationRead(userID, notificationID string) error {
	if err := s.notifications.MarkRead(userID, notificationID); err != nil {
		return fmt.Errorf("service: failed to mark notification %s read: %w", notificationID, err)
	}
	return nil
}

// MarkAllNotificationsRead marks all of the user's notifications as read
func (s *AccountService) MarkAllNotificationsRead(userID string) error {
	if err := s.notifications.MarkAllRead(userID); err != nil {
		return fmt.Errorf("service: failed to mark notifications read for user %s: %w", userID, err)
	}
	return nil
}

// ToggleFavorite adds the product to the user's favorites, or removes it if
// already present, and reports whether it is now a favorite
func (s *AccountService) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	if productID == "" {
		return false, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidInput)
	}

	favorites, err := s.loadFavorites(ctx, userID)
	if err != nil {
		return false, err
	}

	added := true
	next := favorites[:0:0]
	for _, id := range favorites {
		if id == productID {
			added = false
			continue
		}
		next = append(next, id)
	}
	if added {
		next = append(next, productID)
	}

	if err := s.storeFavorites(ctx, userID, next); err != nil {
		return false, err
	}
	return added, nil
}

// Favorites returns the user's favorite product IDs
func (s *AccountService) Favorites(ctx context.Context, userID string) ([]string, error) {
	favorites, err := s.loadFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []string{}
	}
	return favorites, nil
}

// ClearFavorites removes all of the user's favorites
func (s *AccountService) ClearFavorites(ctx context.Context, userID string) error {
	if err := s.favorites.Delete(ctx, favoritesKey(userID)); err != nil {
		return fmt.Errorf("service: failed to clear favorites for user %s: %w", userID, err)
	}
	return nil
}

func (s *AccountService) loadFavorites(ctx context.Context, userID string) ([]string, error) {
	raw, err := s.favorites.Get(ctx, favoritesKey(userID))
	if errors.Is(err, keyvalue.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to load favorites for user %s: %w", userID, err)
	}

	var favorites []string
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		return nil, fmt.Errorf("service: corrupt favorites for user %s: %w", userID, err)
	}
	return favorites, nil
}

func (s *AccountService) storeFavorites(ctx context.Context, userID string, favorites []string) error {
	raw, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("service: failed to encode favorites for user %s: %w", userID, err)
	}
	if err := s.favorites.Set(ctx, favoritesKey(userID), string(raw)); err != nil {
		return fmt.Errorf("service: failed to store favorites for user %s: %w", userID, err)
	}
	return nil
}

func favoritesKey(userID string) string {
	return "favorites:" + userID
}

func (s *AccountService) notify(userID, title, message string) {
	err := s.notifications.AddNotification(models.Notification{
		NotificationID: utils.GenerateID(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		utils.Warn("notify: failed to store notification", map[string]any{
			"user_id": userID,
			"title":   title,
			"error":   err.Error(),
		})
	}
}
