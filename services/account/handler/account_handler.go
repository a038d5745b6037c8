package handler

import (
	"context"
	"fmt"
	"net/http"

	account "auction-marketplace/internal/accountService"
	"auction-marketplace/internal/auth"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type AccountServiceInterface interface {
	Register(username, email, password string, role model.Role) (model.User, error)
	Login(email, password string) (model.User, string, error)
	Profile(userID string) (model.User, error)
	UpdateProfile(userID, username string) (model.User, error)
	BecomeSeller(userID string) (model.User, error)
	ListUsers() ([]model.User, error)
	DeleteUser(userID string) error
	EstimatedIncome() (float64, error)
	SellerIncome(sellerID string) (float64, error)
	SubmitBalanceRequest(userID string, in account.BalanceRequestInput) (model.BalanceRequest, error)
	ListBalanceRequests() ([]model.BalanceRequest, error)
	MyBalanceRequests(userID string) ([]model.BalanceRequest, error)
	ResolveBalanceRequest(requestID string, approve bool, adminNote string) (model.BalanceRequest, error)
	Notifications(userID string) ([]model.Notification, error)
	UnreadCount(userID string) (int, error)
	MarkNotificationRead(userID, notificationID string) error
	MarkAllNotificationsRead(userID string) error
	ToggleFavorite(ctx context.Context, userID, productID string) (bool, error)
	Favorites(ctx context.Context, userID string) ([]string, error)
	ClearFavorites(ctx context.Context, userID string) error
}

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterHandler handles POST /users/register
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(req.Username, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("RegisterHandler: failed to register user", map[string]any{"email": req.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, user, "user registered successfully")
	helpers.LogSuccess("RegisterHandler", "user registered successfully", map[string]any{
		"user_id": user.UserID,
		"role":    user.Role,
	})
}

// LoginHandler handles POST /users/login
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("LoginHandler: login failed", map[string]any{"email": req.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, LoginResponse{Token: token, User: user}, "login successful")
	helpers.LogSuccess("LoginHandler", "login successful", map[string]any{"user_id": user.UserID})
}

// LogoutHandler handles POST /users/logout. Sessions are stateless tokens,
// so logout is a client-side discard; the endpoint exists so clients have a
// uniform call to end a session.
func (h *AccountHandler) LogoutHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
}

// ProfileHandler handles GET /users/me
func (h *AccountHandler) ProfileHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	user, err := h.service.Profile(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ProfileHandler: failed to load profile", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, user, "profile retrieved successfully")
}

// UpdateProfileHandler handles PATCH /users/me
func (h *AccountHandler) UpdateProfileHandler(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProfileHandler", err)
		return
	}

	userID := c.GetString(auth.ContextUserID)
	user, err := h.service.UpdateProfile(userID, req.Username)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("UpdateProfileHandler: failed to update profile", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, user, "profile updated successfully")
}

// BecomeSellerHandler handles POST /users/seller
func (h *AccountHandler) BecomeSellerHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	user, err := h.service.BecomeSeller(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BecomeSellerHandler: failed to upgrade account", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, user, "account upgraded to seller")
	helpers.LogSuccess("BecomeSellerHandler", "account upgraded to seller", map[string]any{"user_id": user.UserID})
}

// SellerIncomeHandler handles GET /users/income
func (h *AccountHandler) SellerIncomeHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	income, err := h.service.SellerIncome(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SellerIncomeHandler: failed to compute income", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, IncomeResponse{Income: income}, "income retrieved successfully")
}

// ListUsersHandler handles GET /users (admin)
func (h *AccountHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListUsersHandler: failed to list users", map[string]any{"error": err.Error()})
		return
	}

	if users == nil {
		users = []model.User{}
	}
	utils.JSONResponse(c, http.StatusOK, users, "users retrieved successfully")
}

// EstimatedIncomeHandler handles GET /users/estimate-income (admin)
func (h *AccountHandler) EstimatedIncomeHandler(c *gin.Context) {
	income, err := h.service.EstimatedIncome()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("EstimatedIncomeHandler: failed to compute income", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, IncomeResponse{Income: income}, "estimated income retrieved successfully")
}

// DeleteUserHandler handles DELETE /users/:user_id (admin)
func (h *AccountHandler) DeleteUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.service.DeleteUser(userID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteUserHandler: failed to delete user", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "user deleted successfully")
	helpers.LogSuccess("DeleteUserHandler", "user deleted successfully", map[string]any{"user_id": userID})
}

// SubmitBalanceRequestHandler handles POST /balance-requests
func (h *AccountHandler) SubmitBalanceRequestHandler(c *gin.Context) {
	var req BalanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitBalanceRequestHandler", err)
		return
	}

	userID := c.GetString(auth.ContextUserID)
	request, err := h.service.SubmitBalanceRequest(userID, account.BalanceRequestInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
		ProofURL:      req.ProofURL,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SubmitBalanceRequestHandler: failed to submit request", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, request, "balance request submitted successfully")
	helpers.LogSuccess("SubmitBalanceRequestHandler", "balance request submitted successfully", map[string]any{
		"request_id": request.RequestID,
		"user_id":    userID,
		"amount":     request.Amount,
	})
}

// MyBalanceRequestsHandler handles GET /balance-requests/mine
func (h *AccountHandler) MyBalanceRequestsHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	requests, err := h.service.MyBalanceRequests(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MyBalanceRequestsHandler: failed to list requests", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if requests == nil {
		requests = []model.BalanceRequest{}
	}
	utils.JSONResponse(c, http.StatusOK, requests, "balance requests retrieved successfully")
}

// ListBalanceRequestsHandler handles GET /balance-requests (admin)
func (h *AccountHandler) ListBalanceRequestsHandler(c *gin.Context) {
	requests, err := h.service.ListBalanceRequests()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBalanceRequestsHandler: failed to list requests", map[string]any{"error": err.Error()})
		return
	}

	if requests == nil {
		requests = []model.BalanceRequest{}
	}
	utils.JSONResponse(c, http.StatusOK, requests, "balance requests retrieved successfully")
}

// ResolveBalanceRequestHandler handles PATCH /balance-requests/:request_id (admin)
func (h *AccountHandler) ResolveBalanceRequestHandler(c *gin.Context) {
	var req ResolveBalanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ResolveBalanceRequestHandler", err)
		return
	}

	requestID := c.Param("request_id")
	request, err := h.service.ResolveBalanceRequest(requestID, *req.Approve, req.AdminNote)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ResolveBalanceRequestHandler: failed to resolve request", map[string]any{"request_id": requestID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, request, "balance request resolved successfully")
	helpers.LogSuccess("ResolveBalanceRequestHandler", "balance request resolved successfully", map[string]any{
		"request_id": request.RequestID,
		"status":     request.Status,
	})
}

// NotificationsHandler handles GET /notifications
func (h *AccountHandler) NotificationsHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	notifications, err := h.service.Notifications(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("NotificationsHandler: failed to list notifications", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}
	utils.JSONResponse(c, http.StatusOK, notifications, "notifications retrieved successfully")
}

// UnreadCountHandler handles GET /notifications/unread-count
func (h *AccountHandler) UnreadCountHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	count, err := h.service.UnreadCount(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("UnreadCountHandler: failed to count notifications", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, UnreadCountResponse{Count: count}, "unread count retrieved successfully")
}

// MarkReadHandler handles PUT /notifications/:notification_id
func (h *AccountHandler) MarkReadHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	notificationID := c.Param("notification_id")
	if err := h.service.MarkNotificationRead(userID, notificationID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MarkReadHandler: failed to mark notification read", map[string]any{"notification_id": notificationID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "notification marked as read")
}

// MarkAllReadHandler handles PUT /notifications/read-all
func (h *AccountHandler) MarkAllReadHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	if err := h.service.MarkAllNotificationsRead(userID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MarkAllReadHandler: failed to mark notifications read", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "notifications marked as read")
}

// FavoritesHandler handles GET /favorites
func (h *AccountHandler) FavoritesHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	favorites, err := h.service.Favorites(c.Request.Context(), userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("FavoritesHandler: failed to load favorites", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, favorites, "favorites retrieved successfully")
}

// ToggleFavoriteHandler handles POST /favorites/:product_id
func (h *AccountHandler) ToggleFavoriteHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	productID := c.Param("product_id")
	favorite, err := h.service.ToggleFavorite(c.Request.Context(), userID, productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ToggleFavoriteHandler: failed to toggle favorite", map[string]any{"user_id": userID, "product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, FavoriteResponse{ProductID: productID, Favorite: favorite}, "favorites updated successfully")
}

// ClearFavoritesHandler handles DELETE /favorites
func (h *AccountHandler) ClearFavoritesHandler(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)
	if err := h.service.ClearFavorites(c.Request.Context(), userID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ClearFavoritesHandler: failed to clear favorites", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "favorites cleared successfully")
}
