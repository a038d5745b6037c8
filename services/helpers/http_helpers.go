package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, auctionerrors.ErrRequestNotFound):
		return http.StatusNotFound, "balance request not found"
	case errors.Is(err, auctionerrors.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrInvalidAmount):
		return http.StatusBadRequest, "bid amount is not a valid number"
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, auctionerrors.ErrForbidden):
		return http.StatusForbidden, "operation not permitted"
	case errors.Is(err, auctionerrors.ErrAuctionNotStarted):
		return http.StatusConflict, "auction has not started yet"
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusConflict, "auction has ended"
	case errors.Is(err, auctionerrors.ErrAlreadySoldOut):
		return http.StatusConflict, "product is already sold out"
	case errors.Is(err, auctionerrors.ErrNotVerified):
		return http.StatusConflict, "product is not verified for bidding"
	case errors.Is(err, auctionerrors.ErrBelowMinimum):
		return http.StatusConflict, "bid amount below required minimum"
	case errors.Is(err, auctionerrors.ErrInsufficientBalance):
		return http.StatusConflict, "insufficient balance"
	case errors.Is(err, auctionerrors.ErrReserveNotMet):
		return http.StatusConflict, "highest bid is below the reserve price"
	case errors.Is(err, auctionerrors.ErrBuyNowUnavailable):
		return http.StatusConflict, "buy-now is not available for this product"
	case errors.Is(err, auctionerrors.ErrProductHasBids):
		return http.StatusConflict, "product already has bids"
	case errors.Is(err, auctionerrors.ErrRequestResolved):
		return http.StatusConflict, "balance request already resolved"
	case errors.Is(err, auctionerrors.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, auctionerrors.ErrDuplicateCategory):
		return http.StatusConflict, "category title already exists"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusOK, "no bids found for product"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
