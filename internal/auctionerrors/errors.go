package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrRequestNotFound      = errors.New("balance request not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoBids               = errors.New("no bids found for product")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateCategory    = errors.New("category title already exists")
)

// Bid admission rejection reasons. ErrInvalidAmount must be checked before
// any monetary comparison so a NaN never reaches the other checks.
var (
	ErrInvalidAmount       = errors.New("bid amount is not a positive finite number")
	ErrAuctionNotStarted   = errors.New("auction has not started yet")
	ErrAuctionEnded        = errors.New("auction has ended")
	ErrAlreadySoldOut      = errors.New("product is already sold out")
	ErrNotVerified         = errors.New("product is not verified for bidding")
	ErrBelowMinimum        = errors.New("bid amount below required minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Business logic errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted")
	ErrProductHasBids     = errors.New("product already has bids")
	ErrBuyNowUnavailable  = errors.New("buy-now is not available for this product")
	ErrReserveNotMet      = errors.New("highest bid is below the reserve price")
	ErrRequestResolved    = errors.New("balance request already resolved")
)
