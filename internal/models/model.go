package models

import "time"

// Role controls which routes a user may call
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User represents a marketplace participant. Balance is authoritative here
// and is only mutated through balance-request approval and settlements.
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Balance      float64   `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups products for browsing
type Category struct {
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product represents an auction listing. A product is created unverified and
// only becomes biddable once an admin verifies it and sets the commission.
type Product struct {
	ProductID     string    `json:"product_id"`
	SellerID      string    `json:"seller_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"` // category title
	StartingPrice float64   `json:"starting_price"`
	BuyNowPrice   float64   `json:"buy_now_price,omitempty"` // 0 = not offered
	ReservePrice  float64   `json:"reserve_price,omitempty"` // 0 = no reserve
	BidIncrement  float64   `json:"bid_increment,omitempty"` // 0 = any step above highest
	Currency      string    `json:"currency"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsSoldout     bool      `json:"is_soldout"`
	IsVerified    bool      `json:"is_verified"`
	Commission    float64   `json:"commission"` // percent, set at verification
	SoldTo        string    `json:"sold_to,omitempty"`
	FinalPrice    float64   `json:"final_price,omitempty"`
	Images        []string  `json:"images,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Bid represents a user's bid on a product. Amount is always stored in the
// product's native currency.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is delivered to users on auction events (outbid, sale,
// balance-request resolution). Polled by clients, never pushed.
type Notification struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ProductID      string    `json:"product_id,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// BalanceRequestStatus tracks the moderation state of a top-up request
type BalanceRequestStatus string

const (
	BalanceRequestPending  BalanceRequestStatus = "pending"
	BalanceRequestApproved BalanceRequestStatus = "approved"
	BalanceRequestRejected BalanceRequestStatus = "rejected"
)

// BalanceRequest is a user-submitted top-up request; an admin approves or
// rejects it, and approval credits the user's balance.
type BalanceRequest struct {
	RequestID     string               `json:"request_id"`
	UserID        string               `json:"user_id"`
	Amount        float64              `json:"amount"`
	PaymentMethod string               `json:"payment_method"`
	TransactionID string               `json:"transaction_id"`
	Notes         string               `json:"notes,omitempty"`
	ProofURL      string               `json:"proof_url,omitempty"`
	Status        BalanceRequestStatus `json:"status"`
	AdminNote     string               `json:"admin_note,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	ResolvedAt    time.Time            `json:"resolved_at,omitempty"`
}
