package handler

// Request/Response DTOs
type PlaceBidRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Price     float64 `json:"price"` // validated by the admission check, not the binder
	Currency  string  `json:"currency"`
}

type SellRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type BuyNowRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ProductID string  `json:"product_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt string  `json:"created_at"`
}
