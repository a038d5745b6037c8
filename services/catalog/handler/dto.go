package handler

import "time"

// Request DTOs
type ProductRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	StartingPrice float64   `json:"starting_price" binding:"required,gt=0"`
	BuyNowPrice   float64   `json:"buy_now_price" binding:"gte=0"`
	ReservePrice  float64   `json:"reserve_price" binding:"gte=0"`
	BidIncrement  float64   `json:"bid_increment" binding:"gte=0"`
	Currency      string    `json:"currency" binding:"required"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	Images        []string  `json:"images"`
}

type VerifyProductRequest struct {
	Commission float64 `json:"commission" binding:"gte=0,lte=100"`
}

type CategoryRequest struct {
	Title string `json:"title" binding:"required"`
}
