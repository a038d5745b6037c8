package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, productID, userID string, amount float64, currency string) (model.Bid, error)
	BidHistory(productID string) ([]model.Bid, error)
	WinningBid(productID string) (model.Bid, error)
	BuyNow(productID, buyerID string) (model.Product, error)
	Sell(productID, sellerID string) (model.Product, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// PlaceBidHandler handles POST /bidding
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	userID := c.GetString(auth.ContextUserID)
	bid, err := h.service.PlaceBid(c.Request.Context(), req.ProductID, userID, req.Price, req.Currency)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"product_id": req.ProductID,
			"user_id":    userID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"user_id":    userID,
		"amount":     bid.Amount,
	})
}

// BidHistoryHandler handles GET /bidding/:product_id
func (h *BiddingHandler) BidHistoryHandler(c *gin.Context) {
	productID := c.Param("product_id")
	bids, err := h.service.BidHistory(productID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BidHistoryHandler: error retrieving bids", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("BidHistoryHandler", "bids retrieved successfully", map[string]any{
		"product_id": productID,
		"count":      len(bids),
	})
}

// WinningBidHandler handles GET /bidding/:product_id/winning
func (h *BiddingHandler) WinningBidHandler(c *gin.Context) {
	productID := c.Param("product_id")
	bid, err := h.service.WinningBid(productID)
	if err != nil {
		// For auction, winning bid not found -> 404
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("WinningBidHandler: no winning bid found", map[string]any{"product_id": productID})
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("WinningBidHandler: winning bid error", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("WinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
	})
}

// SellHandler handles POST /bidding/sell
func (h *BiddingHandler) SellHandler(c *gin.Context) {
	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SellHandler", err)
		return
	}

	sellerID := c.GetString(auth.ContextUserID)
	product, err := h.service.Sell(req.ProductID, sellerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SellHandler: failed to settle product", map[string]any{
			"product_id": req.ProductID,
			"seller_id":  sellerID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product sold successfully")
	helpers.LogSuccess("SellHandler", "product sold successfully", map[string]any{
		"product_id":  product.ProductID,
		"sold_to":     product.SoldTo,
		"final_price": product.FinalPrice,
	})
}

// BuyNowHandler handles POST /bidding/buy-now
func (h *BiddingHandler) BuyNowHandler(c *gin.Context) {
	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "BuyNowHandler", err)
		return
	}

	buyerID := c.GetString(auth.ContextUserID)
	product, err := h.service.BuyNow(req.ProductID, buyerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BuyNowHandler: failed to buy product", map[string]any{
			"product_id": req.ProductID,
			"buyer_id":   buyerID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product bought successfully")
	helpers.LogSuccess("BuyNowHandler", "product bought successfully", map[string]any{
		"product_id":  product.ProductID,
		"sold_to":     product.SoldTo,
		"final_price": product.FinalPrice,
	})
}

func bidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ProductID: bid.ProductID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		Currency:  bid.Currency,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}
