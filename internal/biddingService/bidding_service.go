package bidding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"auction-marketplace/internal/admission"
	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/lifecycle"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/rates"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"

	"github.com/shopspring/decimal"
)

// RateSource supplies the day's exchange-rate table. Implementations never
// fail; they degrade to a fallback table instead.
type RateSource interface {
	Daily(ctx context.Context, day time.Time) *rates.Table
}

// BiddingService defines the business logic for auction bidding and
// settlement
type BiddingService struct {
	products      repository.ProductStore
	bids          repository.BidStore
	users         repository.UserStore
	notifications repository.NotificationStore
	rates         RateSource
	now           func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(
	products repository.ProductStore,
	bids repository.BidStore,
	users repository.UserStore,
	notifications repository.NotificationStore,
	rateSource RateSource,
) *BiddingService {
	return &BiddingService{
		products:      products,
		bids:          bids,
		users:         users,
		notifications: notifications,
		rates:         rateSource,
		now:           time.Now,
	}
}

// PlaceBid validates a user's bid against the auction's current state and
// records it. The amount may be denominated in a currency other than the
// product's; it is converted through the day's rate table before the
// admission checks run. A rejected bid performs no writes.
func (s *BiddingService) PlaceBid(ctx context.Context, productID, userID string, amount float64, currency string) (models.Bid, error) {
	if productID == "" || userID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing productID or userID", auctionerrors.ErrInvalidInput)
	}

	product, err := s.products.GetProduct(productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}
	user, err := s.users.GetUser(userID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}

	highest, err := s.bids.GetHighestBid(productID)
	hasBids := err == nil
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		return models.Bid{}, fmt.Errorf("service: failed to check highest bid: %w", err)
	}

	var table *rates.Table
	if currency != "" && currency != product.Currency {
		table = s.rates.Daily(ctx, s.now())
	}

	native, err := admission.Check(admission.Input{
		Amount:     amount,
		Currency:   currency,
		Product:    product,
		Balance:    user.Balance,
		HighestBid: highest.Amount,
		HasBids:    hasBids,
		Now:        s.now(),
	}, table)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: bid rejected for product %s: %w", productID, err)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ProductID: productID,
		UserID:    userID,
		Amount:    native,
		Currency:  product.Currency,
		CreatedAt: s.now().UTC(),
	}

	if err := s.bids.RecordBidForProduct(bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for product %s by user %s: %w", productID, userID, err)
	}

	if hasBids && highest.UserID != userID {
		s.notify(highest.UserID, "You have been outbid", fmt.Sprintf("A higher bid of %.2f %s was placed on %q", native, product.Currency, product.Title), productID)
	}
	s.notify(product.SellerID, "New bid on your product", fmt.Sprintf("A bid of %.2f %s was placed on %q", native, product.Currency, product.Title), productID)

	return bid, nil
}

// BidHistory returns all bids for a product, newest first
func (s *BiddingService) BidHistory(productID string) ([]models.Bid, error) {
	if productID == "" {
		return nil, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidInput)
	}

	bids, err := s.bids.GetBidsByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for product %s: %w", productID, err)
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].CreatedAt.After(bids[j].CreatedAt)
	})
	return bids, nil
}

// WinningBid returns the highest bid for a product
func (s *BiddingService) WinningBid(productID string) (models.Bid, error) {
	if productID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidInput)
	}

	bid, err := s.bids.GetHighestBid(productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for product %s: %w", productID, err)
	}
	return bid, nil
}

// BuyNow settles a product immediately at its buy-now price, bypassing
// further bidding. The buyer's balance is debited and the seller credited
// net of commission.
func (s *BiddingService) BuyNow(productID, buyerID string) (models.Product, error) {
	if productID == "" || buyerID == "" {
		return models.Product{}, fmt.Errorf("service: %w - missing productID or buyerID", auctionerrors.ErrInvalidInput)
	}

	product, err := s.products.GetProduct(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}

	if product.IsSoldout {
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrAlreadySoldOut)
	}
	if !product.IsVerified {
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrNotVerified)
	}
	if product.BuyNowPrice <= 0 {
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrBuyNowUnavailable)
	}

	switch lifecycle.Evaluate(s.now(), product.StartDate, product.EndDate, product.IsSoldout).Phase {
	case lifecycle.PhaseUpcoming:
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionNotStarted)
	case lifecycle.PhaseEnded:
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionEnded)
	}

	sold, err := s.settle(product, buyerID, product.BuyNowPrice)
	if err != nil {
		return models.Product{}, err
	}

	s.notify(buyerID, "Purchase complete", fmt.Sprintf("You bought %q for %.2f %s", product.Title, product.BuyNowPrice, product.Currency), productID)
	s.notify(product.SellerID, "Product sold", fmt.Sprintf("%q was bought now for %.2f %s", product.Title, product.BuyNowPrice, product.Currency), productID)

	return sold, nil
}

// Sell settles a product to its current highest bidder, initiated by the
// seller. A reserve price, when set, gates settlement.
func (s *BiddingService) Sell(productID, sellerID string) (models.Product, error) {
	if productID == "" || sellerID == "" {
		return models.Product{}, fmt.Errorf("service: %w - missing productID or sellerID", auctionerrors.ErrInvalidInput)
	}

	product, err := s.products.GetProduct(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}
	if product.SellerID != sellerID {
		return models.Product{}, fmt.Errorf("service: %w - only the seller can settle a product", auctionerrors.ErrForbidden)
	}
	if product.IsSoldout {
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrAlreadySoldOut)
	}

	highest, err := s.bids.GetHighestBid(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to get highest bid for product %s: %w", productID, err)
	}
	if product.ReservePrice > 0 && highest.Amount < product.ReservePrice {
		return models.Product{}, fmt.Errorf("service: %w - highest bid %.2f below reserve", auctionerrors.ErrReserveNotMet, highest.Amount)
	}

	sold, err := s.settle(product, highest.UserID, highest.Amount)
	if err != nil {
		return models.Product{}, err
	}

	s.notify(highest.UserID, "You won the auction", fmt.Sprintf("Your bid of %.2f %s won %q", highest.Amount, product.Currency, product.Title), productID)
	s.notify(product.SellerID, "Product sold", fmt.Sprintf("%q sold for %.2f %s", product.Title, highest.Amount, product.Currency), productID)

	return sold, nil
}

// settle debits the winner, credits the seller net of commission and marks
// the product sold out
func (s *BiddingService) settle(product models.Product, winnerID string, price float64) (models.Product, error) {
	if _, err := s.users.AdjustBalance(winnerID, -price); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to debit winner %s: %w", winnerID, err)
	}
	if _, err := s.users.AdjustBalance(product.SellerID, sellerProceeds(price, product.Commission)); err != nil {
		// refund the winner so the failed settlement leaves balances intact
		if _, refundErr := s.users.AdjustBalance(winnerID, price); refundErr != nil {
			utils.Error("settle: failed to refund winner after credit failure", map[string]any{
				"product_id": product.ProductID,
				"winner_id":  winnerID,
				"error":      refundErr.Error(),
			})
		}
		return models.Product{}, fmt.Errorf("service: failed to credit seller %s: %w", product.SellerID, err)
	}

	product.IsSoldout = true
	product.SoldTo = winnerID
	product.FinalPrice = price
	if err := s.products.UpdateProduct(product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to mark product %s sold: %w", product.ProductID, err)
	}
	return product, nil
}

// sellerProceeds is the sale price minus the admin commission percentage,
// rounded to 2 decimal places
func sellerProceeds(price, commissionPct float64) float64 {
	p := decimal.NewFromFloat(price)
	cut := p.Mul(decimal.NewFromFloat(commissionPct)).Div(decimal.NewFromInt(100))
	proceeds, _ := p.Sub(cut).Round(2).Float64()
	return proceeds
}

// notify records a notification; failures are logged, never fatal to the
// triggering operation
func (s *BiddingService) notify(userID, title, message, productID string) {
	err := s.notifications.AddNotification(models.Notification{
		NotificationID: utils.GenerateID(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		ProductID:      productID,
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
