package repository

import (
	"fmt"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// RecordBidForProduct records a user's bid on a product
func (r *MemoryRepo) RecordBidForProduct(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[bid.ProductID]; !ok {
		return fmt.Errorf("record bid for product %s: %w", bid.ProductID, auctionerrors.ErrProductNotFound)
	}

	r.bids[bid.ProductID] = append(r.bids[bid.ProductID], bid)
	return nil
}

// GetBidsByProduct returns all bids for a product in insertion order
func (r *MemoryRepo) GetBidsByProduct(productID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[productID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for product %s: %w", productID, auctionerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetHighestBid returns the highest bid for a product; the earliest bid wins
// a tie on amount
func (r *MemoryRepo) GetHighestBid(productID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[productID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for product %s: %w", productID, auctionerrors.ErrNoBids)
	}

	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > highest.Amount || (b.Amount == highest.Amount && b.CreatedAt.Before(highest.CreatedAt)) {
			highest = b
		}
	}
	return highest, nil
}
