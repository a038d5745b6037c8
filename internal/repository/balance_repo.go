package repository

import (
	"fmt"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// AddRequest stores a new balance top-up request
func (r *MemoryRepo) AddRequest(request model.BalanceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.RequestID] = request
	return nil
}

// GetRequest returns a balance request by ID
func (r *MemoryRepo) GetRequest(requestID string) (model.BalanceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[requestID]
	if !ok {
		return model.BalanceRequest{}, fmt.Errorf("get balance request %s: %w", requestID, auctionerrors.ErrRequestNotFound)
	}
	return request, nil
}

// ListRequests returns all balance requests (admin view)
func (r *MemoryRepo) ListRequests() ([]model.BalanceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]model.BalanceRequest, 0, len(r.requests))
	for _, req := range r.requests {
		requests = append(requests, req)
	}
	return requests, nil
}

// ListRequestsByUser returns a user's balance requests
func (r *MemoryRepo) ListRequestsByUser(userID string) ([]model.BalanceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []model.BalanceRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			requests = append(requests, req)
		}
	}
	return requests, nil
}

// UpdateRequest replaces a stored balance request
func (r *MemoryRepo) UpdateRequest(request model.BalanceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[request.RequestID]; !ok {
		return fmt.Errorf("update balance request %s: %w", request.RequestID, auctionerrors.ErrRequestNotFound)
	}
	r.requests[request.RequestID] = request
	return nil
}
