package repository

import (
	"fmt"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// AddProduct stores a new product
func (r *MemoryRepo) AddProduct(product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ProductID] = product
	return nil
}

// GetProduct returns a product by ID
func (r *MemoryRepo) GetProduct(productID string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	return product, nil
}

// ListProducts returns all products
func (r *MemoryRepo) ListProducts() ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	return products, nil
}

// ListProductsBySeller returns all products created by a seller
func (r *MemoryRepo) ListProductsBySeller(sellerID string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []model.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			products = append(products, p)
		}
	}
	return products, nil
}

// ListWonProducts returns sold products settled to the given user
func (r *MemoryRepo) ListWonProducts(userID string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []model.Product
	for _, p := range r.products {
		if p.IsSoldout && p.SoldTo == userID {
			products = append(products, p)
		}
	}
	return products, nil
}

// UpdateProduct replaces a stored product
func (r *MemoryRepo) UpdateProduct(product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ProductID]; !ok {
		return fmt.Errorf("update product %s: %w", product.ProductID, auctionerrors.ErrProductNotFound)
	}
	r.products[product.ProductID] = product
	return nil
}

// DeleteProduct removes a product and its bids
func (r *MemoryRepo) DeleteProduct(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("delete product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	delete(r.products, productID)
	delete(r.bids, productID)
	return nil
}
