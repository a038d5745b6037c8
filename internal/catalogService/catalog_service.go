package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/filtering"
	"auction-marketplace/internal/lifecycle"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
)

// CatalogService defines the business logic for products and categories
type CatalogService struct {
	products   repository.ProductStore
	bids       repository.BidStore
	categories repository.CategoryStore
	now        func() time.Time
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(products repository.ProductStore, bids repository.BidStore, categories repository.CategoryStore) *CatalogService {
	return &CatalogService{
		products:   products,
		bids:       bids,
		categories: categories,
		now:        time.Now,
	}
}

// ProductInput carries the seller-editable product fields
type ProductInput struct {
	Title         string
	Description   string
	Category      string
	StartingPrice float64
	BuyNowPrice   float64
	ReservePrice  float64
	BidIncrement  float64
	Currency      string
	StartDate     time.Time
	EndDate       time.Time
	Images        []string
}

// CreateProduct lists a new product for a seller. Products start unverified
// and stay hidden from listings until an admin verifies them.
func (s *CatalogService) CreateProduct(sellerID string, in ProductInput) (models.Product, error) {
	if sellerID == "" {
		return models.Product{}, fmt.Errorf("service: %w - empty seller ID", auctionerrors.ErrInvalidInput)
	}
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		ProductID:     utils.GenerateID(),
		SellerID:      sellerID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		StartingPrice: in.StartingPrice,
		BuyNowPrice:   in.BuyNowPrice,
		ReservePrice:  in.ReservePrice,
		BidIncrement:  in.BidIncrement,
		Currency:      strings.ToUpper(in.Currency),
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Images:        in.Images,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.products.AddProduct(product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to add product: %w", err)
	}
	return product, nil
}

// UpdateProduct lets the seller edit a product that has not received bids
// yet. Editing after the first bid would change the terms under bidders'
// feet, so it is rejected.
func (s *CatalogService) UpdateProduct(sellerID, productID string, in ProductInput) (models.Product, error) {
	product, err := s.products.GetProduct(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}
	if product.SellerID != sellerID {
		return models.Product{}, fmt.Errorf("service: %w - not the product's seller", auctionerrors.ErrForbidden)
	}
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	if _, err := s.bids.GetBidsByProduct(productID); err == nil {
		return models.Product{}, fmt.Errorf("service: %w", auctionerrors.ErrProductHasBids)
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return models.Product{}, fmt.Errorf("service: failed to check bids for product %s: %w", productID, err)
	}

	product.Title = in.Title
	product.Description = in.Description
	product.Category = in.Category
	product.StartingPrice = in.StartingPrice
	product.BuyNowPrice = in.BuyNowPrice
	product.ReservePrice = in.ReservePrice
	product.BidIncrement = in.BidIncrement
	product.Currency = strings.ToUpper(in.Currency)
	product.StartDate = in.StartDate
	product.EndDate = in.EndDate
	product.Images = in.Images
	// edits invalidate verification; an admin must re-verify
	product.IsVerified = false

	if err := s.products.UpdateProduct(product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to update product %s: %w", productID, err)
	}
	return product, nil
}

// DeleteProduct removes a product; permitted for its seller or an admin
func (s *CatalogService) DeleteProduct(requesterID string, role models.Role, productID string) error {
	product, err := s.products.GetProduct(productID)
	if err != nil {
		return fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}
	if role != models.RoleAdmin && product.SellerID != requesterID {
		return fmt.Errorf("service: %w - not the product's seller", auctionerrors.ErrForbidden)
	}

	if err := s.products.DeleteProduct(productID); err != nil {
		return fmt.Errorf("service: failed to delete product %s: %w", productID, err)
	}
	return nil
}

// VerifyProduct marks a product biddable and records the commission
// percentage the marketplace takes on its settlement. Admin-only, enforced
// at the route layer.
func (s *CatalogService) VerifyProduct(productID string, commissionPct float64) (models.Product, error) {
	if commissionPct < 0 || commissionPct > 100 {
		return models.Product{}, fmt.Errorf("service: %w - commission must be between 0 and 100", auctionerrors.ErrInvalidInput)
	}

	product, err := s.products.GetProduct(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}

	product.IsVerified = true
	product.Commission = commissionPct
	if err := s.products.UpdateProduct(product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to verify product %s: %w", productID, err)
	}
	return product, nil
}

// GetProduct returns a single product by ID
func (s *CatalogService) GetProduct(productID string) (models.Product, error) {
	if productID == "" {
		return models.Product{}, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidInput)
	}
	product, err := s.products.GetProduct(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// WatchProduct starts a lifecycle watcher for a product. The watcher
// publishes a snapshot immediately and then once per second, re-reading the
// sold-out flag from the store so a settlement ends the stream. It stops
// after its first ended snapshot, on context cancellation, or when the
// caller stops it.
func (s *CatalogService) WatchProduct(ctx context.Context, productID string) (*lifecycle.Watcher, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	return lifecycle.Watch(ctx, lifecycle.WatchConfig{
		StartDate: product.StartDate,
		EndDate:   product.EndDate,
		SoldOut: func() bool {
			current, err := s.products.GetProduct(productID)
			return err == nil && current.IsSoldout
		},
		Clock: s.now,
	}), nil
}

// BrowseParams are the listing-page query parameters
type BrowseParams struct {
	SearchTerm string
	CategoryID string
	Sort       filtering.SortOrder
	Page       int
	PerPage    int
}

// Browse produces one page of the public listing: verified products,
// filtered and sorted, with active auctions ahead of ended ones
func (s *CatalogService) Browse(params BrowseParams) ([]models.Product, error) {
	products, err := s.products.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	categoryTitle := ""
	if params.CategoryID != "" {
		category, err := s.categories.GetCategory(params.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("service: failed to resolve category %s: %w", params.CategoryID, err)
		}
		categoryTitle = category.Title
	}

	filterParams := filtering.Params{
		SearchTerm:    params.SearchTerm,
		CategoryTitle: categoryTitle,
		Sort:          params.Sort,
	}

	now := s.now()
	onStock, soldOut := filtering.Partition(filtering.Apply(products, filterParams), now)
	return filtering.Page(onStock, soldOut, params.Page, params.PerPage), nil
}

// HomePage returns the homepage teaser: at most the first three active
// verified products, no sold-out items
func (s *CatalogService) HomePage() ([]models.Product, error) {
	products, err := s.products.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	sorted := filtering.Apply(products, filtering.Params{Sort: filtering.SortNewest})
	return filtering.HomePage(sorted, s.now()), nil
}

// ProductsBySeller returns all products created by a seller
func (s *CatalogService) ProductsBySeller(sellerID string) ([]models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("service: %w - empty seller ID", auctionerrors.ErrInvalidInput)
	}
	products, err := s.products.ListProductsBySeller(sellerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products for seller %s: %w", sellerID, err)
	}
	return products, nil
}

// WonProducts returns sold products settled to the given user
func (s *CatalogService) WonProducts(userID string) ([]models.Product, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidInput)
	}
	products, err := s.products.ListWonProducts(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list won products for user %s: %w", userID, err)
	}
	return products, nil
}

// CreateCategory adds a new category
func (s *CatalogService) CreateCategory(title string) (models.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Category{}, fmt.Errorf("service: %w - empty category title", auctionerrors.ErrInvalidInput)
	}

	category := models.Category{
		CategoryID: utils.GenerateID(),
		Title:      title,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.categories.AddCategory(category); err != nil {
		return models.Category{}, fmt.Errorf("service: failed to add category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	categories, err := s.categories.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames a category
func (s *CatalogService) UpdateCategory(categoryID, title string) (models.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Category{}, fmt.Errorf("service: %w - empty category title", auctionerrors.ErrInvalidInput)
	}

	category, err := s.categories.GetCategory(categoryID)
	if err != nil {
		return models.Category{}, fmt.Errorf("service: failed to load category %s: %w", categoryID, err)
	}

	category.Title = title
	if err := s.categories.UpdateCategory(category); err != nil {
		return models.Category{}, fmt.Errorf("service: failed to update category %s: %w", categoryID, err)
	}
	return category, nil
}

// DeleteCategory removes a category
func (s *CatalogService) DeleteCategory(categoryID string) error {
	if err := s.categories.DeleteCategory(categoryID); err != nil {
		return fmt.Errorf("service: failed to delete category %s: %w", categoryID, err)
	}
	return nil
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("service: %w - empty title", auctionerrors.ErrInvalidInput)
	}
	if in.StartingPrice <= 0 {
		return fmt.Errorf("service: %w - non-positive starting price", auctionerrors.ErrInvalidInput)
	}
	if in.Currency == "" {
		return fmt.Errorf("service: %w - missing currency", auctionerrors.ErrInvalidInput)
	}
	if !in.EndDate.After(in.StartDate) {
		return fmt.Errorf("service: %w - end date must be after start date", auctionerrors.ErrInvalidInput)
	}
	if in.BuyNowPrice < 0 || in.ReservePrice < 0 || in.BidIncrement < 0 {
		return fmt.Errorf("service: %w - negative price field", auctionerrors.ErrInvalidInput)
	}
	return nil
}
