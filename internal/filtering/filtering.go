package filtering

import (
	"sort"
	"strings"
	"time"

	"auction-marketplace/internal/lifecycle"
	"auction-marketplace/internal/models"
)

// SortOrder selects how a listing is ordered
type SortOrder string

const (
	SortNewest    SortOrder = "newest" // createdAt desc, the default
	SortEnding    SortOrder = "ending" // endDate asc
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
)

// HomePageLimit caps how many active products the homepage shows
const HomePageLimit = 3

// Params are the listing filters. CategoryTitle is the resolved title of the
// selected category (empty = all categories).
type Params struct {
	SearchTerm    string
	CategoryTitle string
	Sort          SortOrder
}

// Partition splits products into the onStock subset (verified, active, not
// sold out) and the soldOut subset (verified but ended or sold out).
// Unverified products appear in neither. The input slice is never mutated.
func Partition(products []models.Product, now time.Time) (onStock, soldOut []models.Product) {
	for _, p := range products {
		if !p.IsVerified {
			continue
		}
		switch lifecycle.Evaluate(now, p.StartDate, p.EndDate, p.IsSoldout).Phase {
		case lifecycle.PhaseActive:
			onStock = append(onStock, p)
		case lifecycle.PhaseEnded:
			soldOut = append(soldOut, p)
		}
	}
	return onStock, soldOut
}

// Apply filters a product collection by search term and category, then sorts
// it. Returns a new slice; the input is never reordered.
func Apply(products []models.Product, params Params) []models.Product {
	filtered := make([]models.Product, 0, len(products))

	search := strings.ToLower(strings.TrimSpace(params.SearchTerm))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if params.CategoryTitle != "" && p.Category != params.CategoryTitle {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, params.Sort)
	return filtered
}

// HomePage returns the first products of the onStock subset, capped at
// HomePageLimit. Sold-out products never appear on the homepage.
func HomePage(products []models.Product, now time.Time) []models.Product {
	onStock, _ := Partition(products, now)
	if len(onStock) > HomePageLimit {
		onStock = onStock[:HomePageLimit]
	}
	return onStock
}

// Page returns one page of the combined listing, with the onStock subset
// taking priority over soldOut. Page numbers start at 1.
func Page(onStock, soldOut []models.Product, page, perPage int) []models.Product {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 9
	}

	combined := make([]models.Product, 0, len(onStock)+len(soldOut))
	combined = append(combined, onStock...)
	combined = append(combined, soldOut...)

	start := (page - 1) * perPage
	if start >= len(combined) {
		return []models.Product{}
	}
	end := start + perPage
	if end > len(combined) {
		end = len(combined)
	}
	return combined[start:end]
}

func sortProducts(products []models.Product, order SortOrder) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch order {
		case SortEnding:
			return a.EndDate.Before(b.EndDate)
		case SortPriceLow:
			return a.StartingPrice < b.StartingPrice
		case SortPriceHigh:
			return a.StartingPrice > b.StartingPrice
		default: // SortNewest
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
