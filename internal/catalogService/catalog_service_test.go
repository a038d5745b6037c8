package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/filtering"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	products   *repository.MockProductStore
	bids       *repository.MockBidStore
	categories *repository.MockCategoryStore
	service    *CatalogService
}

func newCatalogFixture(t *testing.T, now time.Time) *catalogFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &catalogFixture{
		products:   repository.NewMockProductStore(ctrl),
		bids:       repository.NewMockBidStore(ctrl),
		categories: repository.NewMockCategoryStore(ctrl),
	}
	f.service = NewCatalogService(f.products, f.bids, f.categories)
	f.service.now = func() time.Time { return now }
	return f
}

func validInput(now time.Time) ProductInput {
	return ProductInput{
		Title:         "Vintage Camera",
		Description:   "A working 1960s rangefinder",
		Category:      "Electronics",
		StartingPrice: 100,
		Currency:      "usd",
		StartDate:     now,
		EndDate:       now.Add(7 * 24 * time.Hour),
		Images:        []string{"https://example.com/camera.jpg"},
	}
}

// Tests CreateProduct
func TestCatalogService_CreateProduct(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	t.Run("creates_unverified_product", func(t *testing.T) {
		f := newCatalogFixture(t, now)

		var stored model.Product
		f.products.EXPECT().AddProduct(gomock.Any()).DoAndReturn(func(p model.Product) error {
			stored = p
			return nil
		})

		product, err := f.service.CreateProduct("seller1", validInput(now))
		require.NoError(t, err)

		_, parseErr := uuid.Parse(product.ProductID)
		require.NoError(t, parseErr, "ProductID should be a valid UUID")
		require.Equal(t, "seller1", product.SellerID)
		require.Equal(t, "USD", product.Currency, "currency is normalized to upper case")
		require.False(t, product.IsVerified, "new products await admin verification")
		require.Equal(t, stored, product)
	})

	invalid := []struct {
		name   string
		mutate func(in *ProductInput)
	}{
		{name: "empty_title", mutate: func(in *ProductInput) { in.Title = "  " }},
		{name: "zero_starting_price", mutate: func(in *ProductInput) { in.StartingPrice = 0 }},
		{name: "missing_currency", mutate: func(in *ProductInput) { in.Currency = "" }},
		{name: "end_before_start", mutate: func(in *ProductInput) { in.EndDate = in.StartDate.Add(-time.Hour) }},
		{name: "end_equals_start", mutate: func(in *ProductInput) { in.EndDate = in.StartDate }},
		{name: "negative_buy_now", mutate: func(in *ProductInput) { in.BuyNowPrice = -1 }},
		{name: "negative_reserve", mutate: func(in *ProductInput) { in.ReservePrice = -1 }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			f := newCatalogFixture(t, now)
			in := validInput(now)
			tc.mutate(&in)

			_, err := f.service.CreateProduct("seller1", in)
			require.True(t, errors.Is(err, auctionerrors.ErrInvalidInput))
		})
	}
}

// Tests UpdateProduct
func TestCatalogService_UpdateProduct(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	existing := model.Product{
		ProductID:  "product1",
		SellerID:   "seller1",
		Title:      "Old Title",
		Currency:   "USD",
		IsVerified: true,
	}

	t.Run("edit_resets_verification", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().GetProduct("product1").Return(existing, nil)
		f.bids.EXPECT().GetBidsByProduct("product1").Return(nil, auctionerrors.ErrNoBids)

		var stored model.Product
		f.products.EXPECT().UpdateProduct(gomock.Any()).DoAndReturn(func(p model.Product) error {
			stored = p
			return nil
		})

		product, err := f.service.UpdateProduct("seller1", "product1", validInput(now))
		require.NoError(t, err)
		require.Equal(t, "Vintage Camera", product.Title)
		require.False(t, stored.IsVerified, "edits require re-verification")
	})

	t.Run("rejected_once_bids_exist", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().GetProduct("product1").Return(existing, nil)
		f.bids.EXPECT().GetBidsByProduct("product1").Return([]model.Bid{{BidID: "bid1"}}, nil)

		_, err := f.service.UpdateProduct("seller1", "product1", validInput(now))
		require.True(t, errors.Is(err, auctionerrors.ErrProductHasBids))
	})

	t.Run("only_the_seller_can_edit", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().GetProduct("product1").Return(existing, nil)

		_, err := f.service.UpdateProduct("intruder", "product1", validInput(now))
		require.True(t, errors.Is(err, auctionerrors.ErrForbidden))
	})
}

// Tests DeleteProduct authorization
func TestCatalogService_DeleteProduct(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	existing := model.Product{ProductID: "product1", SellerID: "seller1"}

	tests := []struct {
		name          string
		requesterID   string
		role          model.Role
		expectDelete  bool
		expectedError error
	}{
		{name: "seller_can_delete", requesterID: "seller1", role: model.RoleSeller, expectDelete: true},
		{name: "admin_can_delete", requesterID: "admin1", role: model.RoleAdmin, expectDelete: true},
		{name: "other_user_cannot", requesterID: "user2", role: model.RoleBuyer, expectedError: auctionerrors.ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCatalogFixture(t, now)
			f.products.EXPECT().GetProduct("product1").Return(existing, nil)
			if tc.expectDelete {
				f.products.EXPECT().DeleteProduct("product1").Return(nil)
			}

			err := f.service.DeleteProduct(tc.requesterID, tc.role, "product1")
			if tc.expectedError != nil {
				require.True(t, errors.Is(err, tc.expectedError))
				return
			}
			require.NoError(t, err)
		})
	}
}

// Tests VerifyProduct
func TestCatalogService_VerifyProduct(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	t.Run("sets_verified_and_commission", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().GetProduct("product1").Return(model.Product{ProductID: "product1"}, nil)
		f.products.EXPECT().UpdateProduct(gomock.Any()).DoAndReturn(func(p model.Product) error {
			require.True(t, p.IsVerified)
			require.Equal(t, 7.5, p.Commission)
			return nil
		})

		product, err := f.service.VerifyProduct("product1", 7.5)
		require.NoError(t, err)
		require.True(t, product.IsVerified)
	})

	t.Run("commission_out_of_range", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		_, err := f.service.VerifyProduct("product1", 101)
		require.True(t, errors.Is(err, auctionerrors.ErrInvalidInput))

		_, err = f.service.VerifyProduct("product1", -1)
		require.True(t, errors.Is(err, auctionerrors.ErrInvalidInput))
	})
}

// Tests Browse
func TestCatalogService_Browse(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	active := model.Product{
		ProductID: "active", Title: "Camera", Category: "Electronics",
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		IsVerified: true, CreatedAt: now.Add(-time.Hour),
	}
	ended := model.Product{
		ProductID: "ended", Title: "Camera Bag", Category: "Electronics",
		StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour),
		IsVerified: true, CreatedAt: now.Add(-48 * time.Hour),
	}
	unverified := model.Product{
		ProductID: "hidden", Title: "Camera Strap",
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
	}

	t.Run("active_listed_before_ended_and_unverified_hidden", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().ListProducts().Return([]model.Product{ended, unverified, active}, nil)

		products, err := f.service.Browse(BrowseParams{})
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, "active", products[0].ProductID)
		require.Equal(t, "ended", products[1].ProductID)
	})

	t.Run("category_id_resolves_to_title", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().ListProducts().Return([]model.Product{active, ended}, nil)
		f.categories.EXPECT().GetCategory("cat1").Return(model.Category{CategoryID: "cat1", Title: "Electronics"}, nil)

		products, err := f.service.Browse(BrowseParams{CategoryID: "cat1"})
		require.NoError(t, err)
		require.Len(t, products, 2)
	})

	t.Run("unknown_category_fails", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().ListProducts().Return(nil, nil)
		f.categories.EXPECT().GetCategory("catX").Return(model.Category{}, auctionerrors.ErrCategoryNotFound)

		_, err := f.service.Browse(BrowseParams{CategoryID: "catX"})
		require.True(t, errors.Is(err, auctionerrors.ErrCategoryNotFound))
	})

	t.Run("search_filters_listing", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().ListProducts().Return([]model.Product{active, ended}, nil)

		products, err := f.service.Browse(BrowseParams{SearchTerm: "bag", Sort: filtering.SortNewest})
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.Equal(t, "ended", products[0].ProductID)
	})
}

// Tests HomePage cap and exclusions
func TestCatalogService_HomePage(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	f := newCatalogFixture(t, now)

	var products []model.Product
	for i := 0; i < 5; i++ {
		products = append(products, model.Product{
			ProductID:  string(rune('a' + i)),
			StartDate:  now.Add(-time.Hour),
			EndDate:    now.Add(time.Hour),
			IsVerified: true,
			CreatedAt:  now.Add(time.Duration(i) * time.Minute),
		})
	}
	products = append(products, model.Product{
		ProductID: "sold", StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		IsVerified: true, IsSoldout: true, CreatedAt: now.Add(time.Hour),
	})
	f.products.EXPECT().ListProducts().Return(products, nil)

	home, err := f.service.HomePage()
	require.NoError(t, err)
	require.Len(t, home, filtering.HomePageLimit)
	for _, p := range home {
		require.False(t, p.IsSoldout)
	}
	require.Equal(t, "e", home[0].ProductID, "newest first")
}

// Tests category CRUD
func TestCatalogService_Categories(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	t.Run("create_trims_title", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.categories.EXPECT().AddCategory(gomock.Any()).DoAndReturn(func(c model.Category) error {
			require.Equal(t, "Electronics", c.Title)
			return nil
		})

		category, err := f.service.CreateCategory("  Electronics  ")
		require.NoError(t, err)
		require.Equal(t, "Electronics", category.Title)
	})

	t.Run("create_empty_title", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		_, err := f.service.CreateCategory("   ")
		require.True(t, errors.Is(err, auctionerrors.ErrInvalidInput))
	})

	t.Run("duplicate_title_surfaces", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.categories.EXPECT().AddCategory(gomock.Any()).Return(auctionerrors.ErrDuplicateCategory)

		_, err := f.service.CreateCategory("Electronics")
		require.True(t, errors.Is(err, auctionerrors.ErrDuplicateCategory))
	})

	t.Run("rename", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.categories.EXPECT().GetCategory("cat1").Return(model.Category{CategoryID: "cat1", Title: "Old"}, nil)
		f.categories.EXPECT().UpdateCategory(gomock.Any()).DoAndReturn(func(c model.Category) error {
			require.Equal(t, "New", c.Title)
			return nil
		})

		category, err := f.service.UpdateCategory("cat1", "New")
		require.NoError(t, err)
		require.Equal(t, "New", category.Title)
	})
}

// Tests WatchProduct streaming
func TestCatalogService_WatchProduct(t *testing.T) {
	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

	t.Run("ended_auction_yields_one_snapshot_then_closes", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().GetProduct("product1").Return(model.Product{
			ProductID:  "product1",
			StartDate:  now.Add(-48 * time.Hour),
			EndDate:    now.Add(-time.Hour),
			IsVerified: true,
		}, nil).AnyTimes()

		watcher, err := f.service.WatchProduct(context.Background(), "product1")
		require.NoError(t, err)
		defer watcher.Stop()

		snapshot, ok := <-watcher.Snapshots()
		require.True(t, ok)
		require.Equal(t, lifecycle.PhaseEnded, snapshot.Phase)
		require.True(t, snapshot.Remaining.IsZero())

		_, ok = <-watcher.Snapshots()
		require.False(t, ok, "channel closes after the ended snapshot")
	})

	t.Run("sold_out_on_reread_ends_the_stream", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		active := model.Product{
			ProductID:  "product1",
			StartDate:  now.Add(-time.Hour),
			EndDate:    now.Add(24 * time.Hour),
			IsVerified: true,
		}
		sold := active
		sold.IsSoldout = true

		f.products.EXPECT().GetProduct("product1").Return(active, nil)
		f.products.EXPECT().GetProduct("product1").Return(sold, nil).AnyTimes()

		watcher, err := f.service.WatchProduct(context.Background(), "product1")
		require.NoError(t, err)
		defer watcher.Stop()

		snapshot := <-watcher.Snapshots()
		require.Equal(t, lifecycle.PhaseEnded, snapshot.Phase)

		_, ok := <-watcher.Snapshots()
		require.False(t, ok)
	})

	t.Run("unknown_product", func(t *testing.T) {
		f := newCatalogFixture(t, now)
		f.products.EXPECT().GetProduct("nope").Return(model.Product{}, auctionerrors.ErrProductNotFound)

		_, err := f.service.WatchProduct(context.Background(), "nope")
		require.True(t, errors.Is(err, auctionerrors.ErrProductNotFound))
	})
}
