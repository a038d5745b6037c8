package integrationtests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	model "auction-marketplace/internal/models"

	"github.com/stretchr/testify/require"
)

func productPayload(now time.Time) map[string]any {
	return map[string]any{
		"title":          "Vintage Camera",
		"description":    "A working 1960s rangefinder",
		"category":       "Electronics",
		"starting_price": 100,
		"currency":       "USD",
		"start_date":     now.Add(-time.Hour).Format(time.RFC3339),
		"end_date":       now.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

// Full auction round trip: list, verify, bid, outbid, settle
func TestAuctionLifecycle(t *testing.T) {
	env := SetupTestEnv()
	now := time.Now().UTC()

	_, sellerToken := env.SeedUser(t, "seller@example.com", model.RoleSeller, 0)
	_, adminToken := env.SeedUser(t, "admin@example.com", model.RoleAdmin, 0)
	buyer1, buyer1Token := env.SeedUser(t, "buyer1@example.com", model.RoleBuyer, 500)
	_, buyer2Token := env.SeedUser(t, "buyer2@example.com", model.RoleBuyer, 500)

	// Seller lists a product
	resp, w := env.Do(t, http.MethodPost, "/products", sellerToken, productPayload(now))
	require.Equal(t, http.StatusCreated, w.Code)
	productID := Data(t, resp)["product_id"].(string)

	// Unverified products reject bids
	_, w = env.Do(t, http.MethodPost, "/bidding", buyer1Token, map[string]any{
		"product_id": productID, "price": 100,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Verification is admin-only
	_, w = env.Do(t, http.MethodPatch, "/products/admin/product-verified/"+productID, buyer1Token, map[string]any{"commission": 10})
	require.Equal(t, http.StatusForbidden, w.Code)

	_, w = env.Do(t, http.MethodPatch, "/products/admin/product-verified/"+productID, adminToken, map[string]any{"commission": 10})
	require.Equal(t, http.StatusOK, w.Code)

	// First bid at the starting price
	resp, w = env.Do(t, http.MethodPost, "/bidding", buyer1Token, map[string]any{
		"product_id": productID, "price": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 100.0, Data(t, resp)["amount"])

	// A lower follow-up bid is rejected
	_, w = env.Do(t, http.MethodPost, "/bidding", buyer2Token, map[string]any{
		"product_id": productID, "price": 99,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Buyer 2 outbids
	_, w = env.Do(t, http.MethodPost, "/bidding", buyer2Token, map[string]any{
		"product_id": productID, "price": 150,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Outbid notification reaches buyer 1
	resp, w = env.Do(t, http.MethodGet, "/notifications/unread-count", buyer1Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, Data(t, resp)["count"])

	// Bid history is newest first
	resp, w = env.Do(t, http.MethodGet, "/bidding/"+productID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bids := resp["data"].([]any)
	require.Len(t, bids, 2)
	require.Equal(t, 150.0, bids[0].(map[string]any)["amount"])

	// Winning bid
	resp, w = env.Do(t, http.MethodGet, "/bidding/"+productID+"/winning", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 150.0, Data(t, resp)["amount"])

	// Only the seller can settle
	_, w = env.Do(t, http.MethodPost, "/bidding/sell", buyer1Token, map[string]any{"product_id": productID})
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = env.Do(t, http.MethodPost, "/bidding/sell", sellerToken, map[string]any{"product_id": productID})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, Data(t, resp)["is_soldout"])
	require.Equal(t, 150.0, Data(t, resp)["final_price"])

	// Further bids are rejected once sold
	_, w = env.Do(t, http.MethodPost, "/bidding", buyer1Token, map[string]any{
		"product_id": productID, "price": 300,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// The outbid buyer keeps their balance; only the winner is debited
	loser, err := env.repo.GetUser(buyer1.UserID)
	require.NoError(t, err)
	require.Equal(t, 500.0, loser.Balance)

	resp, w = env.Do(t, http.MethodGet, "/users/income", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 135.0, Data(t, resp)["income"])

	// The sold product appears in the winner's won list
	resp, w = env.Do(t, http.MethodGet, "/products/won", buyer2Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	// Admin sees the commission as estimated income
	resp, w = env.Do(t, http.MethodGet, "/users/estimate-income", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 15.0, Data(t, resp)["income"])
}

// Auth failures carry machine-readable reason codes
func TestAuthReasonCodes(t *testing.T) {
	env := SetupTestEnv()

	t.Run("missing_token", func(t *testing.T) {
		resp, w := env.Do(t, http.MethodGet, "/users/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "missing_token", resp["reason"])
	})

	t.Run("invalid_token", func(t *testing.T) {
		resp, w := env.Do(t, http.MethodGet, "/users/me", "not-a-jwt", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "invalid_token", resp["reason"])
	})

	t.Run("expired_token", func(t *testing.T) {
		// Login still succeeds; the issued token is just already expired
		env.jwt.TTL = -time.Hour
		_, token := env.SeedUser(t, "late@example.com", model.RoleBuyer, 0)
		env.jwt.TTL = time.Hour

		resp, w := env.Do(t, http.MethodGet, "/users/me", token, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "session_expired", resp["reason"])
	})
}

// Registration and profile round trip
func TestAccountEndpoints(t *testing.T) {
	env := SetupTestEnv()

	resp, w := env.Do(t, http.MethodPost, "/users/register", "", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "buyer", Data(t, resp)["role"])
	require.Nil(t, Data(t, resp)["password_hash"], "hashes never leave the server")

	// Duplicate registration conflicts
	_, w = env.Do(t, http.MethodPost, "/users/register", "", map[string]any{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Login and inspect own profile
	resp, w = env.Do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "alice@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := Data(t, resp)["token"].(string)

	resp, w = env.Do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "alice@example.com", Data(t, resp)["email"])

	// Upgrade to seller
	resp, w = env.Do(t, http.MethodPost, "/users/seller", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "seller", Data(t, resp)["role"])

	// Wrong password is unauthorized
	_, w = env.Do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Balance request flow: submit, list, approve, spendable
func TestBalanceRequestFlow(t *testing.T) {
	env := SetupTestEnv()

	buyer, buyerToken := env.SeedUser(t, "buyer@example.com", model.RoleBuyer, 0)
	_, adminToken := env.SeedUser(t, "admin@example.com", model.RoleAdmin, 0)

	resp, w := env.Do(t, http.MethodPost, "/balance-requests", buyerToken, map[string]any{
		"amount":         250,
		"payment_method": "bank-transfer",
		"transaction_id": "tx-123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	requestID := Data(t, resp)["request_id"].(string)

	// Admin listing is admin-only
	_, w = env.Do(t, http.MethodGet, "/balance-requests", buyerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w = env.Do(t, http.MethodGet, "/balance-requests", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	// Approval credits the balance
	_, w = env.Do(t, http.MethodPatch, "/balance-requests/"+requestID, adminToken, map[string]any{
		"approve": true, "admin_note": "verified",
	})
	require.Equal(t, http.StatusOK, w.Code)

	user, err := env.repo.GetUser(buyer.UserID)
	require.NoError(t, err)
	require.Equal(t, 250.0, user.Balance)

	// Double resolution conflicts
	_, w = env.Do(t, http.MethodPatch, "/balance-requests/"+requestID, adminToken, map[string]any{
		"approve": true,
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

// Favorites round trip
func TestFavoritesEndpoints(t *testing.T) {
	env := SetupTestEnv()
	_, token := env.SeedUser(t, "buyer@example.com", model.RoleBuyer, 0)

	resp, w := env.Do(t, http.MethodPost, "/favorites/product1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, Data(t, resp)["favorite"])

	resp, w = env.Do(t, http.MethodGet, "/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	resp, w = env.Do(t, http.MethodPost, "/favorites/product1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, Data(t, resp)["favorite"], "second toggle removes")

	_, w = env.Do(t, http.MethodDelete, "/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

// Category management and browse filtering
func TestCatalogEndpoints(t *testing.T) {
	env := SetupTestEnv()
	now := time.Now().UTC()

	_, sellerToken := env.SeedUser(t, "seller@example.com", model.RoleSeller, 0)
	_, adminToken := env.SeedUser(t, "admin@example.com", model.RoleAdmin, 0)

	// Categories are admin-managed
	_, w := env.Do(t, http.MethodPost, "/category", sellerToken, map[string]any{"title": "Electronics"})
	require.Equal(t, http.StatusForbidden, w.Code)

	resp, w := env.Do(t, http.MethodPost, "/category", adminToken, map[string]any{"title": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := Data(t, resp)["category_id"].(string)

	// Duplicate titles conflict, case-insensitively
	_, w = env.Do(t, http.MethodPost, "/category", adminToken, map[string]any{"title": "electronics"})
	require.Equal(t, http.StatusConflict, w.Code)

	// List a product and verify it so it shows up in the listing
	resp, w = env.Do(t, http.MethodPost, "/products", sellerToken, productPayload(now))
	require.Equal(t, http.StatusCreated, w.Code)
	productID := Data(t, resp)["product_id"].(string)

	resp, w = env.Do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, resp["data"].([]any), "unverified products stay hidden")

	_, w = env.Do(t, http.MethodPatch, "/products/admin/product-verified/"+productID, adminToken, map[string]any{"commission": 5})
	require.Equal(t, http.StatusOK, w.Code)

	resp, w = env.Do(t, http.MethodGet, "/products?category="+categoryID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	resp, w = env.Do(t, http.MethodGet, "/products?search=camera", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	resp, w = env.Do(t, http.MethodGet, "/products?search=submarine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, resp["data"].([]any))

	resp, w = env.Do(t, http.MethodGet, "/products/home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)
}

// The live status stream emits lifecycle snapshots as server-sent events
// and closes once the auction has ended
func TestLiveProductStatus(t *testing.T) {
	env := SetupTestEnv()
	now := time.Now().UTC()

	require.NoError(t, env.repo.AddProduct(model.Product{
		ProductID:     "closed-auction",
		SellerID:      "seller1",
		Title:         "Closed Auction",
		StartingPrice: 10,
		Currency:      "USD",
		StartDate:     now.Add(-48 * time.Hour),
		EndDate:       now.Add(-time.Hour),
		IsVerified:    true,
		CreatedAt:     now.Add(-72 * time.Hour),
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/closed-auction/live", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "event:status")
	require.Contains(t, body, `"phase":"ended"`)

	_, w = env.Do(t, http.MethodGet, "/products/unknown/live", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
