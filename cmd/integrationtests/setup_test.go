package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	account "auction-marketplace/internal/accountService"
	bidding "auction-marketplace/internal/biddingService"
	catalog "auction-marketplace/internal/catalogService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/keyvalue"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/rates"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testEnv is a full application wired against in-memory backends
type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
	jwt    *config.JWTConfig
}

// SetupTestEnv initializes the router with in-memory backends for
// integration testing
func SetupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	jwtCfg := &config.JWTConfig{Secret: "integration-secret", TTL: time.Hour}

	biddingSvc := bidding.NewBiddingService(repo, repo, repo, repo, rates.NewClient(nil, ""))
	catalogSvc := catalog.NewCatalogService(repo, repo, repo)
	accountSvc := account.NewAccountService(repo, repo, repo, repo, keyvalue.NewMemoryStore(), jwtCfg)

	return &testEnv{
		router: server.SetupRouter(biddingSvc, catalogSvc, accountSvc, jwtCfg),
		repo:   repo,
		jwt:    jwtCfg,
	}
}

// SeedUser creates a user directly in the repository and returns a session
// token obtained through the login endpoint
func (e *testEnv) SeedUser(t *testing.T, email string, role model.Role, balance float64) (model.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		UserID:       utils.GenerateID(),
		Username:     email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Balance:      balance,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, e.repo.AddUser(user))

	resp, w := e.Do(t, "POST", "/users/login", "", map[string]any{
		"email":    email,
		"password": "password1",
	})
	require.Equal(t, 200, w.Code, "login should succeed for seeded user")

	token := resp["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return user, token
}

// Do executes an HTTP request with an optional bearer token and parses the
// JSON response envelope
func (e *testEnv) Do(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// Data unwraps the data field of a successful response envelope
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response should carry a data object")
	return data
}
