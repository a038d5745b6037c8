package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	account "auction-marketplace/internal/accountService"
	"auction-marketplace/internal/auctionerrors"
	bidding "auction-marketplace/internal/biddingService"
	catalog "auction-marketplace/internal/catalogService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/keyvalue"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/rates"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/utils"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	repo := repository.NewMemoryRepo()

	favorites, err := openFavoritesStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to redis: %v\n", err)
		os.Exit(1)
	}

	ratesClient := rates.NewClient(&http.Client{Timeout: cfg.Rates.Timeout}, cfg.Rates.FeedURL)

	biddingSvc := bidding.NewBiddingService(repo, repo, repo, repo, ratesClient)
	catalogSvc := catalog.NewCatalogService(repo, repo, repo)
	accountSvc := account.NewAccountService(repo, repo, repo, repo, favorites, &cfg.JWT)

	if err := seedAdmin(repo, cfg.Admin); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed admin account: %v\n", err)
		os.Exit(1)
	}

	router := server.SetupRouter(biddingSvc, catalogSvc, accountSvc, &cfg.JWT)

	addr := cfg.Server.Addr()
	fmt.Printf("Starting auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openFavoritesStore connects to Redis when configured, otherwise keeps
// favorites in memory
func openFavoritesStore(cfg *config.Config) (keyvalue.Store, error) {
	if cfg.Redis.Addr == "" {
		return keyvalue.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := keyvalue.NewRedisStore(ctx, cfg.Redis.Addr)
	if err != nil {
		return nil, err
	}
	utils.Info("connected to redis", map[string]any{"addr": cfg.Redis.Addr})
	return store, nil
}

// seedAdmin creates the initial admin account. Restarts with the same email
// are a no-op.
func seedAdmin(users repository.UserStore, admin config.AdminConfig) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = users.AddUser(model.User{
		UserID:       utils.GenerateID(),
		Username:     "admin",
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, auctionerrors.ErrDuplicateEmail) {
		return nil
	}
	return err
}
