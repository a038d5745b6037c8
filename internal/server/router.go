package server

import (
	account "auction-marketplace/internal/accountService"
	bidding "auction-marketplace/internal/biddingService"
	catalog "auction-marketplace/internal/catalogService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/models"
	accounthandler "auction-marketplace/services/account/handler"
	biddinghandler "auction-marketplace/services/bidding/handler"
	cataloghandler "auction-marketplace/services/catalog/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	biddingService *bidding.BiddingService,
	catalogService *catalog.CatalogService,
	accountService *account.AccountService,
	jwtCfg *config.JWTConfig,
) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := biddinghandler.NewBiddingHandler(biddingService)
	catalogHandler := cataloghandler.NewCatalogHandler(catalogService)
	accountHandler := accounthandler.NewAccountHandler(accountService)

	authed := AuthMiddleware(jwtCfg)
	adminOnly := RequireRole(models.RoleAdmin)

	users := router.Group("/users")
	{
		users.POST("/register", accountHandler.RegisterHandler)
		users.POST("/login", accountHandler.LoginHandler)
		users.POST("/logout", authed, accountHandler.LogoutHandler)
		users.GET("/me", authed, accountHandler.ProfileHandler)
		users.PATCH("/me", authed, accountHandler.UpdateProfileHandler)
		users.POST("/seller", authed, accountHandler.BecomeSellerHandler)
		users.GET("/income", authed, accountHandler.SellerIncomeHandler)
		users.GET("", authed, adminOnly, accountHandler.ListUsersHandler)
		users.GET("/estimate-income", authed, adminOnly, accountHandler.EstimatedIncomeHandler)
		users.DELETE("/:user_id", authed, adminOnly, accountHandler.DeleteUserHandler)
	}

	products := router.Group("/products")
	{
		products.GET("", catalogHandler.BrowseHandler)
		products.GET("/home", catalogHandler.HomePageHandler)
		products.GET("/user", authed, catalogHandler.SellerProductsHandler)
		products.GET("/won", authed, catalogHandler.WonProductsHandler)
		products.GET("/:product_id", catalogHandler.GetProductHandler)
		products.GET("/:product_id/live", catalogHandler.LiveStatusHandler)
		products.POST("", authed, catalogHandler.CreateProductHandler)
		products.PUT("/:product_id", authed, catalogHandler.UpdateProductHandler)
		products.DELETE("/:product_id", authed, catalogHandler.DeleteProductHandler)
		products.PATCH("/admin/product-verified/:product_id", authed, adminOnly, catalogHandler.VerifyProductHandler)
	}

	biddingGroup := router.Group("/bidding")
	{
		biddingGroup.POST("", authed, biddingHandler.PlaceBidHandler)
		biddingGroup.POST("/sell", authed, biddingHandler.SellHandler)
		biddingGroup.POST("/buy-now", authed, biddingHandler.BuyNowHandler)
		biddingGroup.GET("/:product_id", biddingHandler.BidHistoryHandler)
		biddingGroup.GET("/:product_id/winning", biddingHandler.WinningBidHandler)
	}

	categories := router.Group("/category")
	{
		categories.GET("", catalogHandler.ListCategoriesHandler)
		categories.POST("", authed, adminOnly, catalogHandler.CreateCategoryHandler)
		categories.PUT("/:category_id", authed, adminOnly, catalogHandler.UpdateCategoryHandler)
		categories.DELETE("/:category_id", authed, adminOnly, catalogHandler.DeleteCategoryHandler)
	}

	notifications := router.Group("/notifications", authed)
	{
		notifications.GET("", accountHandler.NotificationsHandler)
		notifications.GET("/unread-count", accountHandler.UnreadCountHandler)
		notifications.PUT("/read-all", accountHandler.MarkAllReadHandler)
		notifications.PUT("/:notification_id", accountHandler.MarkReadHandler)
	}

	balance := router.Group("/balance-requests")
	{
		balance.POST("", authed, accountHandler.SubmitBalanceRequestHandler)
		balance.GET("/mine", authed, accountHandler.MyBalanceRequestsHandler)
		balance.GET("", authed, adminOnly, accountHandler.ListBalanceRequestsHandler)
		balance.PATCH("/:request_id", authed, adminOnly, accountHandler.ResolveBalanceRequestHandler)
	}

	favorites := router.Group("/favorites", authed)
	{
		favorites.GET("", accountHandler.FavoritesHandler)
		favorites.POST("/:product_id", accountHandler.ToggleFavoriteHandler)
		favorites.DELETE("", accountHandler.ClearFavoritesHandler)
	}

	return router
}
