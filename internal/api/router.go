package api

import (
	"coffee_platform/internal/middleware" // Auth, logging, metrics and rate limiting
	"coffee_platform/internal/service"    // Business services
	"coffee_platform/internal/storage"    // Uploaded images
	"coffee_platform/internal/utils"      // Tokens and binding validators
	"net/http"                            // HTTP status codes
	"slices"                              // Origin lookup
	"time"                                // CORS max age

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"gorm.io/gorm"                // GORM ORM library
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	DB          *gorm.DB
	Tokens      *utils.TokenIssuer
	Auth        *service.AuthService
	Admins      *service.AdminAuthService
	Provisioner *service.ShopProvisioner
	Activity    *service.ActivityLog
	Store       storage.Store
	Cache       *ListCache
	RateLimiter *middleware.IPRateLimiter // Applied to the user auth routes when set
	Metrics     *middleware.Metrics       // Exposes /metrics when set
	CORSOrigins []string
	PublicDir   string // Served under /public when set
}

// corsConfig allows every origin when the list holds "*"
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter builds the gin engine with every route of the platform
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := utils.RegisterBindingValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), cors.New(corsConfig(d.CORSOrigins)))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", d.Metrics.Handler())
	}
	r.MaxMultipartMemory = storage.MaxImageBytes * 3
	if d.PublicDir != "" {
		r.Static("/public", d.PublicDir)
	}
	r.GET("/health", healthHandler(d.DB))

	userAccess := middleware.TokenAuth(d.Tokens, utils.ActorUser, utils.KindAccess)
	userRefresh := middleware.TokenAuth(d.Tokens, utils.ActorUser, utils.KindRefresh)
	userRegister := middleware.TokenAuth(d.Tokens, utils.ActorUser, utils.KindRegister)
	adminAccess := middleware.TokenAuth(d.Tokens, utils.ActorAdmin, utils.KindAccess)
	adminRefresh := middleware.TokenAuth(d.Tokens, utils.ActorAdmin, utils.KindRefresh)

	api := r.Group("/api")

	// User auth routes
	auth := api.Group("/user/auth")
	if d.RateLimiter != nil {
		auth.Use(d.RateLimiter.Middleware())
	}
	auth.POST("/create-account-step-one", StartRegistrationHandler(d.Auth))
	auth.POST("/create-account-step-two", VerifyCodeHandler(d.Auth))
	auth.POST("/create-account-step-three", userRegister, CompleteRegistrationHandler(d.Auth, d.Cache))
	auth.POST("/forgot-password-step-one", StartRecoveryHandler(d.Auth))
	auth.POST("/forgot-password-step-two", VerifyCodeHandler(d.Auth))
	auth.POST("/forgot-password-step-three", userRegister, CompleteRecoveryHandler(d.Auth))
	auth.POST("/login", LoginHandler(d.Auth))
	auth.GET("/refresh-token", userRefresh, RefreshTokenHandler(d.Auth))

	// User account routes (protected by JWT)
	account := api.Group("/user/account", userAccess)
	account.GET("/user-me", UserMeHandler(d.Auth, d.Activity))
	account.PUT("/change-password", ChangePasswordHandler(d.Auth))
	account.PUT("/upload-profile-photo", UploadProfilePhotoHandler(d.DB, d.Auth, d.Store, d.Activity, d.Cache))

	api.POST("/user/subscribe", SubscribeHandler(d.DB, d.Cache))

	// Admin auth routes
	adminAuth := api.Group("/admin/auth")
	adminAuth.POST("/login", AdminLoginHandler(d.Admins))
	adminAuth.POST("/refresh-token", adminRefresh, AdminRefreshTokenHandler(d.Admins))
	adminAuth.PUT("/change-password", adminAccess, AdminChangePasswordHandler(d.Admins))

	// Admin routes (protected, admin only)
	admin := api.Group("/admin", adminAccess, middleware.AdminOnly(d.DB))

	users := admin.Group("/user")
	users.GET("", ListUsersHandler(d.DB, d.Cache))
	users.GET("/all", ListAllUsersHandler(d.DB, d.Cache))
	users.POST("", AdminCreateUserHandler(d.Auth, d.Activity, d.Cache))
	users.DELETE("", DeleteUserHandler(d.DB, d.Activity, d.Cache))
	users.PUT("/restore", RestoreUserHandler(d.DB, d.Activity, d.Cache))
	users.PUT("/block", BlockUserHandler(d.DB, d.Activity, d.Cache))
	users.PUT("/unblock", UnblockUserHandler(d.DB, d.Activity, d.Cache))

	shops := admin.Group("/shop")
	shops.GET("", ListShopsHandler(d.DB, d.Cache))
	shops.GET("/all", ListAllShopsHandler(d.DB, d.Cache))
	shops.POST("", CreateShopHandler(d.Provisioner, d.Cache))
	shops.PUT("", EditShopHandler(d.DB, d.Store, d.Activity, d.Cache))
	shops.DELETE("", DeleteShopHandler(d.DB, d.Activity, d.Cache))
	shops.PUT("/restore", RestoreShopHandler(d.DB, d.Activity, d.Cache))

	products := admin.Group("/product")
	products.GET("", ListProductsHandler(d.DB, d.Cache))
	products.GET("/all", ListAllProductsHandler(d.DB, d.Cache))
	products.POST("", CreateProductHandler(d.DB, d.Store, d.Activity, d.Cache))
	products.PUT("", EditProductHandler(d.DB, d.Store, d.Activity, d.Cache))
	products.DELETE("", DeleteProductHandler(d.DB, d.Activity, d.Cache))
	products.PUT("/restore", RestoreProductHandler(d.DB, d.Activity, d.Cache))

	partners := admin.Group("/partner")
	partners.GET("", ListPartnersHandler(d.DB, d.Cache))
	partners.POST("", AddPartnerAccountHandler(d.DB, d.Activity, d.Cache))
	partners.PUT("", EditPartnerAccountHandler(d.DB, d.Activity, d.Cache))
	partners.DELETE("", DeletePartnerAccountHandler(d.DB, d.Activity, d.Cache))
	partners.PUT("/contact", UpdatePartnerContactHandler(d.DB, d.Activity, d.Cache))

	subscribers := admin.Group("/subscriber")
	subscribers.GET("", ListSubscribersHandler(d.DB, d.Cache))
	subscribers.POST("", AdminAddSubscriberHandler(d.DB, d.Activity, d.Cache))
	subscribers.DELETE("", DeleteSubscriberHandler(d.DB, d.Activity, d.Cache))
	subscribers.PUT("/restore", RestoreSubscriberHandler(d.DB, d.Activity, d.Cache))

	return r, nil
}

// healthHandler reports whether the database answers
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			respond(c, http.StatusServiceUnavailable, "Database unavailable", nil)
			return
		}
		respond(c, http.StatusOK, "OK", nil)
	}
}
