// Package routes wires repositories, services and controllers into the gin engine.
package routes

import (
	"net/http"
	"path/filepath"
	"strings"

	"gin-bytemarket/constants"
	"gin-bytemarket/controllers"
	"gin-bytemarket/events"
	"gin-bytemarket/mailer"
	"gin-bytemarket/metrics"
	"gin-bytemarket/middlewares"
	"gin-bytemarket/payment"
	"gin-bytemarket/repositories"
	"gin-bytemarket/services"
	"gin-bytemarket/storage"
	"gin-bytemarket/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	DB              *gorm.DB
	TokenRepository repositories.ITokenRepository
	Disk            storage.Disk
	Provider        payment.Provider
	Sender          mailer.Sender
	Publisher       events.Publisher
	MailFrom        string
	MailFromName    string
	Checkout        services.CheckoutOptions
	AllowedOrigins  []string
}

func Setup(deps Deps) *gin.Engine {
	authRepository := repositories.NewAuthRepository(deps.DB)
	productRepository := repositories.NewProductRepository(deps.DB)
	cartRepository := repositories.NewCartRepository(deps.DB)

	authService := services.NewAuthService(authRepository, deps.TokenRepository)
	productService := services.NewProductService(productRepository, deps.Disk)
	cartService := services.NewCartService(cartRepository, productRepository)
	notificationService := services.NewNotificationService(deps.Sender, deps.Disk, deps.MailFrom, deps.MailFromName)
	checkoutService := services.NewCheckoutService(cartService, notificationService, deps.Provider, deps.Publisher, deps.Checkout)

	authController := controllers.NewAuthController(authService)
	productController := controllers.NewProductController(productService)
	cartController := controllers.NewCartController(cartService)
	checkoutController := controllers.NewCheckoutController(checkoutService, deps.Provider.PublicKey())

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), metrics.Middleware())
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.SetHTMLTemplate(views.Templates())

	if local, ok := deps.Disk.(*storage.LocalDisk); ok && strings.HasPrefix(local.BaseURL(), "/") {
		// only product images are public; purchased files go out by email
		r.Static(local.BaseURL()+"/images", filepath.Join(local.Root(), "images"))
	}

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/", productController.Home)

	requireAuth := middlewares.AuthMiddleware(authService)

	authRouter := r.Group("/auth")
	authRouter.POST("/signup", authController.Signup)
	authRouter.POST("/login", authController.Login)
	authRouter.POST("/refresh", authController.RefreshToken)
	authRouter.POST("/logout", requireAuth, authController.Logout)

	accountRouter := r.Group("/account", requireAuth)
	accountRouter.GET("", authController.Account)
	accountRouter.PUT("", authController.UpdateAccount)

	apiRouter := r.Group("/api")
	apiRouter.GET("/products", productController.FindAll)
	apiRouter.GET("/products/:id", productController.FindByID)
	apiRouter.GET("/search", productController.Search)
	apiRouter.POST("/products", requireAuth,
		middlewares.RoleBasedAccessControl(constants.RoleSeller, constants.RoleAdmin),
		productController.Create)

	cartRouter := apiRouter.Group("/cart", requireAuth)
	cartRouter.GET("", cartController.List)
	cartRouter.POST("/add", cartController.Add)
	cartRouter.POST("/update/:itemId", cartController.Update)
	cartRouter.DELETE("/remove/:itemId", cartController.Remove)

	pageRouter := r.Group("", middlewares.PageAuthMiddleware(authService))
	pageRouter.GET("/cart", checkoutController.CartPage)
	pageRouter.GET("/payment", checkoutController.PaymentPage)
	pageRouter.POST("/create-checkout-session", checkoutController.CreateCheckoutSession)
	pageRouter.GET("/thank-you", checkoutController.ThankYou)
	pageRouter.POST("/process_payment", checkoutController.ProcessPayment)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders("Authorization")
	return cors.New(cfg)
}
