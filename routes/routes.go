package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/configs"
	"github.com/fiskryeziu/hotdrop/controllers"
	"github.com/fiskryeziu/hotdrop/entity"
	"github.com/fiskryeziu/hotdrop/middlewares"
	"github.com/fiskryeziu/hotdrop/repository"
	"github.com/fiskryeziu/hotdrop/services"
	"github.com/fiskryeziu/hotdrop/ws"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, hub *ws.Hub, router *ws.Router, log *zap.Logger) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories and services
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderSvc := services.NewOrderService(db, orderRepo, productRepo, router, log)

	// Controllers
	authCtrl := controllers.NewAuthController(db, cfg.JWTSecret, cfg.JWTTTL)
	productCtrl := controllers.NewProductController(productRepo)
	orderCtrl := controllers.NewOrderController(orderSvc)
	driverCtrl := controllers.NewDriverController(orderSvc)
	wsHandler := ws.NewHandler(hub, router, log)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret), authCtrl.Me)

	// Catalog (public)
	r.GET("/products", productCtrl.List)
	r.GET("/products/:id", productCtrl.Detail)
	r.GET("/categories/:id/products", productCtrl.ByCategory)

	// Orders (authenticated)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.POST("/orders", orderCtrl.Create)
		u.GET("/orders", orderCtrl.ListForMe)
		u.GET("/orders/:id", orderCtrl.Detail)
	}

	// Status transitions (admin/delivery only; customers observe)
	staff := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleAdmin, entity.RoleDelivery))
	{
		staff.PUT("/orders/:id/status", orderCtrl.UpdateStatus)
	}

	// Delivery dashboard
	driver := r.Group("/driver", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleDelivery, entity.RoleAdmin))
	{
		driver.GET("/orders", driverCtrl.Jobs)
		driver.POST("/orders/:id/claim", driverCtrl.Claim)
	}

	// Realtime tracking
	r.GET("/ws/tracking", middlewares.WSAuthMiddleware(cfg.JWTSecret), wsHandler.Tracking)
}
