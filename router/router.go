package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/cache"
	"github.com/menucloud/menucloud/controllers"
	"github.com/menucloud/menucloud/middlewares"
	"github.com/menucloud/menucloud/services"
)

// SetupRouter wires the public and admin surfaces. The cache store and
// resolver are passed in explicitly; nothing here reaches for globals.
func SetupRouter(db *gorm.DB, store cache.Store, resolver *services.TenantResolver) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.MetricsMiddleware())

	// 50 requests/second/IP across the whole surface. Must be registered
	// before any route; gin snapshots the handler chain at registration.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	assembler := services.NewMenuAssembler(db, store)
	warmer := services.NewCacheWarmer(assembler, store)

	userCtrl := controllers.NewUserController(db)
	publicCtrl := controllers.NewPublicController(resolver, assembler)
	tenantCtrl := controllers.NewTenantController(db, resolver, warmer)
	categoryCtrl := controllers.NewCategoryController(db, warmer)
	itemCtrl := controllers.NewMenuItemController(db, warmer)
	settingsCtrl := controllers.NewSettingsController(db, warmer)
	allergenCtrl := controllers.NewAllergenController(db, warmer)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	// The diner-facing menu. No auth, tenant comes from the path, every
	// response is served through the tenant-scoped cache.
	public := r.Group("/public/:subdomain")
	{
		public.GET("/menu-items", publicCtrl.GetMenuItems)
		public.GET("/categories", publicCtrl.GetCategories)
		public.GET("/settings", publicCtrl.GetSettings)
	}

	// Login/register with a hard throttle.
	authPublic := r.Group("/")
	authPublic.Use(middlewares.NewStrictRateLimiter())
	{
		authPublic.POST("/register", userCtrl.Register)
		authPublic.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	// Every write invalidates the tenant's cache and schedules warming.
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	// Tenant provisioning (platform admins, no tenant scope).
	auth.POST("/tenants", middlewares.RequireRole("admin"), tenantCtrl.CreateTenant)
	auth.PATCH("/tenants/:tenant_id/status", middlewares.RequireRole("admin"), tenantCtrl.UpdateTenantStatus)

	// Tenant-scoped management.
	scoped := auth.Group("/")
	scoped.Use(middlewares.TenantMiddleware(resolver))
	{
		scoped.GET("/categories", categoryCtrl.GetAllCategories)
		scoped.POST("/categories", categoryCtrl.CreateCategory)
		scoped.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		scoped.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		scoped.GET("/menu-items", itemCtrl.GetAllMenuItems)
		scoped.POST("/menu-items", itemCtrl.CreateMenuItem)
		scoped.GET("/menu-items/:item_id", itemCtrl.GetMenuItemByID)
		scoped.PATCH("/menu-items/:item_id", itemCtrl.UpdateMenuItem)
		scoped.DELETE("/menu-items/:item_id", itemCtrl.DeleteMenuItem)

		scoped.GET("/settings", settingsCtrl.GetSettings)
		scoped.PUT("/settings", settingsCtrl.UpsertSettings)

		scoped.GET("/allergens", allergenCtrl.GetAllAllergens)
		scoped.POST("/allergens", allergenCtrl.CreateAllergen)
		scoped.DELETE("/allergens/:allergen_id", allergenCtrl.DeleteAllergen)
	}

	return r
}
