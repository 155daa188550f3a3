package main

import (
	"log"
	"os"
	"strings"
	"time"

	"go-oilmill/internal/cache"
	"go-oilmill/internal/database"
	"go-oilmill/internal/handlers"
	"go-oilmill/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	cache.InitRedis()

	r := gin.Default()

	// The admin panel runs on its own dev server locally
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	r.POST("/api/admin/login", middleware.RateLimiter(), handlers.Login)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/api/admin/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	api := r.Group("/api")
	{
		// Products
		api.GET("/products", handlers.GetProducts)
		api.POST("/products", handlers.AddProduct)
		api.PUT("/products", handlers.UpdateProduct)
		api.DELETE("/products", handlers.DeleteProduct)

		// Purchase bills
		api.GET("/purchases", handlers.GetPurchases)
		api.POST("/purchases", handlers.CreatePurchase)
		api.GET("/purchases/next-bill-number", handlers.NextPurchaseBillNumber)
		api.GET("/purchases/:id", handlers.GetPurchase)
		api.PUT("/purchases/:id", handlers.UpdatePurchase)
		api.DELETE("/purchases/:id", handlers.DeletePurchase)

		// Sales invoices
		api.GET("/sales", handlers.GetSales)
		api.POST("/sales", handlers.CreateSale)
		api.GET("/sales/next-bill-number", handlers.NextSaleBillNumber)
		api.GET("/sales/:id", handlers.GetSale)
		api.PUT("/sales/:id", handlers.UpdateSale)
		api.DELETE("/sales/:id", handlers.DeleteSale)

		// Customer reviews
		api.GET("/reviews", handlers.GetReviews)
		api.POST("/reviews", handlers.AddReview)
		api.GET("/reviews/:id", handlers.GetReview)
		api.PUT("/reviews/:id", handlers.UpdateReview)
		api.DELETE("/reviews/:id", handlers.DeleteReview)

		// Contact messages (admin enquiries table)
		api.GET("/messages", handlers.GetMessages)
		api.POST("/messages", handlers.AddMessage)
		api.GET("/messages/:id", handlers.GetMessage)
		api.PUT("/messages/:id", handlers.UpdateMessage)
		api.DELETE("/messages/:id", handlers.DeleteMessage)

		// Public contact form (rate-limited per IP)
		api.GET("/contact", handlers.GetContactMessages)
		api.POST("/contact", middleware.RateLimiter(), handlers.SubmitContactForm)

		// ADMIN ONLY: the books assistant
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)
		}
	}

	// --- DEPLOYMENT: Serve the exported marketing site ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/favicon.ico", "./web/favicon.ico")

	// SPA Catch-All: if the visitor refreshes on "/about",
	// serve index.html so the frontend can handle the routing.
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
