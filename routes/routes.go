package routes

import (
	"net/http"
	"time"

	"deskhive/handlers"
	"deskhive/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.POST("", bh.CreateBooking)
		api.GET("/:id", bh.GetBooking)
		api.GET("/series/:seriesId", bh.GetSeries)
		api.POST("/:id/approve", bh.ApproveBooking)
		api.POST("/:id/reject", bh.RejectBooking)
		api.POST("/:id/cancel", bh.CancelBooking)
	}
	r.POST("/api/availability", bh.CheckAvailability)
}

// RegisterResourceRoutes registers space management endpoints.
func RegisterResourceRoutes(r *gin.Engine, rh *handlers.ResourceHandler) {
	api := r.Group("/api/resources")
	{
		api.POST("", rh.CreateResource)
		api.GET("", rh.ListResources)
		api.GET("/:id", rh.GetResource)
		api.PUT("/:id", rh.UpdateResource)
		api.DELETE("/:id", rh.DeactivateResource)
	}
}

// RegisterHealthRoute exposes the liveness snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, rh *handlers.ResourceHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Actor-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, bh)
	RegisterResourceRoutes(r, rh)
	RegisterHealthRoute(r)
}
