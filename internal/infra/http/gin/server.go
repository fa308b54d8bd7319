package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"innkeeper/internal/infra/config"
	"innkeeper/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Rooms          RoomHTTP
	Availability   AvailabilityHTTP
	Booking        BookingHTTP
	Me             MeHTTP
	Contact        ContactHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Rooms != nil {
		api.GET("/rooms", h.Rooms.List)
		api.GET("/rooms/featured", h.Rooms.Featured)
		api.GET("/rooms/:id", h.Rooms.Get)
	}
	if h.Availability != nil {
		api.GET("/rooms/:id/calendar", h.Availability.Calendar)
		api.GET("/rooms/:id/availability", h.Availability.Check)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
	}
	if h.Contact != nil {
		api.POST("/contact", h.Contact.Submit)
	}

	admin := api.Group("/admin")
	if h.Rooms != nil {
		admin.POST("/rooms", h.Rooms.AdminCreate)
		admin.PUT("/rooms/:id", h.Rooms.AdminUpdate)
		admin.DELETE("/rooms/:id", h.Rooms.AdminDelete)
		admin.POST("/rooms/:id/photos", h.Rooms.AdminUploadPhoto)
	}
	if h.Booking != nil {
		admin.GET("/bookings", h.Booking.AdminList)
		admin.POST("/bookings/:id/status", h.Booking.AdminTransition)
	}
	if h.Contact != nil {
		admin.GET("/contact", h.Contact.AdminList)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
