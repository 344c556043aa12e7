package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"luxeory/internal/infra/config"
	"luxeory/internal/infra/obs"
)

type RoomHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	ListByEmail(c *gin.Context)
	Reschedule(c *gin.Context)
	Cancel(c *gin.Context)
}

type ReviewHTTP interface {
	Submit(c *gin.Context)
	List(c *gin.Context)
}

type AuthHTTP interface {
	IssueToken(c *gin.Context)
	Logout(c *gin.Context)
}

type Handlers struct {
	Rooms          RoomHTTP
	Bookings       BookingHTTP
	Reviews        ReviewHTTP
	Auth           AuthHTTP
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
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Luxeory is running")
	})
	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Auth != nil {
		router.POST("/jwt", h.Auth.IssueToken)
		router.POST("/logout", h.Auth.Logout)
	}
	if h.Rooms != nil {
		router.GET("/rooms", h.Rooms.List)
		router.GET("/rooms/:id", h.Rooms.Get)
	}
	if h.Bookings != nil {
		router.POST("/bookings", h.Bookings.Create)
		router.GET("/bookings/:email", h.Bookings.ListByEmail)
		router.PATCH("/bookings/:id", h.Bookings.Reschedule)
		router.DELETE("/bookings/:id", h.Bookings.Cancel)
	}
	if h.Reviews != nil {
		router.POST("/reviews", h.Reviews.Submit)
		router.GET("/reviews", h.Reviews.List)
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
