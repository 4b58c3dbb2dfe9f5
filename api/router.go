package api

import (
	"net/http"
	"time"

	"drive-thru/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	DefaultStoreID string
	CORSOrigins    []string
}

// NewRouter wires the HTTP surface over svc and subscribes hub to its order
// updates and session ends.
func NewRouter(svc *services.OrderService, staff *services.StaffAuth, hub *Hub, opts Options, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	svc.OnOrderUpdate(hub.Publish)
	svc.OnSessionEnd(hub.Close)

	h := &Handler{svc: svc, staff: staff, hub: hub, defaultStore: opts.DefaultStoreID, log: log}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/stores/:store/menu", h.Menu)

	s := r.Group("/sessions")
	s.POST("", h.StartSession)
	s.GET("/:id/order", h.Order)
	s.POST("/:id/commands", h.Command)
	s.DELETE("/:id", h.EndSession)
	s.GET("/:id/ws", h.Socket)

	r.POST("/admin/stores/:store/products/:product/availability", h.SetAvailability)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// originChecker mirrors the CORS policy for websocket upgrades.
func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// NewHubFor builds a hub whose origin check matches the CORS origins.
func NewHubFor(origins []string, log *zap.Logger) *Hub {
	return NewHub(originChecker(origins), log)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
