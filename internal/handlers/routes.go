package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/appointment-intake/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// RouterConfig carries the transport settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	// Limiter guards the unauthenticated write endpoints. Nil disables limiting.
	Limiter *middleware.RateLimiter
}

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.SetHTMLTemplate(template.Must(
		template.New("").
			Funcs(template.FuncMap{"join": strings.Join}).
			ParseFS(templatesFS, "templates/*.html"),
	))

	r.Use(middleware.Session(h.Sessions))

	limited := func(c *gin.Context) { c.Next() }
	if cfg.Limiter != nil {
		limited = middleware.RateLimit(cfg.Limiter)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	r.GET("/receive-data", limited, h.ReceiveData)

	api := r.Group("/api")
	{
		api.POST("/register", limited, h.Register)
		api.POST("/login", limited, h.Login)
		api.POST("/logout", h.Logout)
		api.GET("/user", middleware.RequireUser(), h.CurrentUser)

		api.POST("/appointments", limited, h.CreateAppointment)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/appointments", h.ListAppointments)
		admin.GET("/appointments/:id", h.GetAppointment)
		admin.PATCH("/appointments/:id", h.UpdateAppointment)
		admin.DELETE("/appointments/:id", h.DeleteAppointment)
		admin.GET("/backups/appointments", h.ListBackups)
	}

	return r
}
