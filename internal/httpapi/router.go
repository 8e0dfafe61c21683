package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ergolab/consulta/internal/common"
	"github.com/ergolab/consulta/internal/configcache"
	"github.com/ergolab/consulta/internal/httpapi/handlers"
	"github.com/ergolab/consulta/internal/httpapi/middleware"
	"github.com/ergolab/consulta/internal/session"
	"github.com/gin-gonic/gin"
)

// Admin routes run behind compiled-in limits; the chat limiter is configured
// from settings at startup (see ChatLimiterFromSettings).
const (
	adminRateMax    = 50
	adminRateWindow = 15 * time.Minute
)

const (
	chatRateMessage  = "Muitas solicitações. Tente novamente em 1 minuto."
	adminRateMessage = "Muitas solicitações do painel administrativo. Tente novamente em 15 minutos."
)

// ChatLimiterFromSettings builds the chat/consultation limiter from the
// rate_limit_minutes and rate_limit_requests settings, read once. Changing
// either setting afterwards takes effect only on restart.
func ChatLimiterFromSettings(ctx context.Context, cache *configcache.Cache) *middleware.RateLimiter {
	minutes, err := strconv.Atoi(cache.Get(ctx, "rate_limit_minutes", "1"))
	if err != nil || minutes <= 0 {
		minutes = 1
	}
	max, err := strconv.Atoi(cache.Get(ctx, "rate_limit_requests", "10"))
	if err != nil || max <= 0 {
		max = 10
	}
	return middleware.NewRateLimiter(max, time.Duration(minutes)*time.Minute)
}

func NewRouter(h *handlers.Handler, sessions session.Store, chatLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "Rota não encontrada")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "Método não permitido")
	})

	chatLimit := middleware.RateLimit(chatLimiter, chatRateMessage)

	api := r.Group("/api")

	api.POST("/profile", h.CreateProfile)
	api.GET("/profile/:sessionId", h.GetProfile)
	api.GET("/conversations/:sessionId", h.GetConversations)

	api.POST("/chat", chatLimit, h.Chat)
	api.POST("/analysis", h.Analysis)
	api.POST("/consultation", chatLimit, h.Consultation)
	api.GET("/consultation/:sessionId/download", h.DownloadConsultation)

	api.POST("/calculators/tmb", h.CalculateTMB)
	api.POST("/calculators/macros", h.CalculateMacros)
	api.POST("/calculators/calories", h.CalculateCalories)
	api.GET("/calculators/:sessionId", h.GetCalculations)

	admin := api.Group("/admin")
	admin.Use(middleware.RateLimit(middleware.NewRateLimiter(adminRateMax, adminRateWindow), adminRateMessage))

	admin.POST("/login", h.AdminLogin)
	admin.POST("/logout", h.AdminLogout)

	authed := admin.Group("/")
	authed.Use(middleware.AdminRequired(sessions))

	authed.GET("/dashboard", h.AdminDashboard)
	authed.GET("/users", h.AdminListUsers)
	authed.GET("/users/:sessionId", h.AdminUserDetail)
	authed.GET("/conversations", h.AdminListConversations)
	authed.GET("/settings", h.AdminListSettings)
	authed.POST("/settings", h.AdminSetSetting)
	authed.GET("/analytics", h.AdminAnalytics)

	authed.GET("/products", h.AdminListProducts)
	authed.POST("/products", h.AdminCreateProduct)
	authed.PUT("/products/:id", h.AdminUpdateProduct)
	authed.DELETE("/products/:id", h.AdminDeleteProduct)

	authed.GET("/protocols", h.AdminListProtocols)
	authed.POST("/protocols", h.AdminCreateProtocol)
	authed.PUT("/protocols/:id", h.AdminUpdateProtocol)
	authed.DELETE("/protocols/:id", h.AdminDeleteProtocol)

	authed.GET("/knowledge", h.AdminListKnowledge)
	authed.POST("/knowledge", h.AdminCreateKnowledge)
	authed.PUT("/knowledge/:id", h.AdminUpdateKnowledge)
	authed.DELETE("/knowledge/:id", h.AdminDeleteKnowledge)

	return r
}
