package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ergolab/consulta/internal/auth"
	"github.com/ergolab/consulta/internal/common"
	"github.com/ergolab/consulta/internal/httpapi/middleware"
	"github.com/ergolab/consulta/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	admin, err := h.Repo.GetAdmin(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	valid, err := auth.ComparePassword(req.Password, admin.Password)
	if err != nil || !valid {
		common.Fail(c, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	if err := h.Repo.UpdateAdminLastLogin(c.Request.Context(), req.Username); err != nil {
		log.Printf("admin last-login update failed username=%s err=%v", req.Username, err)
	}

	sess, err := h.Sessions.Create(c.Request.Context(), admin.ID, admin.Username)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro de sessão. Tente novamente.")
		return
	}
	c.SetCookie(middleware.SessionCookieName, sess.ID, 0, "/", "", false, true)

	common.OK(c, gin.H{
		"id":        admin.ID,
		"username":  admin.Username,
		"lastLogin": admin.LastLogin,
	})
}

func (h *Handler) AdminLogout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie != "" {
		_ = h.Sessions.Delete(c.Request.Context(), cookie)
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	common.OK(c, gin.H{"success": true})
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, err := h.Repo.TotalUsers(ctx)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	totalConversations, err := h.Repo.TotalConversations(ctx)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	activeToday, err := h.Repo.ActiveUsersToday(ctx)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	byObjective, err := h.Repo.UsersByObjective(ctx)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	end := time.Now()
	start := end.Add(-24 * time.Hour)
	recentUsage, err := h.Repo.GetAPIUsage(ctx, &start, &end)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	totalTokens := 0
	for _, u := range recentUsage {
		totalTokens += u.TokensUsed
	}
	// rough 24h estimate at a fixed 0.002/1k; exact per-row costs priced from
	// the api_cost_per_1k_tokens setting live in api_usage
	estimatedCost := float64(totalTokens) / 1000 * 0.002

	common.OK(c, gin.H{
		"totalUsers":         totalUsers,
		"totalConversations": totalConversations,
		"activeUsersToday":   activeToday,
		"usersByObjective":   byObjective,
		"apiUsage": gin.H{
			"tokensUsed24h":    totalTokens,
			"estimatedCost24h": fmt.Sprintf("%.4f", estimatedCost),
			"requestCount24h":  len(recentUsage),
		},
	})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Repo.ListUsers(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, users)
}

func (h *Handler) AdminUserDetail(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionId")

	user, err := h.Repo.GetUser(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	conversations, err := h.Repo.GetConversations(ctx, sessionID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	calculations, err := h.Repo.GetUserCalculations(ctx, sessionID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	common.OK(c, gin.H{
		"user":          user,
		"conversations": conversations,
		"calculations":  calculations,
	})
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (h *Handler) AdminListConversations(c *gin.Context) {
	ctx := c.Request.Context()

	search := c.Query("search")
	if search != "" {
		start := parseDate(c.Query("startDate"))
		end := parseDate(c.Query("endDate"))
		convs, err := h.Repo.SearchConversations(ctx, search, start, end)
		if err != nil {
			common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
			return
		}
		common.OK(c, convs)
		return
	}

	convs, err := h.Repo.ListConversations(ctx)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, convs)
}

func (h *Handler) AdminListSettings(c *gin.Context) {
	settings, err := h.Repo.ListSettings(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, settings)
}

type settingReq struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// AdminSetSetting upserts a setting row. Visibility through the config cache
// is TTL-bounded; settings writes do not invalidate the snapshot.
func (h *Handler) AdminSetSetting(c *gin.Context) {
	var req settingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Configuração inválida")
		return
	}

	setting, err := h.Repo.SetSetting(c.Request.Context(), &models.SystemSetting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "Não foi possível salvar a configuração")
		return
	}
	common.OK(c, setting)
}

func (h *Handler) AdminAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	start := parseDate(c.Query("startDate"))
	end := parseDate(c.Query("endDate"))
	if start == nil {
		t := time.Now().Add(-30 * 24 * time.Hour)
		start = &t
	}
	if end == nil {
		t := time.Now()
		end = &t
	}

	usage, err := h.Repo.GetAPIUsage(ctx, start, end)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	byObjective, err := h.Repo.UsersByObjective(ctx)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	type dayStats struct {
		Requests int     `json:"requests"`
		Tokens   int     `json:"tokens"`
		Cost     float64 `json:"cost"`
	}
	usageByDay := make(map[string]*dayStats)
	totalTokens := 0
	totalCost := 0.0
	for _, u := range usage {
		day := u.Timestamp.Format("2006-01-02")
		stats, ok := usageByDay[day]
		if !ok {
			stats = &dayStats{}
			usageByDay[day] = stats
		}
		cost, _ := strconv.ParseFloat(u.Cost, 64)
		stats.Requests++
		stats.Tokens += u.TokensUsed
		stats.Cost += cost
		totalTokens += u.TokensUsed
		totalCost += cost
	}

	common.OK(c, gin.H{
		"usageByDay":       usageByDay,
		"usersByObjective": byObjective,
		"totalRequests":    len(usage),
		"totalTokens":      totalTokens,
		"totalCost":        totalCost,
	})
}
