package handlers

import (
	"errors"
	"net/http"

	"github.com/ergolab/consulta/internal/common"
	"github.com/ergolab/consulta/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createProfileReq struct {
	SessionID   string   `json:"sessionId" binding:"required"`
	Gender      string   `json:"gender" binding:"required"`
	Goal        string   `json:"goal" binding:"required"`
	Preferences []string `json:"preferences"`
	Age         int      `json:"age" binding:"required"`
	Experience  int      `json:"experience"`
}

// CreateProfile is idempotent on sessionId: posting an existing session
// returns the stored profile unchanged.
func (h *Handler) CreateProfile(c *gin.Context) {
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Dados do perfil inválidos")
		return
	}

	existing, err := h.Repo.GetUser(c.Request.Context(), req.SessionID)
	if err == nil {
		common.OK(c, existing)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	user := &models.User{
		SessionID:   req.SessionID,
		Gender:      req.Gender,
		Goal:        req.Goal,
		Preferences: req.Preferences,
		Age:         req.Age,
		Experience:  req.Experience,
	}
	if err := h.Repo.CreateUser(c.Request.Context(), user); err != nil {
		common.Fail(c, http.StatusBadRequest, "Não foi possível criar o perfil")
		return
	}
	common.OK(c, user)
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Repo.GetUser(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, user)
}

func (h *Handler) GetConversations(c *gin.Context) {
	convs, err := h.Repo.GetConversations(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, convs)
}
