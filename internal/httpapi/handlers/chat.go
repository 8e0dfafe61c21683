package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/ergolab/consulta/internal/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type chatReq struct {
	SessionID string `json:"sessionId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Mensagem inválida")
		return
	}

	aiMsg, err := h.Consult.Respond(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		log.Printf("chat error session=%s err=%v", req.SessionID, err)
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, aiMsg)
}

type analysisReq struct {
	SessionID string `json:"sessionId" binding:"required"`
}

func (h *Handler) Analysis(c *gin.Context) {
	var req analysisReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Sessão inválida")
		return
	}

	aiMsg, err := h.Consult.InitialAnalysis(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		log.Printf("analysis error session=%s err=%v", req.SessionID, err)
		common.Fail(c, http.StatusInternalServerError, "Erro ao gerar análise. Tente novamente.")
		return
	}
	common.OK(c, aiMsg)
}

func (h *Handler) Consultation(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Mensagem inválida")
		return
	}

	aiMsg, err := h.Consult.Consult(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		log.Printf("consultation error session=%s err=%v", req.SessionID, err)
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, aiMsg)
}

func (h *Handler) DownloadConsultation(c *gin.Context) {
	sessionID := c.Param("sessionId")

	transcript, err := h.Consult.Transcript(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=consulta-%s.txt", sessionID))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(transcript))
}
