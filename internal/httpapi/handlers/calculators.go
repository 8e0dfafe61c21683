package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ergolab/consulta/internal/calc"
	"github.com/ergolab/consulta/internal/common"
	"github.com/ergolab/consulta/internal/models"
	"github.com/gin-gonic/gin"
)

// saveCalculation persists the input/output pair for analytics; a failure
// never blocks the calculator response.
func (h *Handler) saveCalculation(c *gin.Context, sessionID, calcType string, inputs, results any) {
	in, err := json.Marshal(inputs)
	if err != nil {
		return
	}
	out, err := json.Marshal(results)
	if err != nil {
		return
	}
	calcRow := &models.UserCalculation{
		SessionID:       sessionID,
		CalculationType: calcType,
		Inputs:          in,
		Results:         out,
	}
	if err := h.Repo.SaveCalculation(c.Request.Context(), calcRow); err != nil {
		log.Printf("save calculation failed session=%s type=%s err=%v", sessionID, calcType, err)
	}
}

type tmbReq struct {
	SessionID string `json:"sessionId"`
	calc.TMBInput
}

func (h *Handler) CalculateTMB(c *gin.Context) {
	var req tmbReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	results := calc.TMB(req.TMBInput)
	h.saveCalculation(c, req.SessionID, "tmb", req.TMBInput, results)
	common.OK(c, results)
}

type macrosReq struct {
	SessionID string `json:"sessionId"`
	calc.MacrosInput
}

func (h *Handler) CalculateMacros(c *gin.Context) {
	var req macrosReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	results := calc.Macros(req.MacrosInput)
	h.saveCalculation(c, req.SessionID, "macros", req.MacrosInput, results)
	common.OK(c, results)
}

type caloriesReq struct {
	SessionID string `json:"sessionId"`
	calc.CaloriesInput
}

func (h *Handler) CalculateCalories(c *gin.Context) {
	var req caloriesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	results := calc.Calories(req.CaloriesInput)
	h.saveCalculation(c, req.SessionID, "calories", req.CaloriesInput, results)
	common.OK(c, results)
}

func (h *Handler) GetCalculations(c *gin.Context) {
	calcs, err := h.Repo.GetUserCalculations(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, calcs)
}
