package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ergolab/consulta/internal/common"
	"github.com/ergolab/consulta/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Knowledge-base CRUD. All writes go through the config cache, which
// invalidates the knowledge snapshot before returning.

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return id, true
}

func kbWriteError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		common.Fail(c, http.StatusNotFound, "Registro não encontrado")
		return
	}
	common.Fail(c, http.StatusBadRequest, "Não foi possível salvar o registro")
}

// Products

type productReq struct {
	Name              *string `json:"name"`
	Category          *string `json:"category"`
	Description       *string `json:"description"`
	DosageInfo        *string `json:"dosageInfo"`
	Contraindications *string `json:"contraindications"`
	IsActive          *bool   `json:"isActive"`
}

func (r productReq) apply(p *models.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.DosageInfo != nil {
		p.DosageInfo = *r.DosageInfo
	}
	if r.Contraindications != nil {
		p.Contraindications = *r.Contraindications
	}
	if r.IsActive != nil {
		p.IsActive = r.IsActive
	}
}

func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.Repo.ListProducts(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, products)
}

func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || req.Category == nil {
		common.Fail(c, http.StatusBadRequest, "Produto inválido")
		return
	}

	var p models.Product
	req.apply(&p)
	if err := h.Cache.CreateProduct(c.Request.Context(), &p); err != nil {
		kbWriteError(c, err)
		return
	}
	common.OK(c, p)
}

func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Produto inválido")
		return
	}

	p, err := h.Cache.UpdateProduct(c.Request.Context(), id, req.apply)
	if err != nil {
		kbWriteError(c, err)
		return
	}
	common.OK(c, p)
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Cache.DeleteProduct(c.Request.Context(), id); err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, gin.H{"success": true})
}

// Protocols

type protocolReq struct {
	Title         *string   `json:"title"`
	Category      *string   `json:"category"`
	TargetGoal    *string   `json:"targetGoal"`
	TargetGender  *string   `json:"targetGender"`
	MinExperience *int      `json:"minExperience"`
	MaxExperience *int      `json:"maxExperience"`
	ProtocolSteps *[]string `json:"protocolSteps"`
	Duration      *string   `json:"duration"`
	Warnings      *string   `json:"warnings"`
	PCTRequired   *bool     `json:"pctRequired"`
	IsActive      *bool     `json:"isActive"`
}

func (r protocolReq) apply(p *models.Protocol) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.TargetGoal != nil {
		p.TargetGoal = *r.TargetGoal
	}
	if r.TargetGender != nil {
		p.TargetGender = *r.TargetGender
	}
	if r.MinExperience != nil {
		p.MinExperience = *r.MinExperience
	}
	if r.MaxExperience != nil {
		p.MaxExperience = r.MaxExperience
	}
	if r.ProtocolSteps != nil {
		p.ProtocolSteps = *r.ProtocolSteps
	}
	if r.Duration != nil {
		p.Duration = *r.Duration
	}
	if r.Warnings != nil {
		p.Warnings = *r.Warnings
	}
	if r.PCTRequired != nil {
		p.PCTRequired = *r.PCTRequired
	}
	if r.IsActive != nil {
		p.IsActive = r.IsActive
	}
}

func (h *Handler) AdminListProtocols(c *gin.Context) {
	protocols, err := h.Repo.ListProtocols(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, protocols)
}

func (h *Handler) AdminCreateProtocol(c *gin.Context) {
	var req protocolReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == nil || req.Category == nil || req.TargetGoal == nil {
		common.Fail(c, http.StatusBadRequest, "Protocolo inválido")
		return
	}

	var p models.Protocol
	req.apply(&p)
	if err := h.Cache.CreateProtocol(c.Request.Context(), &p); err != nil {
		kbWriteError(c, err)
		return
	}
	common.OK(c, p)
}

func (h *Handler) AdminUpdateProtocol(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req protocolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Protocolo inválido")
		return
	}

	p, err := h.Cache.UpdateProtocol(c.Request.Context(), id, req.apply)
	if err != nil {
		kbWriteError(c, err)
		return
	}
	common.OK(c, p)
}

func (h *Handler) AdminDeleteProtocol(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Cache.DeleteProtocol(c.Request.Context(), id); err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, gin.H{"success": true})
}

// Knowledge entries

type knowledgeReq struct {
	Category *string   `json:"category"`
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Priority *int      `json:"priority"`
	IsActive *bool     `json:"isActive"`
}

func (r knowledgeReq) apply(k *models.KnowledgeEntry) {
	if r.Category != nil {
		k.Category = *r.Category
	}
	if r.Title != nil {
		k.Title = *r.Title
	}
	if r.Content != nil {
		k.Content = *r.Content
	}
	if r.Tags != nil {
		k.Tags = *r.Tags
	}
	if r.Priority != nil {
		k.Priority = *r.Priority
	}
	if r.IsActive != nil {
		k.IsActive = r.IsActive
	}
}

func (h *Handler) AdminListKnowledge(c *gin.Context) {
	entries, err := h.Repo.ListKnowledge(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, entries)
}

func (h *Handler) AdminCreateKnowledge(c *gin.Context) {
	var req knowledgeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Category == nil || req.Title == nil || req.Content == nil {
		common.Fail(c, http.StatusBadRequest, "Registro inválido")
		return
	}

	k := models.KnowledgeEntry{Priority: 1}
	req.apply(&k)
	if err := h.Cache.CreateKnowledge(c.Request.Context(), &k); err != nil {
		kbWriteError(c, err)
		return
	}
	common.OK(c, k)
}

func (h *Handler) AdminUpdateKnowledge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req knowledgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Registro inválido")
		return
	}

	k, err := h.Cache.UpdateKnowledge(c.Request.Context(), id, req.apply)
	if err != nil {
		kbWriteError(c, err)
		return
	}
	common.OK(c, k)
}

func (h *Handler) AdminDeleteKnowledge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Cache.DeleteKnowledge(c.Request.Context(), id); err != nil {
		common.Fail(c, http.StatusInternalServerError, "Erro interno do servidor. Tente novamente.")
		return
	}
	common.OK(c, gin.H{"success": true})
}
