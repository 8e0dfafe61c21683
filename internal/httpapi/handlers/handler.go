package handlers

import (
	"github.com/ergolab/consulta/internal/configcache"
	"github.com/ergolab/consulta/internal/consult"
	"github.com/ergolab/consulta/internal/session"
	"github.com/ergolab/consulta/internal/store"
)

type Handler struct {
	Repo     *store.Repo
	Cache    *configcache.Cache
	Sessions session.Store
	Consult  *consult.Service
}

func NewHandler(repo *store.Repo, cache *configcache.Cache, sessions session.Store, svc *consult.Service) *Handler {
	return &Handler{
		Repo:     repo,
		Cache:    cache,
		Sessions: sessions,
		Consult:  svc,
	}
}
