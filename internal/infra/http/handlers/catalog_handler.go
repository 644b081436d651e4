package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/usecase"
)

type CatalogHandler struct {
	Catalog *usecase.CatalogUseCase
}

func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{Catalog: uc}
}

func (h *CatalogHandler) Campaigns(w http.ResponseWriter, r *http.Request) {
	list, err := h.Catalog.ListCampaigns(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"campaigns": list})
}

func (h *CatalogHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteCampaign(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

func (h *CatalogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	list, err := h.Catalog.ListTags(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"tags": list})
}
