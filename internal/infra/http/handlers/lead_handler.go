package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/usecase"
)

type LeadHandler struct {
	Leads *usecase.LeadUseCase
	Bulk  *usecase.BulkActionUseCase
}

func NewLeadHandler(leads *usecase.LeadUseCase, bulk *usecase.BulkActionUseCase) *LeadHandler {
	return &LeadHandler{Leads: leads, Bulk: bulk}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := usecase.LeadFilter{
		ShowArchived: parseBool(q.Get("archived")),
		CampaignID:   q.Get("campaign_id"),
		Tag:          q.Get("tag"),
		Search:       q.Get("q"),
		HotOnly:      parseBool(q.Get("hot")),
	}

	leads, err := h.Leads.List(r.Context(), middleware.UserID(r.Context()), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"leads": leads, "total": len(leads)})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"lead": lead})
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.LeadInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	lead, err := h.Leads.Create(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, map[string]any{"lead": lead})
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.LeadInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	lead, err := h.Leads.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"lead": lead})
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

func (h *LeadHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var in usecase.BulkActionInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.Bulk.Execute(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordBulkAction(string(in.Action))
	writeOK(w, http.StatusOK, out)
}

type bulkDeleteRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

func (h *LeadHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	n, err := h.Bulk.Delete(r.Context(), middleware.UserID(r.Context()), req.LeadIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordBulkAction("delete")
	writeOK(w, http.StatusOK, map[string]any{"deletedCount": n})
}

func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	var in usecase.ExportInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.Leads.Export(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, out.Filename, out.ContentType, out.Body)
}

func (h *LeadHandler) RecalculateScores(w http.ResponseWriter, r *http.Request) {
	out, err := h.Leads.QueueRescore(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func parsePage(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil || p < 0 {
		return 0
	}
	return p
}
