package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/usecase"
)

type DNCHandler struct {
	DNC *usecase.DNCUseCase
}

func NewDNCHandler(uc *usecase.DNCUseCase) *DNCHandler {
	return &DNCHandler{DNC: uc}
}

type phoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (h *DNCHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.DNC.Stats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, st)
}

func (h *DNCHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.DNC.List(r.Context(), middleware.UserID(r.Context()), q.Get("search"), parsePage(q.Get("page")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func (h *DNCHandler) Export(w http.ResponseWriter, r *http.Request) {
	body, err := h.DNC.Export(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	name := fmt.Sprintf("dnc-%s.csv", time.Now().UTC().Format("20060102-150405"))
	writeAttachment(w, name, "text/csv", body)
}

func (h *DNCHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.DNC.History(r.Context(), middleware.UserID(r.Context()),
		q.Get("action"), q.Get("phone"), parsePage(q.Get("page")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func (h *DNCHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in usecase.DNCAddInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	entry, err := h.DNC.Add(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordDNCAdded(1)
	writeOK(w, http.StatusCreated, map[string]any{"entry": entry})
}

func (h *DNCHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	var in usecase.DNCBulkAddInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.DNC.BulkAdd(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordDNCAdded(out.Added)
	writeOK(w, http.StatusOK, out)
}

func (h *DNCHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := h.DNC.Remove(r.Context(), middleware.UserID(r.Context()), req.PhoneNumber); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

func (h *DNCHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.DNC.Check(r.Context(), middleware.UserID(r.Context()), req.PhoneNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}
