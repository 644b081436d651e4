package handlers

import (
	"net/http"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/usecase"
)

type SettingsHandler struct {
	Settings *usecase.SettingsUseCase
	Numbers  *usecase.NumbersUseCase
	Points   *usecase.PointsUseCase
}

func NewSettingsHandler(settings *usecase.SettingsUseCase, numbers *usecase.NumbersUseCase, points *usecase.PointsUseCase) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Numbers: numbers, Points: points}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"settings": s})
}

func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var s entity.Settings
	if err := decodeJSON(r, &s); err != nil {
		badRequest(w, err.Error())
		return
	}

	saved, err := h.Settings.Save(r.Context(), middleware.UserID(r.Context()), &s)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"settings": saved})
}

func (h *SettingsHandler) GetQuietHours(w http.ResponseWriter, r *http.Request) {
	q, err := h.Settings.GetQuietHours(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"quiet_hours": q})
}

func (h *SettingsHandler) SaveQuietHours(w http.ResponseWriter, r *http.Request) {
	var q entity.QuietHours
	if err := decodeJSON(r, &q); err != nil {
		badRequest(w, err.Error())
		return
	}

	saved, err := h.Settings.SaveQuietHours(r.Context(), middleware.UserID(r.Context()), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"quiet_hours": saved})
}

func (h *SettingsHandler) SearchNumbers(w http.ResponseWriter, r *http.Request) {
	numbers, err := h.Numbers.Search(r.Context(), r.URL.Query().Get("area_code"))
	if err != nil {
		recordProviderError(err)
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"numbers": numbers})
}

func (h *SettingsHandler) ClaimNumber(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.Numbers.Claim(r.Context(), middleware.UserID(r.Context()), req.PhoneNumber)
	if err != nil {
		recordProviderError(err)
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func (h *SettingsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	out, err := h.Points.Balance(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

type spendRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

func (h *SettingsHandler) Spend(w http.ResponseWriter, r *http.Request) {
	var req spendRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.Points.Spend(r.Context(), middleware.UserID(r.Context()), req.Amount, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, out)
}

func recordProviderError(err error) {
	if usecase.IsTechnicalError(err) {
		middleware.RecordIntegrationError("telnyx")
	}
}
