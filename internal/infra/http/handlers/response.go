package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hyvewyre/lead-api/internal/usecase"
)

const maxJSONBody = 10 << 20

// writeOK writes {"ok": true} merged with the top-level fields of payload.
// payload may be nil, a map or any struct that encodes to a JSON object.
func writeOK(w http.ResponseWriter, status int, payload any) {
	body := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			writeError(w, err)
			return
		}
	}
	body["ok"] = true
	writeJSON(w, status, body)
}

type errorBody struct {
	OK             bool   `json:"ok"`
	Code           string `json:"code"`
	Error          string `json:"error"`
	ExistingLeadID string `json:"existing_lead_id,omitempty"`
}

// writeError maps domain errors to 4xx and everything else to 5xx. The
// message is passed through unmodified so the dashboard can show it.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := usecase.AsDomainError(err); ok {
		writeJSON(w, domainStatus(de.Code), errorBody{
			Code:           de.Code,
			Error:          de.Message,
			ExistingLeadID: de.ExistingID,
		})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		slog.Error("request failed", "code", te.Code, "err", err)
		status := http.StatusInternalServerError
		if te.Code == usecase.CodeIntegration {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorBody{Code: te.Code, Error: te.Error()})
		return
	}

	slog.Error("unexpected error", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Code: "INTERNAL_ERROR", Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Error: msg})
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeLeadExists, usecase.CodeDNCExists:
		return http.StatusConflict
	case usecase.CodeInsufficient:
		return http.StatusPaymentRequired
	case usecase.CodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON: " + err.Error())
	}
	return nil
}
