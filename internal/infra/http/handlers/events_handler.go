package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
	"github.com/hyvewyre/lead-api/internal/infra/notify"
)

type EventsHandler struct {
	Hub *notify.Hub
}

func NewEventsHandler(hub *notify.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

// Stream upgrades to a websocket carrying {type, payload} messages.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.Hub.Serve(w, r, userID); err != nil {
		// Upgrade has already written the HTTP error.
		slog.Warn("websocket upgrade failed", "user_id", userID, "err", err)
	}
}
