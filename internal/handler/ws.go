package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/potledger/escrow/internal/auth"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/infra"
)

// WSHandler upgrades authenticated clients onto a game's live event stream.
type WSHandler struct {
	hub *infra.WSHub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *infra.WSHub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Subscribe handles GET /games/{gameID}/ws.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid game id"))
		return
	}

	userID := auth.SubjectFromContext(r.Context())
	h.hub.ServeWS(w, r, "game:"+gameID.String(), userID)
}
