package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/service"
)

// CashOutHandler handles cash-out request submission and inspection.
type CashOutHandler struct {
	escrowSvc *service.EscrowService
}

// NewCashOutHandler creates a new CashOutHandler.
func NewCashOutHandler(escrowSvc *service.EscrowService) *CashOutHandler {
	return &CashOutHandler{escrowSvc: escrowSvc}
}

type submitCashOutInput struct {
	ChipCount int64 `json:"chip_count"`
}

// Submit handles POST /games/{gameID}/cashouts.
func (h *CashOutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid game id"))
		return
	}

	var input submitCashOutInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.escrowSvc.SubmitCashOut(r.Context(), gameID, userID, input.ChipCount)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, result)
}

// ListForGame handles GET /games/{gameID}/cashouts.
func (h *CashOutHandler) ListForGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid game id"))
		return
	}

	summaries, err := h.escrowSvc.ListGameRequests(r.Context(), gameID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, summaries)
}

// ListForPlayer handles GET /players/{playerID}/cashouts.
func (h *CashOutHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid player id"))
		return
	}

	reqs, err := h.escrowSvc.ListPlayerRequests(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, reqs)
}

// Get handles GET /cashouts/{requestID}.
func (h *CashOutHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid request id"))
		return
	}

	req, err := h.escrowSvc.GetRequest(r.Context(), requestID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, req)
}
