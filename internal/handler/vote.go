package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/service"
)

// VoteHandler handles the approval endpoints on a cash-out request.
type VoteHandler struct {
	escrowSvc *service.EscrowService
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(escrowSvc *service.EscrowService) *VoteHandler {
	return &VoteHandler{escrowSvc: escrowSvc}
}

type castVoteInput struct {
	Approved     bool   `json:"approved"`
	CounterValue *int64 `json:"counter_value,omitempty"`
}

// Cast handles POST /cashouts/{requestID}/votes.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid request id"))
		return
	}

	var input castVoteInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.escrowSvc.CastVote(r.Context(), requestID, userID, input.Approved, input.CounterValue)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /cashouts/{requestID}/votes.
func (h *VoteHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid request id"))
		return
	}

	approvals, err := h.escrowSvc.ListApprovals(r.Context(), requestID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, approvals)
}
