package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus enumerates the cash-out request states.
//
// approved is terminal. disputed is sticky: later approvals never clear it,
// but the submitter may supersede the request by submitting a fresh one,
// which leaves the disputed request behind as a permanent record.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestDisputed RequestStatus = "disputed"
	RequestApproved RequestStatus = "approved"
)

// CashOutRequest represents a cashout_requests row: one player's declaration
// of a final chip count, awaiting unanimous attestation.
type CashOutRequest struct {
	ID         uuid.UUID     `json:"id"`
	GameID     uuid.UUID     `json:"game_id"`
	PlayerID   uuid.UUID     `json:"player_id"`
	ChipCount  int64         `json:"chip_count"` // cents, >= 0
	Status     RequestStatus `json:"status"`
	Superseded bool          `json:"superseded"` // disputed request replaced by a newer one
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// IsTerminal reports whether no further vote can change this request.
func (r *CashOutRequest) IsTerminal() bool {
	return r.Status == RequestApproved
}

// IsOpen reports whether this request still blocks a new submission by the
// same player. A superseded disputed request no longer does.
func (r *CashOutRequest) IsOpen() bool {
	switch r.Status {
	case RequestPending:
		return true
	case RequestDisputed:
		return !r.Superseded
	default:
		return false
	}
}
