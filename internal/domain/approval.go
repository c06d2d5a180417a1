package domain

import (
	"time"

	"github.com/google/uuid"
)

// Approval represents a request_approvals row: one voter's attestation on one
// cash-out request. At most one exists per (request, voter) pair.
type Approval struct {
	ID           uuid.UUID `json:"id"`
	RequestID    uuid.UUID `json:"request_id"`
	VoterUserID  uuid.UUID `json:"voter_user_id"`
	Approved     bool      `json:"approved"`
	CounterValue *int64    `json:"counter_value,omitempty"` // proposed alternative count, dispute only
	CreatedAt    time.Time `json:"created_at"`
}
