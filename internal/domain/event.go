package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventGameCreated      EventType = "escrow.game.created"
	EventGameEnded        EventType = "escrow.game.ended"
	EventPlayerJoined     EventType = "escrow.player.joined"
	EventPlayerCashedOut  EventType = "escrow.player.cashed_out"
	EventRequestSubmitted EventType = "escrow.request.submitted"
	EventRequestDisputed  EventType = "escrow.request.disputed"
	EventRequestApproved  EventType = "escrow.request.approved"
	EventVoteCast         EventType = "escrow.request.vote_cast"
	EventPayoutRequested  EventType = "escrow.payout.requested"
	EventPayoutFailed     EventType = "escrow.payout.failed"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateGame    AggregateType = "game"
	AggregatePlayer  AggregateType = "player"
	AggregateRequest AggregateType = "request"
	AggregatePayout  AggregateType = "payout"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
