package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newDraft(aggType AggregateType, aggID string, evtType EventType, payload any) OutboxDraft {
	body, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: aggType,
		AggregateID:   aggID,
		EventType:     evtType,
		PartitionKey:  aggID,
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}

// NewGameCreatedEvent records a new escrow game.
func NewGameCreatedEvent(game *Game) OutboxDraft {
	return newDraft(AggregateGame, game.ID.String(), EventGameCreated, game)
}

// NewGameEndedEvent records the banker ending the game.
func NewGameEndedEvent(game *Game, endedBy uuid.UUID) OutboxDraft {
	return newDraft(AggregateGame, game.ID.String(), EventGameEnded, map[string]string{
		"game_id":  game.ID.String(),
		"ended_by": endedBy.String(),
	})
}

// NewPlayerJoinedEvent records a user joining a game.
func NewPlayerJoinedEvent(player *Player) OutboxDraft {
	return newDraft(AggregateGame, player.GameID.String(), EventPlayerJoined, player)
}

// NewRequestSubmittedEvent records a new cash-out declaration. supersededID is
// the disputed request this submission replaces, if any.
func NewRequestSubmittedEvent(req *CashOutRequest, supersededID *uuid.UUID) OutboxDraft {
	payload := map[string]any{
		"request_id": req.ID.String(),
		"game_id":    req.GameID.String(),
		"player_id":  req.PlayerID.String(),
		"chip_count": req.ChipCount,
	}
	if supersededID != nil {
		payload["supersedes"] = supersededID.String()
	}
	return newDraft(AggregateRequest, req.ID.String(), EventRequestSubmitted, payload)
}

// NewVoteCastEvent records a single approval or dispute vote.
func NewVoteCastEvent(req *CashOutRequest, approval *Approval) OutboxDraft {
	payload := map[string]any{
		"request_id":    req.ID.String(),
		"game_id":       req.GameID.String(),
		"voter_user_id": approval.VoterUserID.String(),
		"approved":      approval.Approved,
	}
	if approval.CounterValue != nil {
		payload["counter_value"] = *approval.CounterValue
	}
	return newDraft(AggregateRequest, req.ID.String(), EventVoteCast, payload)
}

// NewRequestStatusEvent records a request transitioning to disputed or approved.
func NewRequestStatusEvent(req *CashOutRequest) OutboxDraft {
	evtType := EventRequestDisputed
	if req.Status == RequestApproved {
		evtType = EventRequestApproved
	}
	return newDraft(AggregateRequest, req.ID.String(), evtType, req)
}

// NewPlayerCashedOutEvent records finalization of a player's cash-out.
func NewPlayerCashedOutEvent(player *Player, chipCount int64) OutboxDraft {
	return newDraft(AggregatePlayer, player.ID.String(), EventPlayerCashedOut, map[string]any{
		"player_id":        player.ID.String(),
		"game_id":          player.GameID.String(),
		"user_id":          player.UserID.String(),
		"final_chip_count": chipCount,
	})
}

// NewPayoutEvent records the payout trigger invocation and its outcome.
// reference is the approved request ID, the external idempotency key.
func NewPayoutEvent(req *CashOutRequest, success bool, reference, detail string) OutboxDraft {
	evtType := EventPayoutRequested
	if !success {
		evtType = EventPayoutFailed
	}
	return newDraft(AggregatePayout, req.ID.String(), evtType, map[string]any{
		"request_id": req.ID.String(),
		"game_id":    req.GameID.String(),
		"player_id":  req.PlayerID.String(),
		"amount":     req.ChipCount,
		"reference":  reference,
		"detail":     detail,
	})
}
