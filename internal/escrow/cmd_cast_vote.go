package escrow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/repository"
)

// VoteParams holds the input for CastVote.
type VoteParams struct {
	RequestID    uuid.UUID
	VoterUserID  uuid.UUID
	Approved     bool
	CounterValue *int64
}

// VoteResult is the outcome of CastVote.
type VoteResult struct {
	Approval  *domain.Approval       `json:"approval"`
	Request   *domain.CashOutRequest `json:"request"` // post-evaluation state
	Player    *domain.Player         `json:"player,omitempty"` // updated on finalization, nil otherwise
	Finalized bool                   `json:"finalized"`
	Events    []domain.OutboxDraft   `json:"-"`
}

// CastVote records one voter's attestation and re-evaluates the request.
// The request row is locked for the duration of the transaction, so two
// concurrent votes on the same request serialize and evaluation always sees
// the committed vote set.
func (e *Engine) CastVote(ctx context.Context, tx pgx.Tx, params VoteParams) (*VoteResult, error) {
	if params.CounterValue != nil {
		if params.Approved {
			return nil, domain.ErrValidation("counter_value is only allowed on a dispute")
		}
		if err := domain.ValidateChipCount(*params.CounterValue); err != nil {
			return nil, domain.ErrValidation("counter_value: " + err.Error())
		}
	}

	// Lock
	req, err := e.requests.LockForUpdate(ctx, tx, params.RequestID)
	if err != nil {
		return nil, fmt.Errorf("vote: lock request: %w", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound("request", params.RequestID.String())
	}
	// Approved requests are terminal; a superseded disputed request is no
	// longer the live declaration and takes no further votes either.
	if !req.IsOpen() {
		return nil, domain.ErrRequestNotOpen(req.Status)
	}

	player, err := e.players.FindByID(ctx, tx, req.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("vote: find player: %w", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", req.PlayerID.String())
	}

	game, err := e.games.FindByID(ctx, tx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("vote: find game: %w", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", req.GameID.String())
	}

	eligible, err := e.eligibleForRequest(ctx, tx, game, player.UserID)
	if err != nil {
		return nil, err
	}
	if _, ok := eligible[params.VoterUserID]; !ok {
		return nil, domain.ErrForbidden("not eligible to vote on this request")
	}

	approval, err := e.approvals.Insert(ctx, tx, &domain.Approval{
		ID:           uuid.New(),
		RequestID:    req.ID,
		VoterUserID:  params.VoterUserID,
		Approved:     params.Approved,
		CounterValue: params.CounterValue,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrAlreadyVoted(req.ID.String())
		}
		return nil, fmt.Errorf("vote: %w", err)
	}

	result := &VoteResult{Approval: approval, Request: req}
	result.Events = append(result.Events, domain.NewVoteCastEvent(req, approval))

	votes, err := e.approvals.ListByRequest(ctx, tx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("vote: list approvals: %w", err)
	}

	newStatus := Evaluate(votes, eligible)
	if newStatus != req.Status {
		switch newStatus {
		case domain.RequestDisputed:
			req, err = e.requests.UpdateStatus(ctx, tx, req.ID, domain.RequestDisputed)
			if err != nil {
				return nil, fmt.Errorf("vote: mark disputed: %w", err)
			}
			result.Request = req
			result.Events = append(result.Events, domain.NewRequestStatusEvent(req))
		case domain.RequestApproved:
			req, updatedPlayer, events, err := e.finalize(ctx, tx, req, player)
			if err != nil {
				return nil, err
			}
			result.Request = req
			result.Player = updatedPlayer
			result.Finalized = true
			result.Events = append(result.Events, events...)
		}
	}

	for _, event := range result.Events {
		if err := e.outbox.Insert(ctx, tx, event); err != nil {
			return nil, fmt.Errorf("vote: insert outbox event: %w", err)
		}
	}

	return result, nil
}
