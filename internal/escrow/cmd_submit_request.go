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

// SubmitParams holds the input for SubmitRequest.
type SubmitParams struct {
	GameID    uuid.UUID
	UserID    uuid.UUID
	ChipCount int64
}

// SubmitResult is the outcome of SubmitRequest.
type SubmitResult struct {
	Request    *domain.CashOutRequest `json:"request"`
	Player     *domain.Player         `json:"player"`
	Superseded *domain.CashOutRequest `json:"superseded,omitempty"` // disputed request this submission replaced
	Finalized  bool                   `json:"finalized"`            // true when the eligible voter set was empty
	Events     []domain.OutboxDraft   `json:"-"`
}

// SubmitRequest declares a final chip count for the calling user's player in
// a game. The player row is locked for the duration of the transaction so
// concurrent submissions for the same player serialize.
//
// A fresh submission is allowed in exactly two situations: the player is
// active with no open request, or the player is cashing-out and their only
// open request is disputed, in which case the disputed request is kept as a
// permanent record, marked superseded, and voting starts over on the new one.
func (e *Engine) SubmitRequest(ctx context.Context, tx pgx.Tx, params SubmitParams) (*SubmitResult, error) {
	if err := domain.ValidateChipCount(params.ChipCount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	game, err := e.games.FindByID(ctx, tx, params.GameID)
	if err != nil {
		return nil, fmt.Errorf("submit: find game: %w", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", params.GameID.String())
	}
	if game.Status == domain.GameEnded {
		return nil, domain.ErrGameEnded()
	}

	player, err := e.players.FindByGameAndUser(ctx, tx, params.GameID, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("submit: find player: %w", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", params.UserID.String())
	}

	// Lock
	player, err = e.players.LockForUpdate(ctx, tx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("submit: lock player: %w", err)
	}

	open, err := e.requests.FindOpenByPlayer(ctx, tx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("submit: find open request: %w", err)
	}

	result := &SubmitResult{Player: player}

	switch {
	case open == nil:
		if player.Status != domain.PlayerActive {
			return nil, domain.ErrPlayerNotActive(player.Status)
		}
	case open.Status == domain.RequestDisputed:
		// Resubmission path: supersede the disputed request.
		if player.Status != domain.PlayerCashingOut {
			return nil, domain.ErrPlayerNotActive(player.Status)
		}
		if err := e.requests.MarkSuperseded(ctx, tx, open.ID); err != nil {
			return nil, fmt.Errorf("submit: %w", err)
		}
		result.Superseded = open
	default:
		return nil, domain.ErrRequestAlreadyOpen(open.ID.String())
	}

	req, err := e.requests.Insert(ctx, tx, &domain.CashOutRequest{
		ID:        uuid.New(),
		GameID:    game.ID,
		PlayerID:  player.ID,
		ChipCount: params.ChipCount,
		Status:    domain.RequestPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrRequestAlreadyOpen(player.ID.String())
		}
		return nil, fmt.Errorf("submit: %w", err)
	}
	result.Request = req

	if player.Status == domain.PlayerActive {
		if !domain.CanTransition(player.Status, domain.PlayerCashingOut) {
			return nil, domain.ErrInvalidTransition(player.Status, domain.PlayerCashingOut)
		}
		player, err = e.players.UpdateStatus(ctx, tx, player.ID, domain.PlayerCashingOut)
		if err != nil {
			return nil, fmt.Errorf("submit: update player status: %w", err)
		}
		result.Player = player
	}

	var supersededID *uuid.UUID
	if result.Superseded != nil {
		supersededID = &result.Superseded.ID
	}
	result.Events = append(result.Events, domain.NewRequestSubmittedEvent(req, supersededID))

	// Degenerate case: nobody is required to attest (sole remaining player,
	// no banker). The unanimity rule is vacuously satisfied, so the request
	// approves immediately rather than hanging forever.
	eligible, err := e.eligibleForRequest(ctx, tx, game, player.UserID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		req, player, events, err := e.finalize(ctx, tx, req, player)
		if err != nil {
			return nil, err
		}
		result.Request = req
		result.Player = player
		result.Finalized = true
		result.Events = append(result.Events, events...)
	}

	for _, event := range result.Events {
		if err := e.outbox.Insert(ctx, tx, event); err != nil {
			return nil, fmt.Errorf("submit: insert outbox event: %w", err)
		}
	}

	return result, nil
}

// eligibleForRequest loads game membership and resolves the banker, then
// computes the eligible voter set for a submission by submitterUserID.
func (e *Engine) eligibleForRequest(ctx context.Context, tx pgx.Tx, game *domain.Game, submitterUserID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	players, err := e.players.ListByGame(ctx, tx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	banker, err := e.resolveBanker(ctx, tx, game)
	if err != nil {
		return nil, err
	}
	return EligibleVoters(game, players, submitterUserID, banker), nil
}
