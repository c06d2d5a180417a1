package escrow

import (
	"context"
	"fmt"

	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/repository"
)

// Engine is the cash-out approval aggregator. Its commands run inside a
// caller-owned transaction and rely on row-level locks for serialization:
// per-player for submissions, per-request for votes.
type Engine struct {
	games     repository.GameRepository
	players   repository.PlayerRepository
	requests  repository.RequestRepository
	approvals repository.ApprovalRepository
	users     repository.UserRepository
	outbox    repository.OutboxRepository
}

// NewEngine creates an approval engine with the given repositories.
func NewEngine(
	games repository.GameRepository,
	players repository.PlayerRepository,
	requests repository.RequestRepository,
	approvals repository.ApprovalRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		games:     games,
		players:   players,
		requests:  requests,
		approvals: approvals,
		users:     users,
		outbox:    outbox,
	}
}

// resolveBanker returns the user holding the game's banker address, or nil
// when no banker is designated or no user holds that address.
func (e *Engine) resolveBanker(ctx context.Context, db repository.DBTX, game *domain.Game) (*domain.User, error) {
	if !game.HasBanker() {
		return nil, nil
	}
	banker, err := e.users.FindByWalletAddress(ctx, db, *game.BankerAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve banker: %w", err)
	}
	return banker, nil
}
