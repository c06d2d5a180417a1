package escrow

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/potledger/escrow/internal/domain"
)

// finalize performs the one-time side effects of a request reaching approved:
// the request becomes terminal, the player is marked cashed-out and the
// declared chip count is recorded. The payout trigger itself is invoked by
// the service layer after this transaction commits; its outcome never rolls
// back the consensus recorded here.
func (e *Engine) finalize(ctx context.Context, tx pgx.Tx, req *domain.CashOutRequest, player *domain.Player) (*domain.CashOutRequest, *domain.Player, []domain.OutboxDraft, error) {
	if !domain.CanTransition(player.Status, domain.PlayerCashedOut) {
		return nil, nil, nil, domain.ErrInvalidTransition(player.Status, domain.PlayerCashedOut)
	}

	req, err := e.requests.UpdateStatus(ctx, tx, req.ID, domain.RequestApproved)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("finalize: approve request: %w", err)
	}

	player, err = e.players.SetCashedOut(ctx, tx, player.ID, req.ChipCount)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("finalize: cash out player: %w", err)
	}

	events := []domain.OutboxDraft{
		domain.NewRequestStatusEvent(req),
		domain.NewPlayerCashedOutEvent(player, req.ChipCount),
	}
	return req, player, events, nil
}
