package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// PayoutResult is what the payout collaborator reports back.
type PayoutResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
}

// PayoutTrigger is the settlement collaborator invoked once when a cash-out
// request reaches approved. Implementations must be idempotent by reference
// (the approved request ID) so external retries cannot double-pay. The core
// treats the call as best-effort: failure is reported, never rolled back into
// the approval state.
type PayoutTrigger interface {
	Payout(ctx context.Context, gameID, playerID uuid.UUID, amount int64, reference string) (PayoutResult, error)
}

// LogPayoutTrigger records payout invocations in the log. Stands in for the
// real settlement executor (smart contract, bank transfer) in development
// and tests.
type LogPayoutTrigger struct {
	logger *slog.Logger
}

// NewLogPayoutTrigger creates a logging payout trigger.
func NewLogPayoutTrigger(logger *slog.Logger) *LogPayoutTrigger {
	return &LogPayoutTrigger{logger: logger}
}

func (t *LogPayoutTrigger) Payout(ctx context.Context, gameID, playerID uuid.UUID, amount int64, reference string) (PayoutResult, error) {
	t.logger.Info("payout triggered",
		"game_id", gameID.String(),
		"player_id", playerID.String(),
		"amount", amount,
		"reference", reference,
	)
	return PayoutResult{Success: true, Reference: reference}, nil
}
