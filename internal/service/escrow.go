package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/escrow"
	"github.com/potledger/escrow/internal/infra"
	"github.com/potledger/escrow/internal/repository"
)

// payoutTimeout bounds the best-effort payout call at finalization.
const payoutTimeout = 5 * time.Second

// EscrowService drives the cash-out approval workflow: it owns the
// transactions around the engine commands and the post-commit side effects
// (payout trigger, websocket push).
type EscrowService struct {
	pool      *pgxpool.Pool
	engine    *escrow.Engine
	games     repository.GameRepository
	players   repository.PlayerRepository
	requests  repository.RequestRepository
	approvals repository.ApprovalRepository
	users     repository.UserRepository
	outbox    repository.OutboxRepository
	payout    PayoutTrigger
	hub       *infra.WSHub
	logger    *slog.Logger
}

// NewEscrowService creates a new EscrowService.
func NewEscrowService(
	pool *pgxpool.Pool,
	engine *escrow.Engine,
	games repository.GameRepository,
	players repository.PlayerRepository,
	requests repository.RequestRepository,
	approvals repository.ApprovalRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	payout PayoutTrigger,
	hub *infra.WSHub,
	logger *slog.Logger,
) *EscrowService {
	return &EscrowService{
		pool:      pool,
		engine:    engine,
		games:     games,
		players:   players,
		requests:  requests,
		approvals: approvals,
		users:     users,
		outbox:    outbox,
		payout:    payout,
		hub:       hub,
		logger:    logger,
	}
}

// SubmitCashOut declares a final chip count for the calling user in a game.
func (s *EscrowService) SubmitCashOut(ctx context.Context, gameID, userID uuid.UUID, chipCount int64) (*escrow.SubmitResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.SubmitRequest(ctx, tx, escrow.SubmitParams{
		GameID:    gameID,
		UserID:    userID,
		ChipCount: chipCount,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	if result.Finalized {
		s.triggerPayout(ctx, result.Request, result.Player)
	}
	s.broadcast(gameID, result.Events)
	return result, nil
}

// CastVote records one voter's attestation on a request.
func (s *EscrowService) CastVote(ctx context.Context, requestID, voterUserID uuid.UUID, approved bool, counterValue *int64) (*escrow.VoteResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.CastVote(ctx, tx, escrow.VoteParams{
		RequestID:    requestID,
		VoterUserID:  voterUserID,
		Approved:     approved,
		CounterValue: counterValue,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	if result.Finalized {
		s.triggerPayout(ctx, result.Request, result.Player)
	}
	s.broadcast(result.Request.GameID, result.Events)
	return result, nil
}

// triggerPayout invokes the payout collaborator once after the finalizing
// transaction has committed. The approval consensus stands whatever happens
// here: failures are logged and emitted as payout.failed events, never
// surfaced to the voter who cast the deciding vote.
func (s *EscrowService) triggerPayout(ctx context.Context, req *domain.CashOutRequest, player *domain.Player) {
	payoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), payoutTimeout)
	defer cancel()

	reference := req.ID.String()
	result, err := s.payout.Payout(payoutCtx, req.GameID, req.PlayerID, req.ChipCount, reference)
	success := err == nil && result.Success
	detail := ""
	if err != nil {
		detail = err.Error()
		s.logger.Error("payout trigger failed",
			"request_id", reference, "player_id", player.ID.String(), "error", err)
	}

	event := domain.NewPayoutEvent(req, success, reference, detail)
	if err := s.outbox.Insert(payoutCtx, s.pool, event); err != nil {
		s.logger.Error("outbox insert failed", "event", string(event.EventType), "error", err)
	}
	s.hub.PublishToGame(req.GameID.String(), string(event.EventType), event)
}

// broadcast pushes committed events to the game's websocket room.
func (s *EscrowService) broadcast(gameID uuid.UUID, events []domain.OutboxDraft) {
	for _, event := range events {
		s.hub.PublishToGame(gameID.String(), string(event.EventType), event)
	}
}

// RequestSummary is the voter-facing view of a request: the request plus
// aggregate vote counts against the current eligible voter set.
type RequestSummary struct {
	domain.CashOutRequest
	Approvals      int `json:"approvals"`
	Disputes       int `json:"disputes"`
	EligibleVoters int `json:"eligible_voters"`
}

// ListGameRequests returns all cash-out requests in a game, newest first,
// with aggregate counts.
func (s *EscrowService) ListGameRequests(ctx context.Context, gameID uuid.UUID) ([]RequestSummary, error) {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}

	reqs, err := s.requests.ListByGame(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("list requests", err)
	}

	players, err := s.players.ListByGame(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("list players", err)
	}
	playersByID := make(map[uuid.UUID]domain.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	var banker *domain.User
	if game.HasBanker() {
		banker, err = s.users.FindByWalletAddress(ctx, s.pool, *game.BankerAddress)
		if err != nil {
			return nil, domain.ErrInternal("resolve banker", err)
		}
	}

	summaries := make([]RequestSummary, 0, len(reqs))
	for _, req := range reqs {
		votes, err := s.approvals.ListByRequest(ctx, s.pool, req.ID)
		if err != nil {
			return nil, domain.ErrInternal("list approvals", err)
		}
		summary := RequestSummary{CashOutRequest: req}
		for _, v := range votes {
			if v.Approved {
				summary.Approvals++
			} else {
				summary.Disputes++
			}
		}
		if submitter, ok := playersByID[req.PlayerID]; ok {
			summary.EligibleVoters = len(escrow.EligibleVoters(game, players, submitter.UserID, banker))
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListPlayerRequests returns a player's request history, newest first.
// Superseded disputed requests stay in the history as permanent records.
func (s *EscrowService) ListPlayerRequests(ctx context.Context, playerID uuid.UUID) ([]domain.CashOutRequest, error) {
	player, err := s.players.FindByID(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return nil, domain.ErrNotFound("player", playerID.String())
	}
	reqs, err := s.requests.ListByPlayer(ctx, s.pool, playerID)
	if err != nil {
		return nil, domain.ErrInternal("list requests", err)
	}
	return reqs, nil
}

// GetRequest returns a single request by ID.
func (s *EscrowService) GetRequest(ctx context.Context, requestID uuid.UUID) (*domain.CashOutRequest, error) {
	req, err := s.requests.FindByID(ctx, s.pool, requestID)
	if err != nil {
		return nil, domain.ErrInternal("find request", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound("request", requestID.String())
	}
	return req, nil
}

// ListApprovals returns all votes on a request, including counter-values,
// so the submitter can decide whether to resubmit.
func (s *EscrowService) ListApprovals(ctx context.Context, requestID uuid.UUID) ([]domain.Approval, error) {
	req, err := s.requests.FindByID(ctx, s.pool, requestID)
	if err != nil {
		return nil, domain.ErrInternal("find request", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound("request", requestID.String())
	}
	approvals, err := s.approvals.ListByRequest(ctx, s.pool, requestID)
	if err != nil {
		return nil, domain.ErrInternal("list approvals", err)
	}
	return approvals, nil
}
