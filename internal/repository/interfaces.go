package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/potledger/escrow/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// GameRepository provides access to games.
type GameRepository interface {
	// Create inserts a new game. Returns ErrDuplicate if the join code collides.
	Create(ctx context.Context, db DBTX, game *domain.Game) error

	// FindByID returns a game by ID, nil if missing.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Game, error)

	// FindByCode returns a game by join code, case-insensitively. Nil if missing.
	FindByCode(ctx context.Context, db DBTX, code string) (*domain.Game, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the game.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Game, error)

	// UpdateStatus sets the game status and returns the updated row.
	UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.GameStatus) (*domain.Game, error)
}

// PlayerRepository provides access to game_players.
type PlayerRepository interface {
	// Create inserts a new player and returns the stored row (with join seq).
	// Returns ErrDuplicate if the (game, user) pair already exists.
	Create(ctx context.Context, db DBTX, player *domain.Player) (*domain.Player, error)

	// FindByID returns a player by ID, nil if missing.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error)

	// FindByGameAndUser returns the player for a (game, user) pair, nil if missing.
	FindByGameAndUser(ctx context.Context, db DBTX, gameID, userID uuid.UUID) (*domain.Player, error)

	// ListByGame returns all players of a game in join order.
	ListByGame(ctx context.Context, db DBTX, gameID uuid.UUID) ([]domain.Player, error)

	// CountByGame returns the number of players in a game.
	CountByGame(ctx context.Context, db DBTX, gameID uuid.UUID) (int, error)

	// LockForUpdate acquires a row-level lock and returns the player.
	// Serializes submissions for the same player.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error)

	// UpdateStatus sets the player status and returns the updated row.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PlayerStatus) (*domain.Player, error)

	// SetCashedOut marks the player cashed-out and records the final chip count.
	SetCashedOut(ctx context.Context, tx pgx.Tx, id uuid.UUID, chipCount int64) (*domain.Player, error)
}

// RequestRepository provides access to cashout_requests.
type RequestRepository interface {
	// Insert creates a new pending request and returns the stored row.
	Insert(ctx context.Context, db DBTX, req *domain.CashOutRequest) (*domain.CashOutRequest, error)

	// FindByID returns a request by ID, nil if missing.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CashOutRequest, error)

	// LockForUpdate acquires a row-level lock and returns the request.
	// Serializes concurrent votes on the same request.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.CashOutRequest, error)

	// FindOpenByPlayer returns the player's open request (pending, or disputed
	// and not superseded), nil if none.
	FindOpenByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.CashOutRequest, error)

	// ListByGame returns all requests in a game, newest first.
	ListByGame(ctx context.Context, db DBTX, gameID uuid.UUID) ([]domain.CashOutRequest, error)

	// ListByPlayer returns a player's request history, newest first.
	ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.CashOutRequest, error)

	// UpdateStatus sets the request status and returns the updated row.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus) (*domain.CashOutRequest, error)

	// MarkSuperseded flags a disputed request as replaced by a newer submission.
	MarkSuperseded(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// ApprovalRepository provides access to request_approvals.
type ApprovalRepository interface {
	// Insert records a vote. Returns ErrDuplicate if the voter already voted.
	Insert(ctx context.Context, db DBTX, approval *domain.Approval) (*domain.Approval, error)

	// ListByRequest returns all votes on a request in cast order.
	ListByRequest(ctx context.Context, db DBTX, requestID uuid.UUID) ([]domain.Approval, error)

	// FindByRequestAndVoter returns the voter's vote on a request, nil if none.
	FindByRequestAndVoter(ctx context.Context, db DBTX, requestID, voterUserID uuid.UUID) (*domain.Approval, error)
}

// UserRepository provides access to users, the user directory collaborator.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicate on email/username collision.
	Create(ctx context.Context, db DBTX, user *domain.User) error

	// FindByID returns a user by ID, nil if missing.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)

	// FindByEmail returns a user by email, nil if missing.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error)

	// FindByWalletAddress returns the user holding a wallet address, nil if missing.
	// Resolves the banker identity for a game.
	FindByWalletAddress(ctx context.Context, db DBTX, addr string) (*domain.User, error)
}

// OutboxRow is an event_outbox row with its sequence number.
type OutboxRow struct {
	SeqID int64
	domain.OutboxDraft
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the state change).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the outbox poller, oldest first.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]OutboxRow, error)

	// MarkPublished removes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
