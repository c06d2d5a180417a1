package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/potledger/escrow/internal/domain"
)

type requestRepo struct{}

// NewRequestRepository returns a pgx-backed RequestRepository.
func NewRequestRepository() RequestRepository {
	return &requestRepo{}
}

const requestColumns = `id, game_id, player_id, chip_count, status, superseded, created_at, updated_at`

func (r *requestRepo) Insert(ctx context.Context, db DBTX, req *domain.CashOutRequest) (*domain.CashOutRequest, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO cashout_requests (id, game_id, player_id, chip_count, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+requestColumns,
		req.ID, req.GameID, req.PlayerID, req.ChipCount, string(req.Status),
	)
	stored, err := scanRequest(row)
	if err != nil {
		if mapped := mapInsertError(err); mapped == ErrDuplicate {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return stored, nil
}

func (r *requestRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CashOutRequest, error) {
	row := db.QueryRow(ctx, `SELECT `+requestColumns+` FROM cashout_requests WHERE id = $1`, id)
	return scanRequest(row)
}

func (r *requestRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.CashOutRequest, error) {
	row := tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM cashout_requests WHERE id = $1 FOR UPDATE`, id)
	return scanRequest(row)
}

func (r *requestRepo) FindOpenByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) (*domain.CashOutRequest, error) {
	row := db.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM cashout_requests
		WHERE player_id = $1
		  AND (status = 'pending' OR (status = 'disputed' AND NOT superseded))
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, playerID)
	return scanRequest(row)
}

func (r *requestRepo) ListByGame(ctx context.Context, db DBTX, gameID uuid.UUID) ([]domain.CashOutRequest, error) {
	rows, err := db.Query(ctx, `
		SELECT `+requestColumns+` FROM cashout_requests
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query game requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *requestRepo) ListByPlayer(ctx context.Context, db DBTX, playerID uuid.UUID) ([]domain.CashOutRequest, error) {
	rows, err := db.Query(ctx, `
		SELECT `+requestColumns+` FROM cashout_requests
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query player requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *requestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus) (*domain.CashOutRequest, error) {
	row := tx.QueryRow(ctx, `
		UPDATE cashout_requests SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+requestColumns, id, string(status))
	return scanRequest(row)
}

func (r *requestRepo) MarkSuperseded(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE cashout_requests SET superseded = true, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark superseded: %w", err)
	}
	return nil
}

func scanRequest(row pgx.Row) (*domain.CashOutRequest, error) {
	var req domain.CashOutRequest
	err := row.Scan(&req.ID, &req.GameID, &req.PlayerID, &req.ChipCount,
		&req.Status, &req.Superseded, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func collectRequests(rows pgx.Rows) ([]domain.CashOutRequest, error) {
	var reqs []domain.CashOutRequest
	for rows.Next() {
		var req domain.CashOutRequest
		if err := rows.Scan(&req.ID, &req.GameID, &req.PlayerID, &req.ChipCount,
			&req.Status, &req.Superseded, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
