package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/potledger/escrow/internal/domain"
)

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

const playerColumns = `id, game_id, user_id, wallet_address, buy_in, status, final_chip_count, seq, created_at, updated_at`

func (r *playerRepo) Create(ctx context.Context, db DBTX, player *domain.Player) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO game_players (id, game_id, user_id, wallet_address, buy_in, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+playerColumns,
		player.ID, player.GameID, player.UserID, player.WalletAddress,
		player.BuyIn, string(player.Status),
	)
	p, err := scanPlayer(row)
	if err != nil {
		if mapped := mapInsertError(err); mapped == ErrDuplicate {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return p, nil
}

func (r *playerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `SELECT `+playerColumns+` FROM game_players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (r *playerRepo) FindByGameAndUser(ctx context.Context, db DBTX, gameID, userID uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `
		SELECT `+playerColumns+` FROM game_players
		WHERE game_id = $1 AND user_id = $2`, gameID, userID)
	return scanPlayer(row)
}

func (r *playerRepo) ListByGame(ctx context.Context, db DBTX, gameID uuid.UUID) ([]domain.Player, error) {
	rows, err := db.Query(ctx, `
		SELECT `+playerColumns+` FROM game_players
		WHERE game_id = $1
		ORDER BY seq ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.GameID, &p.UserID, &p.WalletAddress, &p.BuyIn,
			&p.Status, &p.FinalChipCount, &p.Seq, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *playerRepo) CountByGame(ctx context.Context, db DBTX, gameID uuid.UUID) (int, error) {
	var n int
	err := db.QueryRow(ctx, `SELECT count(*) FROM game_players WHERE game_id = $1`, gameID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

func (r *playerRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `SELECT `+playerColumns+` FROM game_players WHERE id = $1 FOR UPDATE`, id)
	return scanPlayer(row)
}

func (r *playerRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PlayerStatus) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `
		UPDATE game_players SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+playerColumns, id, string(status))
	return scanPlayer(row)
}

func (r *playerRepo) SetCashedOut(ctx context.Context, tx pgx.Tx, id uuid.UUID, chipCount int64) (*domain.Player, error) {
	row := tx.QueryRow(ctx, `
		UPDATE game_players
		SET status = $2, final_chip_count = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+playerColumns, id, string(domain.PlayerCashedOut), chipCount)
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.GameID, &p.UserID, &p.WalletAddress, &p.BuyIn,
		&p.Status, &p.FinalChipCount, &p.Seq, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
