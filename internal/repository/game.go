package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/potledger/escrow/internal/domain"
)

type gameRepo struct{}

// NewGameRepository returns a pgx-backed GameRepository.
func NewGameRepository() GameRepository {
	return &gameRepo{}
}

const gameColumns = `id, name, code, creator_id, buy_in, banker_address, max_players, status, created_at, updated_at`

func (r *gameRepo) Create(ctx context.Context, db DBTX, game *domain.Game) error {
	_, err := db.Exec(ctx, `
		INSERT INTO games (id, name, code, creator_id, buy_in, banker_address, max_players, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
		game.ID, game.Name, game.Code, game.CreatorID, game.BuyIn,
		game.BankerAddress, game.MaxPlayers, string(game.Status),
	)
	if err != nil {
		if mapped := mapInsertError(err); mapped == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *gameRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Game, error) {
	row := db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	return scanGame(row)
}

func (r *gameRepo) FindByCode(ctx context.Context, db DBTX, code string) (*domain.Game, error) {
	row := db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE lower(code) = lower($1)`, code)
	return scanGame(row)
}

func (r *gameRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Game, error) {
	row := tx.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1 FOR UPDATE`, id)
	return scanGame(row)
}

func (r *gameRepo) UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.GameStatus) (*domain.Game, error) {
	row := db.QueryRow(ctx, `
		UPDATE games SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+gameColumns, id, string(status))
	return scanGame(row)
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.ID, &g.Name, &g.Code, &g.CreatorID, &g.BuyIn,
		&g.BankerAddress, &g.MaxPlayers, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	return &g, nil
}
