package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/infra"
	"github.com/potledger/escrow/internal/repository"
)

// maxCodeAttempts bounds the join-code collision retry loop.
const maxCodeAttempts = 5

// GameService handles the game registry: creation, join-by-code, membership
// and ending a game.
type GameService struct {
	pool    *pgxpool.Pool
	games   repository.GameRepository
	players repository.PlayerRepository
	users   repository.UserRepository
	outbox  repository.OutboxRepository
	hub     *infra.WSHub
	logger  *slog.Logger
}

// NewGameService creates a new GameService.
func NewGameService(
	pool *pgxpool.Pool,
	games repository.GameRepository,
	players repository.PlayerRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	hub *infra.WSHub,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		pool:    pool,
		games:   games,
		players: players,
		users:   users,
		outbox:  outbox,
		hub:     hub,
		logger:  logger,
	}
}

// CreateGameInput holds the create-game request fields.
type CreateGameInput struct {
	Name          string  `json:"name"`
	BuyIn         int64   `json:"buy_in"`
	BankerAddress *string `json:"banker_address,omitempty"`
	MaxPlayers    *int    `json:"max_players,omitempty"`
}

// CreateGame creates a game with a fresh, globally-unique join code. The
// creator is not added as a player; joining is a separate step.
func (s *GameService) CreateGame(ctx context.Context, creatorID uuid.UUID, input CreateGameInput) (*domain.Game, error) {
	if err := domain.ValidateGameName(input.Name); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateBuyIn(input.BuyIn); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if input.BankerAddress != nil {
		if err := domain.ValidateWalletAddress(*input.BankerAddress); err != nil {
			return nil, domain.ErrValidation("banker_address: " + err.Error())
		}
	}
	if input.MaxPlayers != nil && *input.MaxPlayers < 2 {
		return nil, domain.ErrValidation("max_players must be at least 2")
	}

	game := &domain.Game{
		ID:            uuid.New(),
		Name:          input.Name,
		CreatorID:     creatorID,
		BuyIn:         input.BuyIn,
		BankerAddress: input.BankerAddress,
		MaxPlayers:    input.MaxPlayers,
		Status:        domain.GameActive,
	}

	// Collision-retry until the code is unique.
	for attempt := 0; ; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, domain.ErrInternal("generate join code", err)
		}
		game.Code = code

		err = s.games.Create(ctx, s.pool, game)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicate) && attempt < maxCodeAttempts-1 {
			continue
		}
		return nil, domain.ErrInternal("create game", err)
	}

	stored, err := s.games.FindByID(ctx, s.pool, game.ID)
	if err != nil || stored == nil {
		return nil, domain.ErrInternal("load created game", err)
	}

	if err := s.outbox.Insert(ctx, s.pool, domain.NewGameCreatedEvent(stored)); err != nil {
		s.logger.Error("outbox insert failed", "event", "game.created", "error", err)
	}
	return stored, nil
}

// GetGameByCode looks up a game by join code, case-insensitively.
func (s *GameService) GetGameByCode(ctx context.Context, code string) (*domain.Game, error) {
	if err := domain.ValidateJoinCode(code); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	game, err := s.games.FindByCode(ctx, s.pool, code)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", code)
	}
	return game, nil
}

// JoinGame adds a user to a game by join code. The new player's buy-in is
// the game's buy-in amount and their status starts active.
func (s *GameService) JoinGame(ctx context.Context, code string, userID uuid.UUID, walletAddress string) (*domain.Player, error) {
	if err := domain.ValidateWalletAddress(walletAddress); err != nil {
		return nil, domain.ErrValidation("wallet_address: " + err.Error())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	game, err := s.games.FindByCode(ctx, tx, code)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", code)
	}

	// Lock the game row so concurrent joins see a consistent player count.
	game, err = s.games.LockForUpdate(ctx, tx, game.ID)
	if err != nil {
		return nil, domain.ErrInternal("lock game", err)
	}
	if game.Status == domain.GameEnded {
		return nil, domain.ErrGameEnded()
	}

	if game.MaxPlayers != nil {
		count, err := s.players.CountByGame(ctx, tx, game.ID)
		if err != nil {
			return nil, domain.ErrInternal("count players", err)
		}
		if count >= *game.MaxPlayers {
			return nil, domain.ErrGameFull(*game.MaxPlayers)
		}
	}

	player, err := s.players.Create(ctx, tx, &domain.Player{
		ID:            uuid.New(),
		GameID:        game.ID,
		UserID:        userID,
		WalletAddress: walletAddress,
		BuyIn:         game.BuyIn,
		Status:        domain.PlayerActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrAlreadyJoined(game.ID.String())
		}
		return nil, domain.ErrInternal("create player", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewPlayerJoinedEvent(player)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.hub.PublishToGame(game.ID.String(), string(domain.EventPlayerJoined), player)
	return player, nil
}

// ListPlayers returns a game's players in join order.
func (s *GameService) ListPlayers(ctx context.Context, gameID uuid.UUID) ([]domain.Player, error) {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}
	players, err := s.players.ListByGame(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("list players", err)
	}
	return players, nil
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}
	return game, nil
}

// EndGame transitions a game to ended. Only the designated banker may end a
// game that has one; otherwise only the creator may. Fund distribution is
// the payout collaborator's concern, not this registry's.
func (s *GameService) EndGame(ctx context.Context, gameID, requestedBy uuid.UUID) (*domain.Game, error) {
	game, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("find game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}
	if game.Status == domain.GameEnded {
		return nil, domain.ErrGameEnded()
	}

	if game.HasBanker() {
		user, err := s.users.FindByID(ctx, s.pool, requestedBy)
		if err != nil {
			return nil, domain.ErrInternal("find user", err)
		}
		if user == nil || !game.IsBanker(user.WalletAddress) {
			return nil, domain.ErrForbidden("only the banker can end this game")
		}
	} else if game.CreatorID != requestedBy {
		return nil, domain.ErrForbidden("only the creator can end this game")
	}

	game, err = s.games.UpdateStatus(ctx, s.pool, gameID, domain.GameEnded)
	if err != nil {
		return nil, domain.ErrInternal("end game", err)
	}

	if err := s.outbox.Insert(ctx, s.pool, domain.NewGameEndedEvent(game, requestedBy)); err != nil {
		s.logger.Error("outbox insert failed", "event", "game.ended", "error", err)
	}

	s.hub.PublishToGame(game.ID.String(), string(domain.EventGameEnded), game)
	return game, nil
}

// generateJoinCode produces a short random code from the join-code alphabet.
func generateJoinCode() (string, error) {
	b := make([]byte, domain.JoinCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i := range b {
		b[i] = domain.JoinCodeAlphabet[int(b[i])%len(domain.JoinCodeAlphabet)]
	}
	return string(b), nil
}
