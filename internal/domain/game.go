package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus enumerates the game lifecycle states.
type GameStatus string

const (
	GameActive GameStatus = "active"
	GameEnded  GameStatus = "ended"
)

// JoinCodeLength is the length of generated join codes.
const JoinCodeLength = 6

// JoinCodeAlphabet excludes 0/O and 1/I to keep codes readable at the table.
const JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Game represents a games row: one escrow pot shared by its players.
type Game struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	BuyIn         int64      `json:"buy_in"` // cents, > 0
	BankerAddress *string    `json:"banker_address,omitempty"`
	MaxPlayers    *int       `json:"max_players,omitempty"`
	Status        GameStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasBanker reports whether a banker is designated for this game.
func (g *Game) HasBanker() bool {
	return g.BankerAddress != nil && *g.BankerAddress != ""
}

// IsBanker reports whether the given wallet address is the designated banker's.
func (g *Game) IsBanker(walletAddress string) bool {
	return g.HasBanker() && walletAddress != "" && *g.BankerAddress == walletAddress
}
