package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlayerStatus enumerates the per-game participant states.
type PlayerStatus string

const (
	PlayerActive     PlayerStatus = "active"
	PlayerCashingOut PlayerStatus = "cashing-out"
	PlayerCashedOut  PlayerStatus = "cashed-out"
)

// Player represents a game_players row: one (game, user) pairing.
type Player struct {
	ID             uuid.UUID    `json:"id"`
	GameID         uuid.UUID    `json:"game_id"`
	UserID         uuid.UUID    `json:"user_id"`
	WalletAddress  string       `json:"wallet_address"`
	BuyIn          int64        `json:"buy_in"` // cents, copied from the game at join time
	Status         PlayerStatus `json:"status"`
	FinalChipCount *int64       `json:"final_chip_count,omitempty"` // set only on cash-out
	Seq            int64        `json:"-"`                          // join order
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// playerTransitions is the enforced status state machine:
// active → cashing-out (request submitted), cashing-out → active (dispute
// abandoned), cashing-out → cashed-out (request approved).
var playerTransitions = map[PlayerStatus]map[PlayerStatus]bool{
	PlayerActive:     {PlayerCashingOut: true},
	PlayerCashingOut: {PlayerActive: true, PlayerCashedOut: true},
}

// CanTransition reports whether the player status state machine permits from → to.
func CanTransition(from, to PlayerStatus) bool {
	return playerTransitions[from][to]
}
