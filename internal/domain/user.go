package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the user directory record consumed by the escrow core: identity,
// display name, credentials and the wallet address used for payouts and
// banker matching.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	WalletAddress string    `json:"wallet_address"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// Directory is the public shape of a user directory lookup.
type Directory struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	WalletAddress string    `json:"wallet_address"`
}

// DirectoryEntry returns the public directory view of a user.
func (u *User) DirectoryEntry() Directory {
	return Directory{ID: u.ID, Username: u.Username, WalletAddress: u.WalletAddress}
}
