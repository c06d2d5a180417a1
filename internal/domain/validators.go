package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{2,32}$`)
	joinCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9]{4,12}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername checks the display name: 2-32 word characters.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 2-32 letters, digits, _ or -")
	}
	return nil
}

// ValidateWalletAddress checks the payout destination is present and sane.
func ValidateWalletAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("wallet address is required")
	}
	if len(addr) > 128 {
		return fmt.Errorf("wallet address too long")
	}
	return nil
}

// ValidateBuyIn checks that a buy-in amount is positive (in cents).
func ValidateBuyIn(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("buy_in must be positive, got %d", amount)
	}
	return nil
}

// ValidateChipCount checks that a declared chip count is non-negative.
// Zero is a valid declaration: the player busted.
func ValidateChipCount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("chip_count must be non-negative, got %d", amount)
	}
	return nil
}

// ValidateJoinCode checks the shape of a user-supplied join code.
func ValidateJoinCode(code string) error {
	if !joinCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid join code")
	}
	return nil
}

// ValidateGameName checks the game's human name.
func ValidateGameName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}
	return nil
}
