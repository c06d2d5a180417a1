package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// Escrow-specific error constructors.

func ErrAlreadyJoined(gameID string) *AppError {
	return &AppError{Code: "ALREADY_JOINED", Message: fmt.Sprintf("already joined game %s", gameID), Status: 409}
}

func ErrGameFull(max int) *AppError {
	return &AppError{Code: "GAME_FULL", Message: fmt.Sprintf("game is full (max %d players)", max), Status: 409}
}

func ErrGameEnded() *AppError {
	return &AppError{Code: "GAME_ENDED", Message: "game has ended", Status: 409}
}

func ErrPlayerNotActive(status PlayerStatus) *AppError {
	return &AppError{Code: "PLAYER_NOT_ACTIVE", Message: fmt.Sprintf("player is %s, not active", status), Status: 409}
}

func ErrRequestAlreadyOpen(requestID string) *AppError {
	return &AppError{Code: "REQUEST_ALREADY_OPEN", Message: fmt.Sprintf("cash-out request %s is still open", requestID), Status: 409}
}

func ErrRequestNotOpen(status RequestStatus) *AppError {
	return &AppError{Code: "REQUEST_NOT_OPEN", Message: fmt.Sprintf("request is already %s", status), Status: 409}
}

func ErrAlreadyVoted(requestID string) *AppError {
	return &AppError{Code: "ALREADY_VOTED", Message: fmt.Sprintf("vote already cast on request %s", requestID), Status: 409}
}

func ErrInvalidTransition(from, to PlayerStatus) *AppError {
	return &AppError{Code: "INVALID_TRANSITION", Message: fmt.Sprintf("cannot transition player from %s to %s", from, to), Status: 409}
}
