//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body contains the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// AssertRequestStatus queries cashout_requests and asserts the request's status.
func AssertRequestStatus(t *testing.T, env *TestEnv, requestID uuid.UUID, expected string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var status string
	err := env.Pool.QueryRow(ctx,
		"SELECT status FROM cashout_requests WHERE id = $1", requestID).Scan(&status)
	if err != nil {
		t.Fatalf("AssertRequestStatus: query: %v", err)
	}
	if status != expected {
		t.Errorf("request status: expected %q, got %q", expected, status)
	}
}

// AssertPlayerStatus queries game_players and asserts the player's status.
func AssertPlayerStatus(t *testing.T, env *TestEnv, playerID uuid.UUID, expected string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var status string
	err := env.Pool.QueryRow(ctx,
		"SELECT status FROM game_players WHERE id = $1", playerID).Scan(&status)
	if err != nil {
		t.Fatalf("AssertPlayerStatus: query: %v", err)
	}
	if status != expected {
		t.Errorf("player status: expected %q, got %q", expected, status)
	}
}

// CountOutboxEvents returns the number of outbox events of the given type.
func CountOutboxEvents(t *testing.T, env *TestEnv, eventType string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM event_outbox WHERE event_type = $1", eventType).Scan(&count)
	if err != nil {
		t.Fatalf("CountOutboxEvents: %v", err)
	}
	return count
}
