//go:build integration

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// RegisterUser creates a new user and returns the auth token and user ID.
func (env *TestEnv) RegisterUser(email, username, walletAddress string) (token string, userID uuid.UUID) {
	env.t.Helper()
	resp := env.POST("/auth/register", map[string]string{
		"email":          email,
		"password":       "securepass123",
		"username":       username,
		"wallet_address": walletAddress,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterUser: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Token  string    `json:"token"`
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterUser: decode: %v", err)
	}
	return result.Token, result.UserID
}

// LoginUser authenticates a user created via RegisterUser and returns a token.
func (env *TestEnv) LoginUser(email string) string {
	env.t.Helper()
	resp := env.POST("/auth/login", map[string]string{
		"email":    email,
		"password": "securepass123",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("LoginUser: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("LoginUser: decode: %v", err)
	}
	return result.Token
}

// CreateGame creates a game and returns its ID and join code.
func (env *TestEnv) CreateGame(token, name string, buyIn int64, bankerAddress *string) (gameID uuid.UUID, code string) {
	env.t.Helper()
	body := map[string]interface{}{
		"name":   name,
		"buy_in": buyIn,
	}
	if bankerAddress != nil {
		body["banker_address"] = *bankerAddress
	}

	resp := env.POST("/games", body, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("CreateGame: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		ID   uuid.UUID `json:"id"`
		Code string    `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("CreateGame: decode: %v", err)
	}
	return result.ID, result.Code
}

// JoinGame joins a game by code and returns the player ID.
func (env *TestEnv) JoinGame(token, code, walletAddress string) uuid.UUID {
	env.t.Helper()
	resp := env.POST("/games/code/"+code+"/join", map[string]string{
		"wallet_address": walletAddress,
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("JoinGame: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("JoinGame: decode: %v", err)
	}
	return result.ID
}

// SubmitCashOut submits a cash-out request and returns the request ID.
func (env *TestEnv) SubmitCashOut(token string, gameID uuid.UUID, chipCount int64) uuid.UUID {
	env.t.Helper()
	resp := env.POST(fmt.Sprintf("/games/%s/cashouts", gameID), map[string]int64{
		"chip_count": chipCount,
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("SubmitCashOut: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Request struct {
			ID uuid.UUID `json:"id"`
		} `json:"request"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("SubmitCashOut: decode: %v", err)
	}
	return result.Request.ID
}

// CastVote records a vote on a cash-out request.
func (env *TestEnv) CastVote(token string, requestID uuid.UUID, approved bool, counterValue *int64) *http.Response {
	env.t.Helper()
	body := map[string]interface{}{"approved": approved}
	if counterValue != nil {
		body["counter_value"] = *counterValue
	}
	return env.POST(fmt.Sprintf("/cashouts/%s/votes", requestID), body, token)
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}
