//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/potledger/escrow/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"email":          "alice@test.com",
		"password":       "securepass123",
		"username":       "alice",
		"wallet_address": "0xA11CE00000000000000000000000000000000001",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token         string    `json:"token"`
		UserID        uuid.UUID `json:"user_id"`
		Username      string    `json:"username"`
		WalletAddress string    `json:"wallet_address"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, uuid.Nil, result.UserID)
	assert.Equal(t, "alice", result.Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("dup@test.com", "dupuser", "0xD000000000000000000000000000000000000001")

	resp := env.POST("/auth/register", map[string]string{
		"email":          "dup@test.com",
		"password":       "securepass123",
		"username":       "otheruser",
		"wallet_address": "0xD000000000000000000000000000000000000002",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_DuplicateWalletAddress(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("wallet1@test.com", "walletone", "0xD000000000000000000000000000000000000003")

	resp := env.POST("/auth/register", map[string]string{
		"email":          "wallet2@test.com",
		"password":       "securepass123",
		"username":       "wallettwo",
		"wallet_address": "0xD000000000000000000000000000000000000003",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_InvalidEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"email":          "not-an-email",
		"password":       "securepass123",
		"username":       "bademail",
		"wallet_address": "0xD000000000000000000000000000000000000004",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"email":          "shortpw@test.com",
		"password":       "1234567",
		"username":       "shortpw",
		"wallet_address": "0xD000000000000000000000000000000000000005",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("login@test.com", "loginuser", "0xD000000000000000000000000000000000000006")

	resp := env.POST("/auth/login", map[string]string{
		"email":    "login@test.com",
		"password": "securepass123",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("wrongpw@test.com", "wrongpw", "0xD000000000000000000000000000000000000007")

	resp := env.POST("/auth/login", map[string]string{
		"email":    "wrongpw@test.com",
		"password": "not-the-password",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/login", map[string]string{
		"email":    "nobody@test.com",
		"password": "securepass123",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetUser_Directory(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("dir@test.com", "diruser", "0xD000000000000000000000000000000000000008")

	resp := env.AuthGET("/users/"+userID.String(), token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		ID            uuid.UUID `json:"id"`
		Username      string    `json:"username"`
		WalletAddress string    `json:"wallet_address"`
		PasswordHash  string    `json:"password_hash"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, userID, result.ID)
	assert.Equal(t, "diruser", result.Username)
	assert.Empty(t, result.PasswordHash)
}

func TestProtectedRoute_NoToken(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/games", map[string]interface{}{"name": "x", "buy_in": 1000}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
