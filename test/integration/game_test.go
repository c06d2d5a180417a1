//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/potledger/escrow/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGame_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("creator@test.com", "creator", "0xC000000000000000000000000000000000000001")

	resp := env.POST("/games", map[string]interface{}{
		"name":   "Friday Night",
		"buy_in": 5000,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var game struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Code      string    `json:"code"`
		CreatorID uuid.UUID `json:"creator_id"`
		BuyIn     int64     `json:"buy_in"`
		Status    string    `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
	assert.Equal(t, "Friday Night", game.Name)
	assert.Len(t, game.Code, 6)
	assert.Equal(t, userID, game.CreatorID)
	assert.Equal(t, int64(5000), game.BuyIn)
	assert.Equal(t, "active", game.Status)
}

func TestCreateGame_InvalidBuyIn(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterUser("badbuyin@test.com", "badbuyin", "0xC000000000000000000000000000000000000002")

	resp := env.POST("/games", map[string]interface{}{
		"name":   "No Stakes",
		"buy_in": 0,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJoinGame_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("host@test.com", "host", "0xC000000000000000000000000000000000000003")
	gameID, code := env.CreateGame(hostToken, "Join Me", 2000, nil)

	joinToken, joinerID := env.RegisterUser("joiner@test.com", "joiner", "0xC000000000000000000000000000000000000004")
	resp := env.POST("/games/code/"+code+"/join", map[string]string{
		"wallet_address": "0xC000000000000000000000000000000000000004",
	}, joinToken)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var player struct {
		ID     uuid.UUID `json:"id"`
		GameID uuid.UUID `json:"game_id"`
		UserID uuid.UUID `json:"user_id"`
		BuyIn  int64     `json:"buy_in"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&player))
	assert.Equal(t, gameID, player.GameID)
	assert.Equal(t, joinerID, player.UserID)
	assert.Equal(t, int64(2000), player.BuyIn)
	assert.Equal(t, "active", player.Status)
}

func TestJoinGame_CaseInsensitiveCode(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("cihost@test.com", "cihost", "0xC000000000000000000000000000000000000005")
	_, code := env.CreateGame(hostToken, "Case Test", 2000, nil)

	joinToken, _ := env.RegisterUser("cijoin@test.com", "cijoin", "0xC000000000000000000000000000000000000006")
	resp := env.POST("/games/code/"+toLower(code)+"/join", map[string]string{
		"wallet_address": "0xC000000000000000000000000000000000000006",
	}, joinToken)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestJoinGame_Twice(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("twicehost@test.com", "twicehost", "0xC000000000000000000000000000000000000007")
	_, code := env.CreateGame(hostToken, "Twice", 2000, nil)

	joinToken, _ := env.RegisterUser("twicejoin@test.com", "twicejoin", "0xC000000000000000000000000000000000000008")
	env.JoinGame(joinToken, code, "0xC000000000000000000000000000000000000008")

	resp := env.POST("/games/code/"+code+"/join", map[string]string{
		"wallet_address": "0xC000000000000000000000000000000000000008",
	}, joinToken)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestJoinGame_Full(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("fullhost@test.com", "fullhost", "0xC000000000000000000000000000000000000009")

	resp := env.POST("/games", map[string]interface{}{
		"name":        "Small Table",
		"buy_in":      1000,
		"max_players": 2,
	}, hostToken)
	var game struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
	resp.Body.Close()

	for i := 0; i < 2; i++ {
		wallet := fmt.Sprintf("0xC00000000000000000000000000000000000001%d", i)
		tok, _ := env.RegisterUser(fmt.Sprintf("seat%d@test.com", i), fmt.Sprintf("seat%d", i), wallet)
		env.JoinGame(tok, game.Code, wallet)
	}

	lateToken, _ := env.RegisterUser("late@test.com", "late", "0xC000000000000000000000000000000000000020")
	lateResp := env.POST("/games/code/"+game.Code+"/join", map[string]string{
		"wallet_address": "0xC000000000000000000000000000000000000020",
	}, lateToken)
	defer lateResp.Body.Close()

	assert.Equal(t, http.StatusConflict, lateResp.StatusCode)
	testutil.AssertErrorCode(t, lateResp, "GAME_FULL")
}

func TestJoinGame_Ended(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("endhost@test.com", "endhost", "0xC000000000000000000000000000000000000021")
	gameID, code := env.CreateGame(hostToken, "Over", 1000, nil)

	endResp := env.POST("/games/"+gameID.String()+"/end", nil, hostToken)
	require.Equal(t, http.StatusOK, endResp.StatusCode)
	endResp.Body.Close()

	joinToken, _ := env.RegisterUser("endjoin@test.com", "endjoin", "0xC000000000000000000000000000000000000022")
	resp := env.POST("/games/code/"+code+"/join", map[string]string{
		"wallet_address": "0xC000000000000000000000000000000000000022",
	}, joinToken)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEndGame_OnlyCreator(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("owner@test.com", "owner", "0xC000000000000000000000000000000000000023")
	gameID, code := env.CreateGame(hostToken, "Mine", 1000, nil)

	otherToken, _ := env.RegisterUser("other@test.com", "other", "0xC000000000000000000000000000000000000024")
	env.JoinGame(otherToken, code, "0xC000000000000000000000000000000000000024")

	resp := env.POST("/games/"+gameID.String()+"/end", nil, otherToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEndGame_BankerOverridesCreator(t *testing.T) {
	env := testutil.NewTestEnv(t)
	bankerWallet := "0xC000000000000000000000000000000000000025"
	bankerToken, _ := env.RegisterUser("banker@test.com", "banker", bankerWallet)
	hostToken, _ := env.RegisterUser("bghost@test.com", "bghost", "0xC000000000000000000000000000000000000026")

	gameID, _ := env.CreateGame(hostToken, "Banked", 1000, &bankerWallet)

	// Creator cannot end a banked game.
	resp := env.POST("/games/"+gameID.String()+"/end", nil, hostToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The banker can.
	resp = env.POST("/games/"+gameID.String()+"/end", nil, bankerToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListPlayers_JoinOrder(t *testing.T) {
	env := testutil.NewTestEnv(t)
	hostToken, _ := env.RegisterUser("ordhost@test.com", "ordhost", "0xC000000000000000000000000000000000000027")
	gameID, code := env.CreateGame(hostToken, "Ordered", 1000, nil)

	var wantUsers []uuid.UUID
	for i := 0; i < 3; i++ {
		wallet := fmt.Sprintf("0xC00000000000000000000000000000000000003%d", i)
		tok, uid := env.RegisterUser(fmt.Sprintf("ord%d@test.com", i), fmt.Sprintf("ord%d", i), wallet)
		env.JoinGame(tok, code, wallet)
		wantUsers = append(wantUsers, uid)
	}

	resp := env.AuthGET("/games/"+gameID.String()+"/players", hostToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var players []struct {
		UserID uuid.UUID `json:"user_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&players))
	require.Len(t, players, 3)
	for i, p := range players {
		assert.Equal(t, wantUsers[i], p.UserID)
	}
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
