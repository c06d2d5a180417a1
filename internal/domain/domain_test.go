package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("player@example.com"))
	assert.NoError(t, ValidateEmail("a.b+tag@sub.domain.io"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("ab"))
	assert.NoError(t, ValidateUsername("player_one-2"))
	assert.Error(t, ValidateUsername("a"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("has spaces"))
}

func TestValidateWalletAddress(t *testing.T) {
	assert.NoError(t, ValidateWalletAddress("0xA11CE00000000000000000000000000000000001"))
	assert.Error(t, ValidateWalletAddress(""))

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateWalletAddress(string(long)))
}

func TestValidateBuyIn(t *testing.T) {
	assert.NoError(t, ValidateBuyIn(1))
	assert.NoError(t, ValidateBuyIn(1_000_000))
	assert.Error(t, ValidateBuyIn(0))
	assert.Error(t, ValidateBuyIn(-500))
}

func TestValidateChipCount(t *testing.T) {
	// Zero is a valid declaration: the player busted.
	assert.NoError(t, ValidateChipCount(0))
	assert.NoError(t, ValidateChipCount(12500))
	assert.Error(t, ValidateChipCount(-1))
}

func TestValidateJoinCode(t *testing.T) {
	assert.NoError(t, ValidateJoinCode("ABC234"))
	assert.NoError(t, ValidateJoinCode("abc234"))
	assert.Error(t, ValidateJoinCode(""))
	assert.Error(t, ValidateJoinCode("ab"))
	assert.Error(t, ValidateJoinCode("has space"))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to PlayerStatus
		want     bool
	}{
		{PlayerActive, PlayerCashingOut, true},
		{PlayerCashingOut, PlayerCashedOut, true},
		{PlayerCashingOut, PlayerActive, true},
		{PlayerActive, PlayerCashedOut, false},
		{PlayerCashedOut, PlayerActive, false},
		{PlayerCashedOut, PlayerCashingOut, false},
		{PlayerActive, PlayerActive, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestRequestIsOpen(t *testing.T) {
	assert.True(t, (&CashOutRequest{Status: RequestPending}).IsOpen())
	assert.True(t, (&CashOutRequest{Status: RequestDisputed}).IsOpen())
	assert.False(t, (&CashOutRequest{Status: RequestDisputed, Superseded: true}).IsOpen())
	assert.False(t, (&CashOutRequest{Status: RequestApproved}).IsOpen())
}

func TestRequestIsTerminal(t *testing.T) {
	assert.True(t, (&CashOutRequest{Status: RequestApproved}).IsTerminal())
	assert.False(t, (&CashOutRequest{Status: RequestPending}).IsTerminal())
	assert.False(t, (&CashOutRequest{Status: RequestDisputed}).IsTerminal())
}

func TestGameBanker(t *testing.T) {
	addr := "0xB000000000000000000000000000000000000001"

	t.Run("no banker", func(t *testing.T) {
		g := &Game{}
		assert.False(t, g.HasBanker())
		assert.False(t, g.IsBanker(addr))
	})

	t.Run("empty banker address", func(t *testing.T) {
		empty := ""
		g := &Game{BankerAddress: &empty}
		assert.False(t, g.HasBanker())
	})

	t.Run("designated banker", func(t *testing.T) {
		g := &Game{BankerAddress: &addr}
		assert.True(t, g.HasBanker())
		assert.True(t, g.IsBanker(addr))
		assert.False(t, g.IsBanker("0xOTHER"))
		assert.False(t, g.IsBanker(""))
	})
}

func TestAppErrorStatuses(t *testing.T) {
	tests := []struct {
		err        *AppError
		wantStatus int
		wantCode   string
	}{
		{ErrNotFound("game", "x"), 404, "NOT_FOUND"},
		{ErrValidation("bad"), 400, "VALIDATION_ERROR"},
		{ErrUnauthorized("no token"), 401, "UNAUTHORIZED"},
		{ErrForbidden("nope"), 403, "FORBIDDEN"},
		{ErrConflict("dup"), 409, "CONFLICT"},
		{ErrAlreadyJoined("g"), 409, "ALREADY_JOINED"},
		{ErrGameFull(8), 409, "GAME_FULL"},
		{ErrGameEnded(), 409, "GAME_ENDED"},
		{ErrPlayerNotActive(PlayerCashedOut), 409, "PLAYER_NOT_ACTIVE"},
		{ErrRequestAlreadyOpen("r"), 409, "REQUEST_ALREADY_OPEN"},
		{ErrRequestNotOpen(RequestApproved), 409, "REQUEST_NOT_OPEN"},
		{ErrAlreadyVoted("r"), 409, "ALREADY_VOTED"},
		{ErrInvalidTransition(PlayerActive, PlayerCashedOut), 409, "INVALID_TRANSITION"},
		{ErrInternal("boom", nil), 500, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := ErrInternal("wrapped", cause)
	assert.ErrorIs(t, err, cause)
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u := User{
		ID:           uuid.New(),
		Email:        "u@test.com",
		Username:     "u",
		PasswordHash: "$2a$10$secret",
	}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestNewRequestSubmittedEvent(t *testing.T) {
	req := &CashOutRequest{
		ID:        uuid.New(),
		GameID:    uuid.New(),
		PlayerID:  uuid.New(),
		ChipCount: 4200,
		Status:    RequestPending,
	}

	t.Run("fresh submission", func(t *testing.T) {
		evt := NewRequestSubmittedEvent(req, nil)
		assert.Equal(t, EventRequestSubmitted, evt.EventType)
		assert.Equal(t, AggregateRequest, evt.AggregateType)
		assert.Equal(t, req.ID.String(), evt.AggregateID)
		assert.Equal(t, req.ID.String(), evt.PartitionKey)
		assert.NotEqual(t, uuid.Nil, evt.EventID)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(evt.Payload, &payload))
		assert.Equal(t, float64(4200), payload["chip_count"])
		assert.NotContains(t, payload, "supersedes")
	})

	t.Run("resubmission carries superseded id", func(t *testing.T) {
		old := uuid.New()
		evt := NewRequestSubmittedEvent(req, &old)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(evt.Payload, &payload))
		assert.Equal(t, old.String(), payload["supersedes"])
	})
}

func TestNewRequestStatusEvent(t *testing.T) {
	req := &CashOutRequest{ID: uuid.New(), Status: RequestDisputed}
	assert.Equal(t, EventRequestDisputed, NewRequestStatusEvent(req).EventType)

	req.Status = RequestApproved
	assert.Equal(t, EventRequestApproved, NewRequestStatusEvent(req).EventType)
}

func TestNewPayoutEvent(t *testing.T) {
	req := &CashOutRequest{ID: uuid.New(), GameID: uuid.New(), PlayerID: uuid.New(), ChipCount: 9000}

	ok := NewPayoutEvent(req, true, req.ID.String(), "")
	assert.Equal(t, EventPayoutRequested, ok.EventType)

	failed := NewPayoutEvent(req, false, req.ID.String(), "connection refused")
	assert.Equal(t, EventPayoutFailed, failed.EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(failed.Payload, &payload))
	assert.Equal(t, "connection refused", payload["detail"])
	assert.Equal(t, float64(9000), payload["amount"])
}
