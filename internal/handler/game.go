package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/service"
)

// GameHandler handles the game registry endpoints.
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// Create handles POST /games.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.CreateGameInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	game, err := h.gameSvc.CreateGame(r.Context(), userID, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, game)
}

// Get handles GET /games/{gameID}.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid game id"))
		return
	}

	game, err := h.gameSvc.GetGame(r.Context(), gameID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, game)
}

// GetByCode handles GET /games/code/{code}.
func (h *GameHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameSvc.GetGameByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, game)
}

type joinGameInput struct {
	WalletAddress string `json:"wallet_address"`
}

// Join handles POST /games/code/{code}/join.
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input joinGameInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	player, err := h.gameSvc.JoinGame(r.Context(), chi.URLParam(r, "code"), userID, input.WalletAddress)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, player)
}

// ListPlayers handles GET /games/{gameID}/players.
func (h *GameHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid game id"))
		return
	}

	players, err := h.gameSvc.ListPlayers(r.Context(), gameID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, players)
}

// End handles POST /games/{gameID}/end.
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid game id"))
		return
	}

	game, err := h.gameSvc.EndGame(r.Context(), gameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, game)
}
