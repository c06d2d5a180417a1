package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/potledger/escrow/internal/auth"
	"github.com/potledger/escrow/internal/escrow"
	"github.com/potledger/escrow/internal/handler"
	"github.com/potledger/escrow/internal/infra"
	"github.com/potledger/escrow/internal/repository"
	"github.com/potledger/escrow/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool           *pgxpool.Pool
	JWTMgr         *auth.JWTManager
	Hub            *infra.WSHub
	Payout         service.PayoutTrigger
	AllowedOrigins string // empty means any origin
	Logger         *slog.Logger
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	hub := deps.Hub
	if hub == nil {
		hub = infra.NewWSHub(logger)
	}
	payout := deps.Payout
	if payout == nil {
		payout = service.NewLogPayoutTrigger(logger)
	}

	// Repositories
	gameRepo := repository.NewGameRepository()
	playerRepo := repository.NewPlayerRepository()
	requestRepo := repository.NewRequestRepository()
	approvalRepo := repository.NewApprovalRepository()
	userRepo := repository.NewUserRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Approval engine
	engine := escrow.NewEngine(gameRepo, playerRepo, requestRepo, approvalRepo, userRepo, outboxRepo)

	// Services
	authSvc := service.NewAuthService(pool, userRepo, jwtMgr)
	gameSvc := service.NewGameService(pool, gameRepo, playerRepo, userRepo, outboxRepo, hub, logger)
	escrowSvc := service.NewEscrowService(pool, engine, gameRepo, playerRepo, requestRepo,
		approvalRepo, userRepo, outboxRepo, payout, hub, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	gameHandler := handler.NewGameHandler(gameSvc)
	cashoutHandler := handler.NewCashOutHandler(escrowSvc)
	voteHandler := handler.NewVoteHandler(escrowSvc)
	wsHandler := handler.NewWSHandler(hub)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.AllowedOrigins))

	// Health (no auth)
	r.Group(func(r chi.Router) {
		r.Use(handler.JSONContentType)
		r.Get("/health", handler.HealthHandler(pool))

		// Auth routes (no auth)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		// Websocket upgrade must not carry a JSON content-type.
		r.Get("/games/{gameID}/ws", wsHandler.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(handler.JSONContentType)

			r.Get("/users/{userID}", authHandler.GetUser)

			r.Route("/games", func(r chi.Router) {
				r.Post("/", gameHandler.Create)
				r.Get("/code/{code}", gameHandler.GetByCode)
				r.Post("/code/{code}/join", gameHandler.Join)
				r.Get("/{gameID}", gameHandler.Get)
				r.Post("/{gameID}/end", gameHandler.End)
				r.Get("/{gameID}/players", gameHandler.ListPlayers)
				r.Post("/{gameID}/cashouts", cashoutHandler.Submit)
				r.Get("/{gameID}/cashouts", cashoutHandler.ListForGame)
			})

			r.Get("/players/{playerID}/cashouts", cashoutHandler.ListForPlayer)

			r.Route("/cashouts", func(r chi.Router) {
				r.Get("/{requestID}", cashoutHandler.Get)
				r.Post("/{requestID}/votes", voteHandler.Cast)
				r.Get("/{requestID}/votes", voteHandler.List)
			})
		})
	})

	return r
}
