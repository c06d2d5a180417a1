package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/potledger/escrow/internal/auth"
	"github.com/potledger/escrow/internal/domain"
	"github.com/potledger/escrow/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login, and implements the user
// directory lookup the escrow core consumes.
type AuthService struct {
	pool   *pgxpool.Pool
	users  repository.UserRepository
	jwtMgr *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(pool *pgxpool.Pool, users repository.UserRepository, jwtMgr *auth.JWTManager) *AuthService {
	return &AuthService{pool: pool, users: users, jwtMgr: jwtMgr}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Username      string `json:"username"`
	WalletAddress string `json:"wallet_address"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token         string    `json:"token"`
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	WalletAddress string    `json:"wallet_address"`
}

// Register creates a new user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateWalletAddress(input.WalletAddress); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         input.Email,
		Username:      input.Username,
		WalletAddress: input.WalletAddress,
		PasswordHash:  string(hash),
	}
	if err := s.users.Create(ctx, s.pool, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrConflict("email, username or wallet address already registered")
		}
		return nil, domain.ErrInternal("create user", err)
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Username, user.WalletAddress)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{
		Token:         token,
		UserID:        user.ID,
		Username:      user.Username,
		WalletAddress: user.WalletAddress,
	}, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a JWT.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Username, user.WalletAddress)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{
		Token:         token,
		UserID:        user.ID,
		Username:      user.Username,
		WalletAddress: user.WalletAddress,
	}, nil
}

// GetUser resolves a user's public directory entry.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.Directory, error) {
	user, err := s.users.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", id.String())
	}
	entry := user.DirectoryEntry()
	return &entry, nil
}
