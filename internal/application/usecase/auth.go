package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"lifequest/internal/domain"
	"lifequest/internal/infrastructure/cache"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/infrastructure/security"
	"lifequest/internal/logger"

	"github.com/google/uuid"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)

const minPasswordLength = 6

type AuthUseCase struct {
	store        *repository.Store
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
}

func NewAuthUseCase(
	store *repository.Store,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
) *AuthUseCase {
	return &AuthUseCase{
		store:        store,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates the identity and its empty ledger in one row and signs
// the user in.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, security.TokenPair, error) {
	username, err := requireText("username", in.Username, 50)
	if err != nil {
		return nil, security.TokenPair{}, err
	}
	if len(username) < 3 {
		return nil, security.TokenPair{}, domain.NewValidationError("username", "must be at least 3 characters")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, security.TokenPair{}, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, security.TokenPair{}, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, security.TokenPair{}, err
	}
	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hash,
		Badges:   []domain.Badge{},
	}
	if err := uc.store.Users.Create(ctx, user); err != nil {
		return nil, security.TokenPair{}, err
	}

	tokens, err := uc.generateAndSaveTokens(ctx, user.ID)
	if err != nil {
		return nil, security.TokenPair{}, err
	}
	logger.Info("user registered", "user", user.ID)
	return user, tokens, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*domain.User, security.TokenPair, error) {
	user, err := uc.store.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, security.TokenPair{}, errInvalidCredentials
	}
	if err != nil {
		return nil, security.TokenPair{}, err
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return nil, security.TokenPair{}, errInvalidCredentials
	}

	tokens, err := uc.generateAndSaveTokens(ctx, user.ID)
	if err != nil {
		return nil, security.TokenPair{}, err
	}
	return user, tokens, nil
}

// Refresh rotates a refresh token: the old one is revoked before the new
// pair is issued.
func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (security.TokenPair, error) {
	userID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return security.TokenPair{}, err
	}
	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil {
		return security.TokenPair{}, err
	}
	if cachedID != userID {
		return security.TokenPair{}, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	}
	if err := uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken); err != nil {
		return security.TokenPair{}, domain.NewStorageError("revoke refresh token", err)
	}
	return uc.generateAndSaveTokens(ctx, userID)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := uc.tokenCache.DeleteRefresh(ctx, refreshToken); err != nil {
		return domain.NewStorageError("revoke refresh token", err)
	}
	return nil
}

func (uc *AuthUseCase) ValidateAccess(token string) (uuid.UUID, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}

// Me returns the caller's profile: points, badges and counters.
func (uc *AuthUseCase) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.store.Users.GetByID(ctx, userID)
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, userID uuid.UUID) (security.TokenPair, error) {
	tokens, err := uc.tokenManager.Generate(userID)
	if err != nil {
		return security.TokenPair{}, err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, userID, tokens.RefreshToken, security.RefreshTTL); err != nil {
		return security.TokenPair{}, domain.NewStorageError("save refresh token", err)
	}
	return tokens, nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", domain.NewValidationError("email", "is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", domain.NewValidationError("email", "is not a valid address")
	}
	if len(raw) > 100 {
		return "", domain.NewValidationError("email", "must be at most 100 characters")
	}
	return raw, nil
}
