package ports

import (
	"context"

	"github.com/pollbox/api/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
}
