package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/auth"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	jwtService jwt.Service
}

func NewAuthService(jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{jwtService: jwtService}
}

// IssueToken implements auth.AuthService. The minted pair is scoped to the
// calling manager's store.
func (a *AuthServiceImpl) IssueToken(ctx context.Context, req auth.IssueTokenRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}
	storeID, ok := claims["store_id"].(string)
	if !ok || storeID == "" {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	role := jwt.Role(req.Role)

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(req.StaffID, storeID, role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.jwtService.GenerateRefreshToken(req.StaffID, storeID, role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	token, err := jwtauth.VerifyToken(a.jwtService.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	if a.jwtService.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	staffID, ok := claims["staff_id"].(string)
	if !ok || staffID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	storeID, ok := claims["store_id"].(string)
	if !ok || storeID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.jwtService.GenerateAccessToken(staffID, storeID, jwt.Role(role))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Logout implements auth.AuthService. Revoking an already revoked token is
// a no-op.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	a.jwtService.RevokeToken(refreshToken)
	return nil
}
