package auth

import "context"

type AuthService interface {
	// IssueToken mints an access/refresh token pair for a staff member of
	// the calling manager's store.
	IssueToken(ctx context.Context, req IssueTokenRequest) (TokenResponse, error)
	// RefreshToken exchanges a valid, unrevoked refresh token for a new
	// access token.
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	// Logout revokes the given refresh token.
	Logout(ctx context.Context, refreshToken string) error
}
