package auth

import "errors"

var (
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrManagerRoleRequired        = errors.New("manager role required")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrRefreshTokenCookieEmpty    = errors.New("refresh token cookie is empty")
)
