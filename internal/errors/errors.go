package errors

import (
	"errors"
	"fmt"
)

// Common error types for the admin session layer
var (
	// Login errors
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrInsufficientPrivileges = errors.New("account is disabled or insufficient privileges")
	ErrLoginFailed            = errors.New("login failed")

	// Refresh errors
	ErrNoRefreshToken     = errors.New("no refresh token available")
	ErrRefreshRejected    = errors.New("refresh token rejected")
	ErrRefreshUnreachable = errors.New("token refresh unreachable")

	// Session errors
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// TerminalRefresh reports whether a refresh failure invalidates the stored
// session. Only refresh-token-specific rejections qualify; transient transport
// failures leave a still-possibly-valid session intact.
func TerminalRefresh(err error) bool {
	return errors.Is(err, ErrNoRefreshToken) || errors.Is(err, ErrRefreshRejected)
}
