// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repository/identity/store layers.
var (
	// ErrNotFound indicates the requested entity (user, token, document) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication (unknown user or wrong password).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCredentialExpired indicates a stored credential that is past its lifetime.
	// The session gate signs the user out locally on this error.
	ErrCredentialExpired = errors.New("credential expired")

	// ErrCredentialInvalid indicates a stored credential that was revoked or tampered with.
	// Treated like ErrCredentialExpired by the session gate.
	ErrCredentialInvalid = errors.New("credential invalid")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates a temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrFileTooBig indicates an upload exceeding the client-side size cap.
	ErrFileTooBig = errors.New("file too big")

	// ErrEmptyTitle indicates a record submitted with a blank title.
	ErrEmptyTitle = errors.New("title must not be empty")
)
