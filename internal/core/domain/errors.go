package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Publishing treats it as a successful, idempotent outcome.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidBump indicates a bump kind outside major, minor and patch.
	ErrInvalidBump = errors.New("invalid bump type")

	// ErrInvalidVersion indicates a string that is not MAJOR.MINOR.PATCH.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrVersionNotFound indicates the manifest has no version declaration.
	ErrVersionNotFound = errors.New("version declaration not found")

	// ErrUnauthorized indicates the hosting service rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the hosting service's request quota is spent.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotRepository indicates the project directory is not a git work tree.
	ErrNotRepository = errors.New("not a git work tree")

	// ErrNothingToRelease indicates there is no fragment content to
	// assemble. It is a reportable outcome, not a failure.
	ErrNothingToRelease = errors.New("nothing to release")
)
