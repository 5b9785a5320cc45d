// Package common defines shared constants and sentinel errors used across
// classvault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Login / session errors.
	ErrNoSession = errors.New("no matching account for this code")

	// ErrRemoteRequired is returned when a member login needs the remote
	// store but no connection descriptor has been configured. First-time
	// member access requires an owner's invite link.
	ErrRemoteRequired = errors.New("remote store is not configured: ask the owner for an invite link")

	// ErrCodeTaken is the single user-facing uniqueness message. It does
	// not distinguish whether a tenant or a member holds the code.
	ErrCodeTaken = errors.New("this code is already in use")

	// Role enforcement.
	ErrOwnerOnly  = errors.New("operation requires an owner session")
	ErrMemberOnly = errors.New("operation requires a member session")

	// Validation.
	ErrEmptyCode = errors.New("code must not be empty")
)
