// Package common defines shared constants and sentinel errors used across
// the BeyondPad client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Input validation errors. Raised before any network call is made.
	ErrInvalidInput = errors.New("invalid input")

	// Wallet errors. Both are terminal for the current operation.
	ErrWalletUnavailable = errors.New("wallet unavailable")
	ErrSigningRejected   = errors.New("signing rejected")

	// Storage-layer errors.
	ErrUploadFailed = errors.New("upload failed")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrFetchTimeout = errors.New("fetch timeout")

	// Relay errors. ErrRateLimited is the only class that is retried
	// automatically, bounded by the registry retry policy.
	ErrRateLimited = errors.New("rate limited")

	// Cipher errors. A wrong key or tampered ciphertext must surface as
	// ErrDecryptionFailed, never as garbage plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrShareFailed marks an isolated failure of the collaborator step:
	// the note itself was saved, only the second wrapped key was not
	// registered.
	ErrShareFailed = errors.New("sharing failed")

	// Generic flow-control errors.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)
