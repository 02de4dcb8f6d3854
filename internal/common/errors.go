// Package common defines shared constants and sentinel errors used across
// the spc vault engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Input validation errors.
	ErrInvalidInput       = errors.New("invalid input")
	ErrWeakMasterPassword = errors.New("master password too short")

	// Authentication errors. ErrAuthFailed deliberately does not say
	// whether the password was wrong or the stored data was corrupted;
	// an AEAD tag check cannot tell the two apart.
	ErrWrongPassword = errors.New("wrong password")
	ErrAuthFailed    = errors.New("wrong password or corrupt data")

	// Vault lifecycle errors.
	ErrVaultLocked = errors.New("vault is locked")
	ErrVaultExists = errors.New("vault already exists")

	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
)
