// errors.go: structured error handling for reelcache operations
//
// This file provides structured error types using the go-errors library,
// giving every failure a stable code and enough context to report it
// without string matching.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package reelcache

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for reelcache operations
const (
	// Request errors
	ErrCodeUnknownUser       errors.ErrorCode = "REELCACHE_UNKNOWN_USER"
	ErrCodeInvalidCacheLevel errors.ErrorCode = "REELCACHE_INVALID_CACHE_LEVEL"
	ErrCodeInvalidQuery      errors.ErrorCode = "REELCACHE_INVALID_QUERY"

	// Registry errors
	ErrCodeDuplicateID    errors.ErrorCode = "REELCACHE_DUPLICATE_ID"
	ErrCodeRegistryFailed errors.ErrorCode = "REELCACHE_REGISTRY_FAILED"

	// Backing store errors
	ErrCodePrimaryFailed errors.ErrorCode = "REELCACHE_PRIMARY_FAILED"

	// Configuration errors
	ErrCodeInvalidConfig   errors.ErrorCode = "REELCACHE_INVALID_CONFIG"
	ErrCodeInvalidCapacity errors.ErrorCode = "REELCACHE_INVALID_CAPACITY"
)

// Common error messages
const (
	msgUnknownUser       = "user not found"
	msgInvalidCacheLevel = "invalid cache level"
	msgInvalidQuery      = "unsupported query kind"
	msgDuplicateID       = "identifier already exists"
	msgRegistryFailed    = "user registry lookup failed"
	msgPrimaryFailed     = "primary store query failed"
	msgInvalidConfig     = "invalid configuration"
	msgInvalidCapacity   = "invalid capacity: must be greater than 0"
)

// NewErrUnknownUser creates an error for a query issued by an unregistered user
func NewErrUnknownUser(userID string) error {
	return errors.NewWithField(ErrCodeUnknownUser, msgUnknownUser, "user_id", userID)
}

// NewErrInvalidCacheLevel creates an error for a clear request naming a tier
// that cannot be cleared
func NewErrInvalidCacheLevel(level interface{}) error {
	return errors.NewWithField(ErrCodeInvalidCacheLevel, msgInvalidCacheLevel, "level", fmt.Sprint(level))
}

// NewErrInvalidQuery creates an error for an unsupported query kind
func NewErrInvalidQuery(kind string) error {
	return errors.NewWithField(ErrCodeInvalidQuery, msgInvalidQuery, "kind", kind)
}

// NewErrDuplicateID creates an error when a movie or user id is registered twice
func NewErrDuplicateID(entity, id string) error {
	return errors.NewWithContext(ErrCodeDuplicateID, msgDuplicateID, map[string]interface{}{
		"entity": entity,
		"id":     id,
	})
}

// NewErrRegistryFailed wraps a failure of the user registry
func NewErrRegistryFailed(userID string, cause error) error {
	return errors.Wrap(cause, ErrCodeRegistryFailed, msgRegistryFailed).
		WithContext("user_id", userID).
		AsRetryable()
}

// NewErrPrimaryFailed wraps a failure of the primary store
func NewErrPrimaryFailed(key string, cause error) error {
	return errors.Wrap(cause, ErrCodePrimaryFailed, msgPrimaryFailed).
		WithContext("key", key).
		AsRetryable()
}

// NewErrInvalidConfig creates a configuration error
func NewErrInvalidConfig(reason string) error {
	return errors.NewWithField(ErrCodeInvalidConfig, msgInvalidConfig, "reason", reason)
}

// NewErrInvalidCapacity creates an error for a tier capacity below 1
func NewErrInvalidCapacity(tier Tier, capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"tier":             tier.String(),
		"provided_size":    capacity,
		"minimum_required": 1,
	})
}

// IsUnknownUser checks if error is an unknown user error
func IsUnknownUser(err error) bool {
	return errors.HasCode(err, ErrCodeUnknownUser)
}

// IsInvalidCacheLevel checks if error is an invalid cache level error
func IsInvalidCacheLevel(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidCacheLevel)
}

// IsInvalidQuery checks if error is an unsupported query kind error
func IsInvalidQuery(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidQuery)
}

// IsDuplicateID checks if error is a duplicate identifier error
func IsDuplicateID(err error) bool {
	return errors.HasCode(err, ErrCodeDuplicateID)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeInvalidConfig || code == ErrCodeInvalidCapacity
}

// IsRetryable checks if the error can be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var rcErr *errors.Error
	if goerrors.As(err, &rcErr) {
		return rcErr.Context
	}
	return nil
}
