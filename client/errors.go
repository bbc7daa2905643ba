package client

import (
	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
)

// Error classification helpers re-exported so SDK callers do not import the
// internal packages.
var (
	IsValidationError  = memory.IsValidationError
	IsNotFoundError    = memory.IsNotFoundError
	IsPermissionError  = memory.IsPermissionError
	IsConflictError    = memory.IsConflictError
	IsUnavailableError = memory.IsUnavailableError
)

// ErrInvalidCredentials is returned by Login when no account matches.
var ErrInvalidCredentials = user.ErrInvalidCredentials
