package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found or does
// not belong to the requesting user. Ownership failures deliberately map to
// this error so the API does not leak resource existence.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation would violate a business invariant,
// e.g. deleting the last remaining active account of a user.
var ErrConflict = errors.New("operation conflicts with current state")

// ErrForbidden indicates the user is authenticated but not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")
