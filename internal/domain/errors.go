package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInternalError          = errors.New("internal error")
	ErrUserNotFound           = errors.New("user not found")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrEmailAlreadyExists     = errors.New("a user with this email already exists")
	ErrCategoryAlreadyExists  = errors.New("a category with this name already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrCategoryRequired       = errors.New("category is required")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTimePeriod      = errors.New("invalid time period")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxCategoryNameLength = 100
	MaxDescriptionLength  = 500
)
