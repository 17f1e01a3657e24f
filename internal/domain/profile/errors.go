package profile

import "errors"

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrProfileExists       = errors.New("profile already exists")
	ErrInvalidBudgetRange  = errors.New("budget_min must not exceed budget_max")
)
