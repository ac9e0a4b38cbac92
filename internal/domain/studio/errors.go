package studio

import "errors"

// Sentinel errors for equipment purchases.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("equipment already owned")
	ErrSkillTooLow       = errors.New("studio skill too low")
)
