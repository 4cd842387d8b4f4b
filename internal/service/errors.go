package service

import "errors"

// Domain errors. Their text is the stable message returned to API clients.
var (
	ErrDuplicateIdentity   = errors.New("User with provided username or email already exists")
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrUserNotFound        = errors.New("User doesn't exist")
	ErrAccountNotFound     = errors.New("Account not found")
	ErrInvalidAccountType  = errors.New("Account type is not valid")
	ErrNegativeBalance     = errors.New("Negative numbers are not allowed")
	ErrInvalidAccount      = errors.New("Invalid account")
	ErrSameAccount         = errors.New("Transmitter and Receiver cannot have the same account number")
	ErrAccountTypeMismatch = errors.New("Account types do not match")
	ErrInsufficientFunds   = errors.New("Insufficient funds")
)

// ValidationError reports malformed input
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validation(msg string) error {
	return &ValidationError{Msg: msg}
}
