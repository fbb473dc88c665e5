package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store implementations. Callers match them
// with errors.Is; the specific ones wrap the generic ones.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)
	ErrEmailExists     = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
