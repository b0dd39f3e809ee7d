package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAccount is returned when an identity cannot be used as a ledger account
var ErrInvalidAccount = errors.New("invalid account")

// AccountID is the platform-assigned identity of a ledger account
type AccountID int64

// Valid reports whether the ID can own ledger entries
func (a AccountID) Valid() bool {
	return a > 0
}

// String returns the platform representation of the ID
func (a AccountID) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// Mention returns the chat mention for the account
func (a AccountID) Mention() string {
	return fmt.Sprintf("<@%d>", int64(a))
}

// ParseAccountID parses a platform snowflake into an AccountID
func ParseAccountID(s string) (AccountID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a numeric id", ErrInvalidAccount, s)
	}
	account := AccountID(id)
	if !account.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAccount, id)
	}
	return account, nil
}
