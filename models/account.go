package models

import (
	"time"
)

// Account is a user identity holding a points balance
type Account struct {
	ID           int64     `db:"id"`
	Handle       string    `db:"handle"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// AccountSummary is the public part of an account shown next to bets
type AccountSummary struct {
	ID          int64
	Handle      string
	DisplayName string
}

// Summary strips private fields from the account
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:          a.ID,
		Handle:      a.Handle,
		DisplayName: a.DisplayName,
	}
}
