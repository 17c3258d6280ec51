package service

import (
	"net/mail"
	"strings"
)

const (
	maxHandleLength   = 32
	maxTitleLength    = 200
	minPasswordLength = 8
	// bcrypt only accepts passwords up to 72 bytes
	maxPasswordBytes = 72
)

// CreateAccountRequest carries the fields needed to register an account
type CreateAccountRequest struct {
	Email       string
	Handle      string
	DisplayName string
	Password    string
}

// Normalize trims surrounding whitespace and lowercases the email
func (r *CreateAccountRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Handle = strings.TrimSpace(r.Handle)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

// Validate checks required fields and formats
func (r CreateAccountRequest) Validate() error {
	if r.Email == "" || r.Handle == "" || r.Password == "" {
		return invalidInput("email, handle and password are required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return invalidInput("email %q is not a valid address", r.Email)
	}
	if len(r.Handle) > maxHandleLength {
		return invalidInput("handle must be at most %d characters", maxHandleLength)
	}
	for _, c := range r.Handle {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '.') {
			return invalidInput("handle may only contain letters, digits, '_', '-' and '.'")
		}
	}
	if len(r.Password) < minPasswordLength {
		return invalidInput("password must be at least %d characters", minPasswordLength)
	}
	if len(r.Password) > maxPasswordBytes {
		return invalidInput("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// CreateBetRequest carries the fields of a new bet
type CreateBetRequest struct {
	OwnerHandle string
	Title       string
	Body        string
	Evidence    string
	Wager       int64
}

// Validate checks that every field is present and the wager is positive
func (r CreateBetRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.OwnerHandle) == "" {
		missing = append(missing, "owner handle")
	}
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Body) == "" {
		missing = append(missing, "body")
	}
	if strings.TrimSpace(r.Evidence) == "" {
		missing = append(missing, "evidence")
	}
	if r.Wager == 0 {
		missing = append(missing, "wager")
	}
	if len(missing) > 0 {
		return invalidInput("missing required fields: %s", strings.Join(missing, ", "))
	}
	if r.Wager < 0 {
		return invalidInput("wager must be positive, got %d", r.Wager)
	}
	if len(r.Title) > maxTitleLength {
		return invalidInput("title must be at most %d characters", maxTitleLength)
	}
	return nil
}

// ChallengeBetRequest carries a counter-stake on an existing bet
type ChallengeBetRequest struct {
	BetID            int64
	ChallengerHandle string
	Wager            int64
}

// Validate checks that every field is present and the offer is positive
func (r ChallengeBetRequest) Validate() error {
	var missing []string
	if r.BetID == 0 {
		missing = append(missing, "bet id")
	}
	if strings.TrimSpace(r.ChallengerHandle) == "" {
		missing = append(missing, "challenger handle")
	}
	if r.Wager == 0 {
		missing = append(missing, "wager")
	}
	if len(missing) > 0 {
		return invalidInput("missing required fields: %s", strings.Join(missing, ", "))
	}
	if r.BetID < 0 {
		return invalidInput("bet id must be positive, got %d", r.BetID)
	}
	if r.Wager < 0 {
		return invalidInput("wager must be positive, got %d", r.Wager)
	}
	return nil
}
