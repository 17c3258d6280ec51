package models

import "time"

// BetStatus represents the lifecycle state of a bet
type BetStatus string

const (
	BetStatusOpen       BetStatus = "open"
	BetStatusChallenged BetStatus = "challenged"
	BetStatusResolved   BetStatus = "resolved"
)

// Bet is a claim staked with points by its owner
type Bet struct {
	ID                  int64     `db:"id"`
	OwnerAccountID      int64     `db:"owner_account_id"`
	Title               string    `db:"title"`
	Body                string    `db:"body"`
	Evidence            string    `db:"evidence"`
	Wager               int64     `db:"wager"`
	Status              BetStatus `db:"status"`
	ChallengerAccountID *int64    `db:"challenger_account_id"`
	ChallengeAmount     *int64    `db:"challenge_amount"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// IsChallenged reports whether a challenger currently holds the bet
func (b *Bet) IsChallenged() bool {
	return b.ChallengerAccountID != nil
}

// CanBeChallenged reports whether the bet still accepts challenges
func (b *Bet) CanBeChallenged() bool {
	return b.Status == BetStatusOpen || b.Status == BetStatusChallenged
}

// MinChallenge returns the smallest offer a new challenge must make. An open
// bet must be matched at its wager; a challenged bet must be raised by minRaise
// over the standing challenge.
func (b *Bet) MinChallenge(minRaise int64) int64 {
	if b.ChallengeAmount == nil {
		return b.Wager
	}
	return *b.ChallengeAmount + minRaise
}

// EscrowedBy returns the points the given account currently has escrowed as
// this bet's challenger, or 0.
func (b *Bet) EscrowedBy(accountID int64) int64 {
	if b.ChallengerAccountID == nil || *b.ChallengerAccountID != accountID || b.ChallengeAmount == nil {
		return 0
	}
	return *b.ChallengeAmount
}

// BetView is a bet joined with the accounts involved and its engagement counts
type BetView struct {
	Bet
	Owner         AccountSummary
	Challenger    *AccountSummary
	LikeCount     int64
	BookmarkCount int64
}
