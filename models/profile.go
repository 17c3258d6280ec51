package models

// Profile aggregates an account with the bets it is involved in
type Profile struct {
	Account    AccountSummary
	Balance    int64
	Owned      []*BetView
	Bookmarked []*BetView
	Challenged []*BetView
}
