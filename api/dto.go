package api

import (
	"time"

	"betboard/models"
)

type createAccountRequest struct {
	Email       string `json:"email"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type verifyCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createBetRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Evidence string `json:"evidence"`
	Wager    int64  `json:"wager"`
}

type challengeBetRequest struct {
	Wager int64 `json:"wager"`
}

type accountResponse struct {
	ID          int64     `json:"id"`
	Handle      string    `json:"handle"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Balance     int64     `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

type accountSummaryResponse struct {
	ID          int64  `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

type betResponse struct {
	ID              int64                   `json:"id"`
	Title           string                  `json:"title"`
	Body            string                  `json:"body"`
	Evidence        string                  `json:"evidence"`
	Wager           int64                   `json:"wager"`
	Status          models.BetStatus        `json:"status"`
	Owner           accountSummaryResponse  `json:"owner"`
	Challenger      *accountSummaryResponse `json:"challenger"`
	ChallengeAmount *int64                  `json:"challenge_amount"`
	LikeCount       int64                   `json:"like_count"`
	BookmarkCount   int64                   `json:"bookmark_count"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type profileResponse struct {
	Account    accountSummaryResponse `json:"account"`
	Balance    int64                  `json:"balance"`
	Owned      []betResponse          `json:"owned"`
	Bookmarked []betResponse          `json:"bookmarked"`
	Challenged []betResponse          `json:"challenged"`
}

type balanceHistoryResponse struct {
	ID              int64                  `json:"id"`
	BalanceBefore   int64                  `json:"balance_before"`
	BalanceAfter    int64                  `json:"balance_after"`
	ChangeAmount    int64                  `json:"change_amount"`
	TransactionType models.TransactionType `json:"transaction_type"`
	Metadata        map[string]any         `json:"metadata,omitempty"`
	RelatedBetID    *int64                 `json:"related_bet_id,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Handle:      a.Handle,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
	}
}

func toSummaryResponse(s models.AccountSummary) accountSummaryResponse {
	return accountSummaryResponse{ID: s.ID, Handle: s.Handle, DisplayName: s.DisplayName}
}

func toBetResponse(v *models.BetView) betResponse {
	resp := betResponse{
		ID:              v.ID,
		Title:           v.Title,
		Body:            v.Body,
		Evidence:        v.Evidence,
		Wager:           v.Wager,
		Status:          v.Status,
		Owner:           toSummaryResponse(v.Owner),
		ChallengeAmount: v.ChallengeAmount,
		LikeCount:       v.LikeCount,
		BookmarkCount:   v.BookmarkCount,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if v.Challenger != nil {
		challenger := toSummaryResponse(*v.Challenger)
		resp.Challenger = &challenger
	}
	return resp
}

func toBetResponses(views []*models.BetView) []betResponse {
	out := make([]betResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toBetResponse(v))
	}
	return out
}

func toHistoryResponses(entries []*models.BalanceHistory) []balanceHistoryResponse {
	out := make([]balanceHistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, balanceHistoryResponse{
			ID:              h.ID,
			BalanceBefore:   h.BalanceBefore,
			BalanceAfter:    h.BalanceAfter,
			ChangeAmount:    h.ChangeAmount,
			TransactionType: h.TransactionType,
			Metadata:        h.TransactionMetadata,
			RelatedBetID:    h.RelatedBetID,
			CreatedAt:       h.CreatedAt,
		})
	}
	return out
}
