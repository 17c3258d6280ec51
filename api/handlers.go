package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"betboard/models"
	"betboard/service"

	"github.com/gorilla/mux"
)

func actorFrom(r *http.Request) (string, bool) {
	actor := strings.TrimSpace(r.Header.Get(ActorHeader))
	return actor, actor != ""
}

func betIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// intQuery reads an optional non-negative integer query parameter
func intQuery(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, service.KindInvalidInput, "malformed JSON body")
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), service.CreateAccountRequest{
		Email:       req.Email,
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *Handler) VerifyCredentials(w http.ResponseWriter, r *http.Request) {
	var req verifyCredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, service.KindInvalidInput, "malformed JSON body")
		return
	}

	account, err := h.accounts.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(r, "limit")
	if !ok {
		respondWithError(w, service.KindInvalidInput, "limit must be a non-negative integer")
		return
	}
	offset, ok := intQuery(r, "offset")
	if !ok {
		respondWithError(w, service.KindInvalidInput, "offset must be a non-negative integer")
		return
	}

	views, err := h.queries.ListBets(r.Context(), limit, offset)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toBetResponses(views))
}

func (h *Handler) CreateBet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondWithError(w, service.KindUnauthenticated, "missing "+ActorHeader+" header")
		return
	}

	var req createBetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, service.KindInvalidInput, "malformed JSON body")
		return
	}

	view, err := h.bets.CreateBet(r.Context(), service.CreateBetRequest{
		OwnerHandle: actor,
		Title:       req.Title,
		Body:        req.Body,
		Evidence:    req.Evidence,
		Wager:       req.Wager,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/bets/"+strconv.FormatInt(view.ID, 10))
	respondWithJSON(w, http.StatusCreated, toBetResponse(view))
}

func (h *Handler) GetBet(w http.ResponseWriter, r *http.Request) {
	betID, err := betIDFrom(r)
	if err != nil {
		respondWithError(w, service.KindInvalidInput, "invalid bet id")
		return
	}

	view, err := h.queries.GetBet(r.Context(), betID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toBetResponse(view))
}

func (h *Handler) ChallengeBet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondWithError(w, service.KindUnauthenticated, "missing "+ActorHeader+" header")
		return
	}

	betID, err := betIDFrom(r)
	if err != nil {
		respondWithError(w, service.KindInvalidInput, "invalid bet id")
		return
	}

	var req challengeBetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, service.KindInvalidInput, "malformed JSON body")
		return
	}

	view, err := h.bets.ChallengeBet(r.Context(), service.ChallengeBetRequest{
		BetID:            betID,
		ChallengerHandle: actor,
		Wager:            req.Wager,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toBetResponse(view))
}

func (h *Handler) SetLike(w http.ResponseWriter, r *http.Request) {
	h.setEngagement(w, r, h.engagements.SetLike)
}

func (h *Handler) SetBookmark(w http.ResponseWriter, r *http.Request) {
	h.setEngagement(w, r, h.engagements.SetBookmark)
}

type engagementSetter func(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error)

// setEngagement maps PUT to on and DELETE to off
func (h *Handler) setEngagement(w http.ResponseWriter, r *http.Request, set engagementSetter) {
	actor, ok := actorFrom(r)
	if !ok {
		respondWithError(w, service.KindUnauthenticated, "missing "+ActorHeader+" header")
		return
	}

	betID, err := betIDFrom(r)
	if err != nil {
		respondWithError(w, service.KindInvalidInput, "invalid bet id")
		return
	}

	result, err := set(r.Context(), actor, betID, r.Method == http.MethodPut)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, countResponse{Count: result.Count})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.queries.GetProfile(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profileResponse{
		Account:    toSummaryResponse(profile.Account),
		Balance:    profile.Balance,
		Owned:      toBetResponses(profile.Owned),
		Bookmarked: toBetResponses(profile.Bookmarked),
		Challenged: toBetResponses(profile.Challenged),
	})
}

func (h *Handler) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(r, "limit")
	if !ok {
		respondWithError(w, service.KindInvalidInput, "limit must be a non-negative integer")
		return
	}

	history, err := h.queries.GetBalanceHistory(r.Context(), mux.Vars(r)["handle"], limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toHistoryResponses(history))
}
