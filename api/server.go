package api

import (
	"net/http"

	"betboard/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActorHeader carries the handle of the authenticated caller. It is set by
// the authenticating proxy in front of this service.
const ActorHeader = "X-Actor-Handle"

// Handler serves the JSON API over the ledger services
type Handler struct {
	accounts    service.AccountService
	bets        service.BetService
	engagements service.EngagementService
	queries     service.QueryService
}

func NewHandler(
	accounts service.AccountService,
	bets service.BetService,
	engagements service.EngagementService,
	queries service.QueryService,
) *Handler {
	return &Handler{
		accounts:    accounts,
		bets:        bets,
		engagements: engagements,
		queries:     queries,
	}
}

// Router builds the route table
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requestMiddleware)

	api.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", h.VerifyCredentials).Methods(http.MethodPost)

	api.HandleFunc("/bets", h.ListBets).Methods(http.MethodGet)
	api.HandleFunc("/bets", h.CreateBet).Methods(http.MethodPost)
	api.HandleFunc("/bets/{id:[0-9]+}", h.GetBet).Methods(http.MethodGet)
	api.HandleFunc("/bets/{id:[0-9]+}/challenge", h.ChallengeBet).Methods(http.MethodPost)
	api.HandleFunc("/bets/{id:[0-9]+}/like", h.SetLike).Methods(http.MethodPut, http.MethodDelete)
	api.HandleFunc("/bets/{id:[0-9]+}/bookmark", h.SetBookmark).Methods(http.MethodPut, http.MethodDelete)

	api.HandleFunc("/users/{handle}/profile", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/{handle}/history", h.GetBalanceHistory).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, service.KindNotFound, "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Kind:    service.KindInvalidInput,
			Message: "method not allowed",
		}})
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
