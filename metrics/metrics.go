package metrics

import (
	"context"

	"betboard/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betboard_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betboard_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	AccountsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betboard_accounts_created_total",
		Help: "Accounts registered",
	})

	BetsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betboard_bets_created_total",
		Help: "Bets opened with an escrowed wager",
	})

	BetsChallengedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betboard_bet_challenges_total",
		Help: "Accepted challenges, labeled by whether a previous challenger was replaced",
	}, []string{"replaced"})

	PointsMovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betboard_points_moved_total",
		Help: "Absolute points moved by balance changes, labeled by transaction type",
	}, []string{"transaction_type"})

	EngagementTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betboard_engagement_toggles_total",
		Help: "Effective like/bookmark changes",
	}, []string{"kind", "active"})
)

// RegisterLedgerMetrics subscribes counters to committed ledger events
func RegisterLedgerMetrics(bus *events.Bus) {
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		AccountsCreatedTotal.Inc()
	})

	bus.Subscribe(events.EventTypeBetCreated, func(ctx context.Context, event events.Event) {
		BetsCreatedTotal.Inc()
	})

	bus.Subscribe(events.EventTypeBetChallenged, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BetChallengedEvent)
		if !ok {
			return
		}
		replaced := "false"
		if e.ReplacedChallengerID != nil {
			replaced = "true"
		}
		BetsChallengedTotal.WithLabelValues(replaced).Inc()
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		amount := e.ChangeAmount
		if amount < 0 {
			amount = -amount
		}
		PointsMovedTotal.WithLabelValues(string(e.TransactionType)).Add(float64(amount))
	})

	bus.Subscribe(events.EventTypeEngagementChanged, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.EngagementChangedEvent)
		if !ok {
			return
		}
		active := "false"
		if e.Active {
			active = "true"
		}
		EngagementTogglesTotal.WithLabelValues(string(e.Kind), active).Inc()
	})
}
