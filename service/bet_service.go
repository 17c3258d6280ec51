package service

import (
	"context"
	"fmt"

	"betboard/events"
	"betboard/models"

	log "github.com/sirupsen/logrus"
)

type betService struct {
	uowFactory UnitOfWorkFactory
	minRaise   int64
}

// NewBetService creates a new bet service. minRaise is how much a challenge
// replacing an existing one must add to the standing challenge amount.
func NewBetService(uowFactory UnitOfWorkFactory, minRaise int64) BetService {
	return &betService{
		uowFactory: uowFactory,
		minRaise:   minRaise,
	}
}

// CreateBet opens a bet and escrows the owner's wager in the same transaction
func (s *betService) CreateBet(ctx context.Context, req CreateBetRequest) (*models.BetView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	owner, err := uow.AccountRepository().GetByHandle(ctx, req.OwnerHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, req.OwnerHandle)
	}

	// Lock the owner so the balance read below stays valid until commit
	locked, err := uow.AccountRepository().LockByIDs(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock owner: %w", err)
	}
	owner = locked[owner.ID]

	if owner.Balance < req.Wager {
		return nil, &InsufficientFundsError{Available: owner.Balance, Required: req.Wager}
	}

	bet := &models.Bet{
		OwnerAccountID: owner.ID,
		Title:          req.Title,
		Body:           req.Body,
		Evidence:       req.Evidence,
		Wager:          req.Wager,
		Status:         models.BetStatusOpen,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	newBalance, err := uow.AccountRepository().Debit(ctx, owner.ID, req.Wager)
	if err != nil {
		return nil, fmt.Errorf("failed to escrow wager: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       owner.ID,
		BalanceBefore:   owner.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    -req.Wager,
		TransactionType: models.TransactionTypeBetEscrow,
		TransactionMetadata: map[string]any{
			"bet_id": bet.ID,
			"title":  bet.Title,
		},
		RelatedBetID: &bet.ID,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record wager escrow: %w", err)
	}

	uow.EventBus().Publish(events.BetCreatedEvent{
		BetID:          bet.ID,
		OwnerAccountID: owner.ID,
		Wager:          bet.Wager,
	})

	view, err := uow.BetRepository().GetView(ctx, bet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created bet: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("created bet %d not visible in its own transaction", bet.ID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"betId":   bet.ID,
		"owner":   owner.Handle,
		"wager":   bet.Wager,
		"balance": newBalance,
	}).Info("Bet created")

	return view, nil
}

// ChallengeBet takes over the challenge on a bet. The offer is escrowed from
// the challenger and any previous challenger is refunded in the same
// transaction.
func (s *betService) ChallengeBet(ctx context.Context, req ChallengeBetRequest) (*models.BetView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// The bet row is locked before any account row; concurrent challenges on
	// the same bet are validated one after the other
	bet, err := uow.BetRepository().GetByIDForUpdate(ctx, req.BetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("%w: %d", ErrBetNotFound, req.BetID)
	}

	challenger, err := uow.AccountRepository().GetByHandle(ctx, req.ChallengerHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenger: %w", err)
	}
	if challenger == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, req.ChallengerHandle)
	}

	if challenger.ID == bet.OwnerAccountID {
		return nil, ErrSelfChallengeForbidden
	}
	if !bet.CanBeChallenged() {
		return nil, fmt.Errorf("%w: bet %d is %s", ErrBetNotChallengeable, bet.ID, bet.Status)
	}

	minAllowed := bet.MinChallenge(s.minRaise)
	if req.Wager < minAllowed {
		return nil, &WagerTooLowError{Offered: req.Wager, MinAllowed: minAllowed}
	}

	var previousID *int64
	var previousAmount int64
	lockIDs := []int64{challenger.ID}
	if bet.IsChallenged() {
		id := *bet.ChallengerAccountID
		previousID = &id
		previousAmount = *bet.ChallengeAmount
		if id != challenger.ID {
			lockIDs = append(lockIDs, id)
		}
	}

	locked, err := uow.AccountRepository().LockByIDs(ctx, lockIDs...)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	challenger = locked[challenger.ID]

	// A challenger raising their own challenge gets the old escrow back first
	available := challenger.Balance + bet.EscrowedBy(challenger.ID)
	if available < req.Wager {
		return nil, &InsufficientFundsError{Available: available, Required: req.Wager}
	}

	if previousID != nil {
		previous := locked[*previousID]
		refunded, err := uow.AccountRepository().Credit(ctx, previous.ID, previousAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to refund previous challenger: %w", err)
		}

		history := &models.BalanceHistory{
			AccountID:       previous.ID,
			BalanceBefore:   previous.Balance,
			BalanceAfter:    refunded,
			ChangeAmount:    previousAmount,
			TransactionType: models.TransactionTypeChallengeRefund,
			TransactionMetadata: map[string]any{
				"bet_id":           bet.ID,
				"replaced_by":      challenger.ID,
				"challenge_amount": previousAmount,
			},
			RelatedBetID: &bet.ID,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record challenge refund: %w", err)
		}

		previous.Balance = refunded
	}

	balanceBefore := challenger.Balance
	newBalance, err := uow.AccountRepository().Debit(ctx, challenger.ID, req.Wager)
	if err != nil {
		return nil, fmt.Errorf("failed to escrow challenge: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       challenger.ID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    newBalance,
		ChangeAmount:    -req.Wager,
		TransactionType: models.TransactionTypeChallengeEscrow,
		TransactionMetadata: map[string]any{
			"bet_id":      bet.ID,
			"min_allowed": minAllowed,
		},
		RelatedBetID: &bet.ID,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record challenge escrow: %w", err)
	}

	challengerID := challenger.ID
	amount := req.Wager
	bet.Status = models.BetStatusChallenged
	bet.ChallengerAccountID = &challengerID
	bet.ChallengeAmount = &amount
	if err := uow.BetRepository().UpdateChallenge(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to update bet: %w", err)
	}

	event := events.BetChallengedEvent{
		BetID:               bet.ID,
		ChallengerAccountID: challengerID,
		ChallengeAmount:     amount,
	}
	if previousID != nil {
		event.ReplacedChallengerID = previousID
		event.RefundedChallengeAmount = previousAmount
	}
	uow.EventBus().Publish(event)

	view, err := uow.BetRepository().GetView(ctx, bet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenged bet: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("challenged bet %d not visible in its own transaction", bet.ID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"betId":      bet.ID,
		"challenger": challenger.Handle,
		"amount":     amount,
		"replaced":   previousID != nil,
	}).Info("Bet challenged")

	return view, nil
}
