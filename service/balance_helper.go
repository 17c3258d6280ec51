package service

import (
	"context"
	"fmt"

	"betboard/events"
	"betboard/models"
)

// RecordBalanceChange records a balance history entry and emits the matching event.
// Every debit and credit made by the services goes through here, inside the
// unit of work that changed the balance.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Flushed only once the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:       history.AccountID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
		BetID:           history.RelatedBetID,
	})

	return nil
}
