package service

import (
	"context"
	"fmt"
	"strings"

	"betboard/events"
	"betboard/models"

	log "github.com/sirupsen/logrus"
)

type engagementService struct {
	uowFactory UnitOfWorkFactory
}

// NewEngagementService creates a new engagement service
func NewEngagementService(uowFactory UnitOfWorkFactory) EngagementService {
	return &engagementService{
		uowFactory: uowFactory,
	}
}

// SetLike turns the actor's like on the bet on or off
func (s *engagementService) SetLike(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error) {
	return s.set(ctx, models.EngagementLike, actorHandle, betID, on)
}

// SetBookmark turns the actor's bookmark on the bet on or off
func (s *engagementService) SetBookmark(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error) {
	return s.set(ctx, models.EngagementBookmark, actorHandle, betID, on)
}

// set is idempotent: repeating a call leaves the relation and the count as they are
func (s *engagementService) set(ctx context.Context, kind models.EngagementKind, actorHandle string, betID int64, on bool) (*models.EngagementResult, error) {
	actorHandle = strings.TrimSpace(actorHandle)
	if actorHandle == "" {
		return nil, invalidInput("actor handle is required")
	}
	if betID <= 0 {
		return nil, invalidInput("bet id must be positive, got %d", betID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	actor, err := uow.AccountRepository().GetByHandle(ctx, actorHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, actorHandle)
	}

	bet, err := uow.BetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("%w: %d", ErrBetNotFound, betID)
	}

	var changed bool
	if on {
		changed, err = uow.EngagementRepository().Add(ctx, kind, actor.ID, betID)
	} else {
		changed, err = uow.EngagementRepository().Remove(ctx, kind, actor.ID, betID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", kind, err)
	}

	count, err := uow.EngagementRepository().Count(ctx, kind, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to count %ss: %w", kind, err)
	}

	if changed {
		uow.EventBus().Publish(events.EngagementChangedEvent{
			Kind:      kind,
			AccountID: actor.ID,
			BetID:     betID,
			Active:    on,
			Count:     count,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"kind":    kind,
		"actor":   actor.Handle,
		"betId":   betID,
		"active":  on,
		"changed": changed,
		"count":   count,
	}).Debug("Engagement set")

	return &models.EngagementResult{
		Kind:    kind,
		BetID:   betID,
		Active:  on,
		Changed: changed,
		Count:   count,
	}, nil
}
