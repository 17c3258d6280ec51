package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"betboard/events"
	"betboard/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type accountService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
	hashCost        int
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, startingBalance int64) AccountService {
	return &accountService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
		hashCost:        bcrypt.DefaultCost,
	}
}

// CreateAccount registers an account and credits it the starting balance
func (s *accountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Handle
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account := &models.Account{
		Handle:       req.Handle,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Balance:      s.startingBalance,
	}
	if err := uow.AccountRepository().Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if s.startingBalance > 0 {
		history := &models.BalanceHistory{
			AccountID:       account.ID,
			BalanceBefore:   0,
			BalanceAfter:    s.startingBalance,
			ChangeAmount:    s.startingBalance,
			TransactionType: models.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"handle": account.Handle,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record starting balance: %w", err)
		}
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		AccountID:      account.ID,
		Handle:         account.Handle,
		InitialBalance: account.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountId": account.ID,
		"handle":    account.Handle,
		"balance":   account.Balance,
	}).Info("Account created")

	return account, nil
}

// VerifyCredentials checks an email and password pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *accountService) VerifyCredentials(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalidInput("email and password are required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}
