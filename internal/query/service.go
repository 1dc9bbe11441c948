package query

import (
	"context"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
	"github.com/split-ledger/split_ledger/internal/ledger"
)

// Service exposes read-only projections over the ledger store.
type Service struct {
	store     ledger.Store
	validator account.Validator
}

// NewService builds a query service.
func NewService(store ledger.Store, validator account.Validator) *Service {
	return &Service{store: store, validator: validator}
}

// Owner returns the configured fee-collection account.
func (s *Service) Owner(ctx context.Context) (account.Address, error) {
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return "", err
	}
	return cfg.Owner, nil
}

// SendFee returns the configured per-transfer fee.
func (s *Service) SendFee(ctx context.Context) (amount.Amount, error) {
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return amount.Amount{}, err
	}
	return cfg.SendFee, nil
}

// Balance validates the account identifier and returns its withdrawable
// balance, zero for accounts with no ledger entry.
func (s *Service) Balance(ctx context.Context, rawAccount string) (amount.Amount, error) {
	addr, err := s.validator.Validate(rawAccount)
	if err != nil {
		return amount.Amount{}, err
	}
	return s.store.Balance(ctx, addr)
}
