package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/split-ledger/split_ledger/internal/payment"
)

// InitInput carries everything the one-time initialization needs: the owner
// identity, the fixed fee, and any coins the initializer attached.
type InitInput struct {
	Config Config
	Funds  []payment.Coin
	// AllowFunds permits attached coins at initialization. The default
	// (false) rejects them with payment.ErrUnexpectedFunds.
	AllowFunds bool
}

// Initialize writes the singleton configuration and seeds the owner's
// zero-balance entry, so later fee credits and owner debits never hit a
// missing-entry branch. Fails with ErrAlreadyInitialized when the store
// already carries a configuration.
func Initialize(ctx context.Context, s Store, in InitInput) error {
	if !in.AllowFunds {
		if err := payment.None(in.Funds); err != nil {
			return fmt.Errorf("the creator shouldn't send money to this ledger: %w", err)
		}
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := tx.SetConfig(ctx, in.Config); err != nil {
		return err
	}
	if err := tx.EnsureAccount(ctx, in.Config.Owner); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// EnsureInitialized is Initialize for service boot: a store that already
// holds a configuration is left untouched.
func EnsureInitialized(ctx context.Context, s Store, in InitInput) error {
	err := Initialize(ctx, s, in)
	if errors.Is(err, ErrAlreadyInitialized) {
		return nil
	}
	return err
}
