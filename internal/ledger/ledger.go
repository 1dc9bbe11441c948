package ledger

import (
	"context"
	"errors"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
)

var (
	// ErrNotInitialized occurs when the singleton configuration has not been
	// written yet.
	ErrNotInitialized = errors.New("ledger not initialized")

	// ErrAlreadyInitialized occurs on a second configuration write; the
	// configuration is immutable after initialization.
	ErrAlreadyInitialized = errors.New("ledger already initialized")

	// ErrUnknownAccount occurs when a debit targets an account with no ledger
	// entry. Debits never create entries.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrInsufficientFunds occurs when a debit exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceOverflow occurs when a credit would push a balance past the
	// 128-bit range. The prior balance is left unchanged.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Config is the singleton contract configuration: the fee-collection owner
// and the fixed fee deducted from every split transfer. It is written once
// at initialization and never updated.
type Config struct {
	Owner   account.Address
	SendFee amount.Amount
}

// Store is the balance ledger backing a single logical state. Reads outside
// a transaction see the last committed state; all mutations go through Begin.
type Store interface {
	// Config returns the singleton configuration or ErrNotInitialized.
	Config(ctx context.Context) (Config, error)
	// Balance returns the withdrawable balance, zero (not an error) when the
	// account has no entry.
	Balance(ctx context.Context, addr account.Address) (amount.Amount, error)
	// Begin opens a unit of work. Either Commit persists every mutation made
	// through the Tx, or Rollback (and any error path) discards them all.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single atomic mutation sequence against the ledger. Implementations
// guarantee that no partial state is observable: a Tx that is not committed
// leaves the store exactly as it was.
type Tx interface {
	// SetConfig writes the singleton configuration. Fails with
	// ErrAlreadyInitialized if it exists.
	SetConfig(ctx context.Context, cfg Config) error
	// Config reads the configuration, including a staged SetConfig.
	Config(ctx context.Context) (Config, error)
	// Lookup returns the balance and whether an entry exists. A missing entry
	// is (zero, false, nil), never an error.
	Lookup(ctx context.Context, addr account.Address) (amount.Amount, bool, error)
	// EnsureAccount creates a zero-balance entry when none exists. Only the
	// owner's entry is ever seeded this way; every other entry is created by
	// its first credit.
	EnsureAccount(ctx context.Context, addr account.Address) error
	// Credit adds amt to the account, creating the entry if absent, and
	// returns the new balance. Checked addition: ErrBalanceOverflow past
	// 2^128-1. Crediting zero is a no-op.
	Credit(ctx context.Context, addr account.Address, amt amount.Amount) (amount.Amount, error)
	// Debit subtracts amt from an existing entry and returns the new balance.
	// ErrUnknownAccount when no entry exists, ErrInsufficientFunds when amt
	// exceeds the balance. A non-owner entry reaching exactly zero is removed;
	// the owner's entry is always retained.
	Debit(ctx context.Context, addr account.Address, amt amount.Amount) (amount.Amount, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
