package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
)

type memoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	cfg      *Config
	balances map[account.Address]amount.Amount
}

// NewInMemory creates a concurrency-safe in-memory store used in dev mode
// and unit tests.
func NewInMemory() Store {
	return &memoryStore{balances: make(map[account.Address]amount.Amount)}
}

func (s *memoryStore) Config(_ context.Context) (Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return Config{}, ErrNotInitialized
	}
	return *s.cfg, nil
}

func (s *memoryStore) Balance(_ context.Context, addr account.Address) (amount.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[addr], nil
}

func (s *memoryStore) Begin(_ context.Context) (Tx, error) {
	// Transactions are serialized: a Tx holds txMu until Commit or Rollback,
	// so the snapshot it stages against can never go stale under a
	// concurrent commit. Committed reads through Config/Balance stay
	// unblocked; they only take the read lock.
	s.txMu.Lock()
	return &memoryTx{
		store:   s,
		stage:   make(map[account.Address]amount.Amount),
		deleted: make(map[account.Address]bool),
	}, nil
}

// memoryTx stages mutations in an overlay and folds them into the store on
// Commit, so an abandoned transaction leaves no trace.
type memoryTx struct {
	store   *memoryStore
	cfg     *Config
	stage   map[account.Address]amount.Amount
	deleted map[account.Address]bool
	done    bool
}

var errTxDone = errors.New("transaction already finished")

func (t *memoryTx) SetConfig(ctx context.Context, cfg Config) error {
	if t.done {
		return errTxDone
	}
	if _, err := t.Config(ctx); err == nil {
		return ErrAlreadyInitialized
	}
	t.cfg = &cfg
	return nil
}

func (t *memoryTx) Config(_ context.Context) (Config, error) {
	if t.done {
		return Config{}, errTxDone
	}
	if t.cfg != nil {
		return *t.cfg, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if t.store.cfg == nil {
		return Config{}, ErrNotInitialized
	}
	return *t.store.cfg, nil
}

func (t *memoryTx) Lookup(_ context.Context, addr account.Address) (amount.Amount, bool, error) {
	if t.done {
		return amount.Amount{}, false, errTxDone
	}
	if t.deleted[addr] {
		return amount.Zero(), false, nil
	}
	if bal, ok := t.stage[addr]; ok {
		return bal, true, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	bal, ok := t.store.balances[addr]
	return bal, ok, nil
}

func (t *memoryTx) EnsureAccount(ctx context.Context, addr account.Address) error {
	_, ok, err := t.Lookup(ctx, addr)
	if err != nil {
		return err
	}
	if !ok {
		t.set(addr, amount.Zero())
	}
	return nil
}

func (t *memoryTx) Credit(ctx context.Context, addr account.Address, amt amount.Amount) (amount.Amount, error) {
	cur, ok, err := t.Lookup(ctx, addr)
	if err != nil {
		return amount.Amount{}, err
	}
	if amt.IsZero() {
		if !ok {
			return amount.Zero(), nil
		}
		return cur, nil
	}
	next, err := cur.Add(amt)
	if err != nil {
		return amount.Amount{}, ErrBalanceOverflow
	}
	t.set(addr, next)
	return next, nil
}

func (t *memoryTx) Debit(ctx context.Context, addr account.Address, amt amount.Amount) (amount.Amount, error) {
	cur, ok, err := t.Lookup(ctx, addr)
	if err != nil {
		return amount.Amount{}, err
	}
	if !ok {
		return amount.Amount{}, ErrUnknownAccount
	}
	if amt.Cmp(cur) > 0 {
		return amount.Amount{}, ErrInsufficientFunds
	}
	// Safe after the comparison above.
	next, err := cur.Sub(amt)
	if err != nil {
		return amount.Amount{}, err
	}

	cfg, err := t.Config(ctx)
	if err != nil {
		return amount.Amount{}, err
	}
	if next.IsZero() && addr != cfg.Owner {
		delete(t.stage, addr)
		t.deleted[addr] = true
		return next, nil
	}
	t.set(addr, next)
	return next, nil
}

func (t *memoryTx) set(addr account.Address, bal amount.Amount) {
	delete(t.deleted, addr)
	t.stage[addr] = bal
}

func (t *memoryTx) Commit(_ context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.cfg != nil {
		cfg := *t.cfg
		t.store.cfg = &cfg
	}
	for addr := range t.deleted {
		delete(t.store.balances, addr)
	}
	for addr, bal := range t.stage {
		t.store.balances[addr] = bal
	}
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}
