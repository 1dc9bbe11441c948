package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
	"github.com/split-ledger/split_ledger/internal/payment"
)

const (
	ownerAddr = account.Address("sei1feecapqq")
	alphaAddr = account.Address("sei1alphaqq")
)

func newInitializedStore(t *testing.T) Store {
	t.Helper()
	s := NewInMemory()
	err := Initialize(context.Background(), s, InitInput{
		Config: Config{Owner: ownerAddr, SendFee: amount.FromUint64(1)},
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func TestInitializeSeedsOwnerEntry(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	cfg, err := s.Config(ctx)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Owner != ownerAddr || cfg.SendFee.Cmp(amount.FromUint64(1)) != 0 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx)
	bal, ok, err := tx.Lookup(ctx, ownerAddr)
	if err != nil {
		t.Fatalf("lookup owner: %v", err)
	}
	if !ok {
		t.Fatal("owner entry missing after init")
	}
	if !bal.IsZero() {
		t.Fatalf("owner balance = %s, want 0", bal)
	}
}

func TestInitializeRejectsAttachedFunds(t *testing.T) {
	s := NewInMemory()
	err := Initialize(context.Background(), s, InitInput{
		Config: Config{Owner: ownerAddr, SendFee: amount.FromUint64(1)},
		Funds:  []payment.Coin{{Denom: "usei", Amount: amount.FromUint64(1000)}},
	})
	if !errors.Is(err, payment.ErrUnexpectedFunds) {
		t.Fatalf("expected unexpected funds, got %v", err)
	}
	if _, err := s.Config(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatal("config written despite rejected init")
	}
}

func TestInitializeAllowsFundsWhenPermitted(t *testing.T) {
	s := NewInMemory()
	err := Initialize(context.Background(), s, InitInput{
		Config:     Config{Owner: ownerAddr, SendFee: amount.FromUint64(1)},
		Funds:      []payment.Coin{{Denom: "usei", Amount: amount.FromUint64(1000)}},
		AllowFunds: true,
	})
	if err != nil {
		t.Fatalf("initialize with funds permitted: %v", err)
	}
}

func TestInitializeOnlyOnce(t *testing.T) {
	s := newInitializedStore(t)
	err := Initialize(context.Background(), s, InitInput{
		Config: Config{Owner: alphaAddr, SendFee: amount.FromUint64(9)},
	})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected already initialized, got %v", err)
	}

	// EnsureInitialized treats an existing configuration as success and
	// leaves it untouched.
	if err := EnsureInitialized(context.Background(), s, InitInput{
		Config: Config{Owner: alphaAddr, SendFee: amount.FromUint64(9)},
	}); err != nil {
		t.Fatalf("ensure initialized: %v", err)
	}
	cfg, _ := s.Config(context.Background())
	if cfg.Owner != ownerAddr {
		t.Fatalf("config overwritten: %+v", cfg)
	}
}

func TestCreditAndDebit(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	tx, _ := s.Begin(ctx)
	if _, err := tx.Credit(ctx, alphaAddr, amount.FromUint64(5)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	bal, err := s.Balance(ctx, alphaAddr)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Cmp(amount.FromUint64(5)) != 0 {
		t.Fatalf("balance = %s, want 5", bal)
	}

	tx, _ = s.Begin(ctx)
	next, err := tx.Debit(ctx, alphaAddr, amount.FromUint64(2))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if next.Cmp(amount.FromUint64(3)) != 0 {
		t.Fatalf("debit result = %s, want 3", next)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit debit: %v", err)
	}
}

func TestDebitUnknownAccount(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx)
	if _, err := tx.Debit(ctx, alphaAddr, amount.FromUint64(1)); !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected unknown account, got %v", err)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()
	SeedBalance(s, alphaAddr, amount.FromUint64(3))

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx)
	if _, err := tx.Debit(ctx, alphaAddr, amount.FromUint64(4)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestDebitToZeroRemovesNonOwnerEntry(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()
	SeedBalance(s, alphaAddr, amount.FromUint64(3))

	tx, _ := s.Begin(ctx)
	if _, err := tx.Debit(ctx, alphaAddr, amount.FromUint64(3)); err != nil {
		t.Fatalf("debit to zero: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx, _ = s.Begin(ctx)
	defer tx.Rollback(ctx)
	_, ok, err := tx.Lookup(ctx, alphaAddr)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ok {
		t.Fatal("zero-balance entry survived for non-owner account")
	}
}

func TestDebitToZeroRetainsOwnerEntry(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()
	SeedBalance(s, ownerAddr, amount.FromUint64(2))

	tx, _ := s.Begin(ctx)
	if _, err := tx.Debit(ctx, ownerAddr, amount.FromUint64(2)); err != nil {
		t.Fatalf("debit owner: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx, _ = s.Begin(ctx)
	defer tx.Rollback(ctx)
	bal, ok, err := tx.Lookup(ctx, ownerAddr)
	if err != nil {
		t.Fatalf("lookup owner: %v", err)
	}
	if !ok {
		t.Fatal("owner entry removed at zero balance")
	}
	if !bal.IsZero() {
		t.Fatalf("owner balance = %s, want 0", bal)
	}
}

func TestCreditOverflowLeavesBalanceUnchanged(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()
	SeedBalance(s, alphaAddr, amount.Max())

	tx, _ := s.Begin(ctx)
	if _, err := tx.Credit(ctx, alphaAddr, amount.FromUint64(1)); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected balance overflow, got %v", err)
	}
	tx.Rollback(ctx)

	bal, _ := s.Balance(ctx, alphaAddr)
	if bal.Cmp(amount.Max()) != 0 {
		t.Fatalf("balance changed after overflow: %s", bal)
	}
}

func TestRollbackDiscardsMutations(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	tx, _ := s.Begin(ctx)
	if _, err := tx.Credit(ctx, alphaAddr, amount.FromUint64(10)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	bal, _ := s.Balance(ctx, alphaAddr)
	if !bal.IsZero() {
		t.Fatalf("rollback leaked balance %s", bal)
	}
}

func TestTxSeesOwnStagedWrites(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx)
	if _, err := tx.Credit(ctx, alphaAddr, amount.FromUint64(4)); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	next, err := tx.Credit(ctx, alphaAddr, amount.FromUint64(4))
	if err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if next.Cmp(amount.FromUint64(8)) != 0 {
		t.Fatalf("staged balance = %s, want 8", next)
	}

	// Committed state is untouched until Commit.
	bal, _ := s.Balance(ctx, alphaAddr)
	if !bal.IsZero() {
		t.Fatalf("uncommitted credit visible: %s", bal)
	}
}

func TestConcurrentCreditsAllApply(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	// Transactions serialize against each other, so no committed credit can
	// be overwritten by a transaction that staged against an older snapshot.
	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.Begin(ctx)
			if err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			defer tx.Rollback(ctx)
			if _, err := tx.Credit(ctx, alphaAddr, amount.FromUint64(3)); err != nil {
				t.Errorf("credit: %v", err)
				return
			}
			if err := tx.Commit(ctx); err != nil {
				t.Errorf("commit: %v", err)
			}
		}()
	}
	wg.Wait()

	bal, err := s.Balance(ctx, alphaAddr)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if want := amount.FromUint64(3 * workers); bal.Cmp(want) != 0 {
		t.Fatalf("balance after %d committed credits of 3 = %s, want %s", workers, bal, want)
	}
}

func TestCreditZeroDoesNotCreateEntry(t *testing.T) {
	s := newInitializedStore(t)
	ctx := context.Background()

	tx, _ := s.Begin(ctx)
	if _, err := tx.Credit(ctx, alphaAddr, amount.Zero()); err != nil {
		t.Fatalf("zero credit: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx, _ = s.Begin(ctx)
	defer tx.Rollback(ctx)
	_, ok, _ := tx.Lookup(ctx, alphaAddr)
	if ok {
		t.Fatal("zero credit created an entry")
	}
}
