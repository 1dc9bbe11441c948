package withdraw

import (
	"context"
	"errors"
	"fmt"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
	"github.com/split-ledger/split_ledger/internal/ledger"
	"github.com/split-ledger/split_ledger/internal/payment"
	"github.com/split-ledger/split_ledger/internal/settlement"
)

// ErrUnauthorized occurs when the requesting account has no ledger entry at
// all, as opposed to an existing entry with too little balance.
var ErrUnauthorized = errors.New("unauthorized")

// Service debits withdrawable balances and emits outbound-payment
// instructions to the settlement layer.
type Service struct {
	store     ledger.Store
	validator account.Validator
	settler   settlement.Settler
	denom     string
}

// NewService builds a withdrawal service.
func NewService(store ledger.Store, validator account.Validator, settler settlement.Settler, denom string) *Service {
	return &Service{store: store, validator: validator, settler: settler, denom: denom}
}

// Input captures a withdrawal request. Funds must be empty: a withdrawal
// only moves ledger credit outward.
type Input struct {
	Account string
	Amount  amount.Amount
	Funds   []payment.Coin
}

// Result describes a completed withdrawal and the instruction handed to the
// settlement layer.
type Result struct {
	Action      string                 `json:"action"`
	Instruction settlement.Instruction `json:"instruction"`
	NewBalance  amount.Amount          `json:"new_balance"`
}

// Withdraw debits the requesting account and emits the outbound payment.
// The account must already hold a ledger entry; a non-owner entry debited to
// exactly zero is removed.
func (s *Service) Withdraw(ctx context.Context, in Input) (Result, error) {
	if err := payment.None(in.Funds); err != nil {
		return Result{}, err
	}
	addr, err := s.validator.Validate(in.Account)
	if err != nil {
		return Result{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	balance, ok, err := tx.Lookup(ctx, addr)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: account %s was never credited", ErrUnauthorized, addr)
	}
	if in.Amount.Cmp(balance) > 0 {
		return Result{}, fmt.Errorf("%w: requested %s, have %s", ledger.ErrInsufficientFunds, in.Amount, balance)
	}

	newBalance, err := tx.Debit(ctx, addr, in.Amount)
	if err != nil {
		return Result{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}

	instr := settlement.Instruction{ToAddress: addr, Amount: in.Amount, Denom: s.denom}
	if s.settler != nil {
		// The debit is committed; instruction delivery is the settlement
		// layer's concern, not a reason to fail the withdrawal.
		_ = s.settler.Send(ctx, instr)
	}

	return Result{Action: "withdraw", Instruction: instr, NewBalance: newBalance}, nil
}
