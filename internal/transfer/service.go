package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
	"github.com/split-ledger/split_ledger/internal/ledger"
	"github.com/split-ledger/split_ledger/internal/payment"
)

var (
	// ErrInsufficientForFee occurs when the attached amount does not strictly
	// exceed the configured fee. This covers the zero and fee-only cases.
	ErrInsufficientForFee = errors.New("funds <= fee")

	// ErrUnevenSplit occurs when the amount left after the fee cannot be
	// divided evenly between the two recipients.
	ErrUnevenSplit = errors.New("uneven split")

	// ErrOwnerBalanceOverflow occurs when accruing the fee would overflow the
	// owner's balance.
	ErrOwnerBalanceOverflow = errors.New("owner balance overflow")
)

// Service validates incoming payments and applies the fee-and-split
// mutations to the ledger.
type Service struct {
	store     ledger.Store
	validator account.Validator
	denom     string
}

// NewService builds a transfer service.
func NewService(store ledger.Store, validator account.Validator, denom string) *Service {
	return &Service{store: store, validator: validator, denom: denom}
}

// Input captures a split-transfer request: two recipient identifiers plus
// the attached payment list.
type Input struct {
	RecipientA string
	RecipientB string
	Funds      []payment.Coin
}

// Result describes a completed split. The two credited amounts are always
// equal; they are reported per recipient role for interface stability.
type Result struct {
	Action     string          `json:"action"`
	RecipientA account.Address `json:"recipient_a"`
	RecipientB account.Address `json:"recipient_b"`
	HalfA      amount.Amount   `json:"half_a"`
	HalfB      amount.Amount   `json:"half_b"`
	Fee        amount.Amount   `json:"fee"`
}

// Transfer splits the attached payment between the two recipients after
// deducting the fee, which accrues to the owner's ledger entry. Validation
// failures and overflows abort the call with no mutation committed.
func (s *Service) Transfer(ctx context.Context, in Input) (Result, error) {
	funds, err := payment.SingleCoin(in.Funds, s.denom)
	if err != nil {
		return Result{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	cfg, err := tx.Config(ctx)
	if err != nil {
		return Result{}, err
	}

	if funds.Cmp(cfg.SendFee) <= 0 {
		return Result{}, fmt.Errorf("%w: sent %s, fee is %s", ErrInsufficientForFee, funds, cfg.SendFee)
	}
	// Non-negative after the comparison above.
	toSend, err := funds.Sub(cfg.SendFee)
	if err != nil {
		return Result{}, err
	}
	if !toSend.Even() {
		return Result{}, fmt.Errorf("%w: please send an even number of %s plus a fee of %s", ErrUnevenSplit, s.denom, cfg.SendFee)
	}
	// Non-zero: toSend > 0 and even, so half >= 1.
	half := toSend.Half()

	// The same recipient named twice receives two independent credits.
	recipients := make([]account.Address, 0, 2)
	for _, raw := range []string{in.RecipientA, in.RecipientB} {
		addr, err := s.validator.Validate(raw)
		if err != nil {
			return Result{}, err
		}
		recipients = append(recipients, addr)
	}
	for _, addr := range recipients {
		if _, err := tx.Credit(ctx, addr, half); err != nil {
			return Result{}, err
		}
	}

	// Fee accrues to the owner's entry, seeded at initialization; the owner
	// withdraws it through the normal withdrawal path.
	if !cfg.SendFee.IsZero() {
		if _, err := tx.Credit(ctx, cfg.Owner, cfg.SendFee); err != nil {
			if errors.Is(err, ledger.ErrBalanceOverflow) {
				return Result{}, ErrOwnerBalanceOverflow
			}
			return Result{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}

	return Result{
		Action:     "transfer",
		RecipientA: recipients[0],
		RecipientB: recipients[1],
		HalfA:      half,
		HalfB:      half,
		Fee:        cfg.SendFee,
	}, nil
}
