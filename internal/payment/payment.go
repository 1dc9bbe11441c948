package payment

import (
	"errors"
	"fmt"

	"github.com/split-ledger/split_ledger/internal/amount"
)

var (
	// ErrMissingFunds occurs when a transfer arrives with no attached coins.
	ErrMissingFunds = errors.New("missing funds")

	// ErrTooManyDenominations occurs when more than one coin entry is attached,
	// whether or not the entries share a denomination.
	ErrTooManyDenominations = errors.New("too many denominations")

	// ErrInvalidDenomination occurs when the attached coin is not the ledger unit.
	ErrInvalidDenomination = errors.New("invalid denomination")

	// ErrUnexpectedFunds occurs when coins are attached to an operation that
	// must not accept any.
	ErrUnexpectedFunds = errors.New("unexpected funds")
)

// Coin is an attached payment entry: an amount of a named denomination.
// Coins are ephemeral request data and are never persisted.
type Coin struct {
	Denom  string        `json:"denom"`
	Amount amount.Amount `json:"amount"`
}

// SingleCoin validates that funds holds exactly one coin of the given
// denomination and returns its amount. The checks short-circuit in the
// order empty, multiple, wrong denomination.
func SingleCoin(funds []Coin, denom string) (amount.Amount, error) {
	if len(funds) == 0 {
		return amount.Amount{}, fmt.Errorf("%w: please send %s", ErrMissingFunds, denom)
	}
	if len(funds) != 1 {
		return amount.Amount{}, fmt.Errorf("%w: please only send %s", ErrTooManyDenominations, denom)
	}
	if funds[0].Denom != denom {
		return amount.Amount{}, fmt.Errorf("%w %s: please send %s", ErrInvalidDenomination, funds[0].Denom, denom)
	}
	return funds[0].Amount, nil
}

// None validates that no coins are attached.
func None(funds []Coin) error {
	if len(funds) != 0 {
		return fmt.Errorf("%w: no funds required", ErrUnexpectedFunds)
	}
	return nil
}
