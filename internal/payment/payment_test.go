package payment

import (
	"errors"
	"testing"

	"github.com/split-ledger/split_ledger/internal/amount"
)

func TestSingleCoin(t *testing.T) {
	got, err := SingleCoin([]Coin{{Denom: "usei", Amount: amount.FromUint64(7)}}, "usei")
	if err != nil {
		t.Fatalf("single usei coin rejected: %v", err)
	}
	if got.Cmp(amount.FromUint64(7)) != 0 {
		t.Fatalf("amount = %s", got)
	}
}

func TestSingleCoinMissing(t *testing.T) {
	if _, err := SingleCoin(nil, "usei"); !errors.Is(err, ErrMissingFunds) {
		t.Fatalf("expected missing funds, got %v", err)
	}
}

func TestSingleCoinTooMany(t *testing.T) {
	funds := []Coin{
		{Denom: "usei", Amount: amount.FromUint64(1)},
		{Denom: "usei", Amount: amount.FromUint64(1)},
	}
	if _, err := SingleCoin(funds, "usei"); !errors.Is(err, ErrTooManyDenominations) {
		t.Fatalf("expected too many denominations, got %v", err)
	}
}

func TestSingleCoinWrongDenom(t *testing.T) {
	funds := []Coin{{Denom: "uatom", Amount: amount.FromUint64(1)}}
	if _, err := SingleCoin(funds, "usei"); !errors.Is(err, ErrInvalidDenomination) {
		t.Fatalf("expected invalid denomination, got %v", err)
	}
}

func TestNone(t *testing.T) {
	if err := None(nil); err != nil {
		t.Fatalf("empty funds rejected: %v", err)
	}
	if err := None([]Coin{{Denom: "usei", Amount: amount.FromUint64(1)}}); !errors.Is(err, ErrUnexpectedFunds) {
		t.Fatalf("expected unexpected funds, got %v", err)
	}
}
