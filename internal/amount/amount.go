package amount

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrOverflow occurs when an arithmetic result exceeds the 128-bit range.
	ErrOverflow = errors.New("amount overflow")

	// ErrNegative occurs when a subtraction would produce a negative amount.
	ErrNegative = errors.New("amount underflow")

	// ErrInvalid indicates the input string is not an unsigned 128-bit decimal.
	ErrInvalid = errors.New("invalid amount")
)

// max128 is 2^128 - 1, the largest representable amount.
var max128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

var two = big.NewInt(2)

// Amount is an unsigned 128-bit quantity of the ledger unit. The zero value
// is a valid zero amount. Amounts are immutable; arithmetic returns new values.
type Amount struct {
	v *big.Int
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{}
}

// FromUint64 converts an unsigned integer to an Amount.
func FromUint64(u uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(u)}
}

// Parse reads a base-10 unsigned integer string. Signs, spaces and values
// beyond 128 bits are rejected.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty string", ErrInvalid)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if v.Cmp(max128) > 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return Amount{v: v}, nil
}

// MustParse is Parse for test fixtures and constants; it panics on bad input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Max returns the largest representable amount, 2^128 - 1.
func Max() Amount {
	return Amount{v: new(big.Int).Set(max128)}
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Add returns a+b, failing with ErrOverflow beyond 128 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := new(big.Int).Add(a.big(), b.big())
	if sum.Cmp(max128) > 0 {
		return Amount{}, ErrOverflow
	}
	return Amount{v: sum}, nil
}

// Sub returns a-b. Callers compare first; a b greater than a is ErrNegative.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Cmp(b) < 0 {
		return Amount{}, ErrNegative
	}
	return Amount{v: new(big.Int).Sub(a.big(), b.big())}, nil
}

// Cmp returns -1, 0 or 1 comparing a against b.
func (a Amount) Cmp(b Amount) int {
	return a.big().Cmp(b.big())
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.big().Sign() == 0
}

// Even reports whether the amount is divisible by two.
func (a Amount) Even() bool {
	return a.big().Bit(0) == 0
}

// Half returns a/2 (integer division).
func (a Amount) Half() Amount {
	return Amount{v: new(big.Int).Div(a.big(), two)}
}

// String renders the amount as a base-10 integer.
func (a Amount) String() string {
	return a.big().String()
}

// MarshalJSON encodes the amount as a decimal string, never a JSON number,
// so 128-bit values survive clients that parse numbers as float64.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a decimal string or a bare integer literal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if strings.HasPrefix(s, `"`) || strings.HasSuffix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalid, data)
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
