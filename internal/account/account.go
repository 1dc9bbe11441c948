package account

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress indicates the account identifier is not well formed.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a validated, canonical account identifier.
type Address string

// String returns the address in its canonical string form.
func (a Address) String() string {
	return string(a)
}

// Validator checks account identifiers supplied by callers and returns
// their canonical form.
type Validator interface {
	Validate(input string) (Address, error)
}

const (
	separator = "1"
	// charset matches the bech32 data alphabet used by the host chain.
	charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

	minLen = 8
	maxLen = 90
)

// PrefixValidator accepts bech32-style addresses carrying a fixed
// human-readable prefix, e.g. "sei1...". It checks shape, not checksums;
// checksum verification belongs to the host chain.
type PrefixValidator struct {
	prefix string
}

// NewPrefixValidator builds a validator for the given address prefix.
func NewPrefixValidator(prefix string) *PrefixValidator {
	return &PrefixValidator{prefix: prefix}
}

// Validate returns the canonical address or ErrInvalidAddress.
func (v *PrefixValidator) Validate(input string) (Address, error) {
	s := strings.TrimSpace(input)
	if len(s) < minLen || len(s) > maxLen {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, input)
	}
	if s != strings.ToLower(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, input)
	}
	if !strings.HasPrefix(s, v.prefix+separator) {
		return "", fmt.Errorf("%w: %q must start with %s%s", ErrInvalidAddress, input, v.prefix, separator)
	}
	data := s[len(v.prefix)+len(separator):]
	if data == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, input)
	}
	for _, r := range data {
		if !strings.ContainsRune(charset, r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, input)
		}
	}
	return Address(s), nil
}
