package account

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	v := NewPrefixValidator("sei")
	cases := []string{
		"sei1alphaqq",
		"sei1qqqqqqqqqqqqqqqqqqqq",
		"  sei1strayqq  ", // surrounding whitespace is trimmed
	}
	for _, in := range cases {
		addr, err := v.Validate(in)
		if err != nil {
			t.Errorf("Validate(%q): %v", in, err)
			continue
		}
		if addr.String() != strings.TrimSpace(in) {
			t.Errorf("Validate(%q) = %q", in, addr)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	v := NewPrefixValidator("sei")
	cases := []string{
		"",
		"sei1",              // too short
		"short",             // no prefix
		"cosmos1alphaqq",    // wrong prefix
		"SEI1ALPHAQQ",       // uppercase
		"sei1alphab",        // 'b' not in the data charset
		"sei1alph io",       // space in data
		"sei1" + strings.Repeat("q", 100), // too long
	}
	for _, in := range cases {
		if _, err := v.Validate(in); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidAddress", in, err)
		}
	}
}

func TestValidateOtherPrefix(t *testing.T) {
	v := NewPrefixValidator("cosmos")
	if _, err := v.Validate("cosmos1alphaqq"); err != nil {
		t.Fatalf("cosmos prefix rejected: %v", err)
	}
	if _, err := v.Validate("sei1alphaqq"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatal("sei address accepted by cosmos validator")
	}
}
