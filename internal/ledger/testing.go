package ledger

import (
	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
)

// SeedBalance is a test helper that writes a balance directly when the store
// is the in-memory implementation.
func SeedBalance(s Store, addr account.Address, bal amount.Amount) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[addr] = bal
	}
}
