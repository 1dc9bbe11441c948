package settlement

import (
	"context"
	"log/slog"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
)

// Instruction is a declarative request to the hosting settlement layer to
// move value to an external address. The ledger only emits instructions; it
// never executes them.
type Instruction struct {
	ToAddress account.Address `json:"to_address"`
	Amount    amount.Amount   `json:"amount"`
	Denom     string          `json:"denom"`
}

// Settler consumes outbound-payment instructions.
type Settler interface {
	Send(ctx context.Context, instr Instruction) error
}

// LoggerSettler is a stub implementation that writes instructions to the
// structured logger.
type LoggerSettler struct {
	logger *slog.Logger
}

// NewLoggerSettler constructs a logging settler stub.
func NewLoggerSettler(logger *slog.Logger) *LoggerSettler {
	return &LoggerSettler{logger: logger}
}

// Send writes the instruction to the structured logger.
func (s *LoggerSettler) Send(_ context.Context, instr Instruction) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("outbound payment",
		"to_address", instr.ToAddress.String(),
		"amount", instr.Amount.String(),
		"denom", instr.Denom)
	return nil
}
