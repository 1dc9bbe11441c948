package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/split-ledger/split_ledger/internal/withdraw"
)

// RegisterWithdrawRoutes wires the withdrawal endpoint.
func RegisterWithdrawRoutes(r fiber.Router, h *withdraw.Handler, limit fiber.Handler) {
	r.Post("/withdrawals", limit, h.Create)
}
