package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/split-ledger/split_ledger/internal/query"
)

// RegisterQueryRoutes wires the read-only query endpoints.
func RegisterQueryRoutes(r fiber.Router, h *query.Handler) {
	r.Get("/owner", h.Owner)
	r.Get("/send-fee", h.SendFee)
	r.Get("/balances/:account", h.Balance)
}
