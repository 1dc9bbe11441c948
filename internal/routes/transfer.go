package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/split-ledger/split_ledger/internal/transfer"
)

// RegisterTransferRoutes wires the split-transfer endpoint.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler, limit fiber.Handler) {
	r.Post("/transfers", limit, h.Create)
}
