package query

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/split-ledger/split_ledger/internal/account"
)

// Handler exposes the read-only query endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a query handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Owner returns the configured fee-collection account.
func (h *Handler) Owner(c *fiber.Ctx) error {
	owner, err := h.service.Owner(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner": owner})
}

// SendFee returns the configured per-transfer fee.
func (h *Handler) SendFee(c *fiber.Ctx) error {
	fee, err := h.service.SendFee(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"fee": fee})
}

// Balance returns the withdrawable balance for an account, zero when the
// account has no ledger entry.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.Balance(c.UserContext(), c.Params("account"))
	if err != nil {
		if errors.Is(err, account.ErrInvalidAddress) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"balance": balance})
}
