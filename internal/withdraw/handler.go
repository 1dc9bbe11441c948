package withdraw

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/amount"
	"github.com/split-ledger/split_ledger/internal/ledger"
	"github.com/split-ledger/split_ledger/internal/payment"
)

// Handler exposes the withdrawal endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a withdrawal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type withdrawRequest struct {
	Account string         `json:"account"`
	Amount  amount.Amount  `json:"amount"`
	Funds   []payment.Coin `json:"funds"`
}

// Create debits the requesting account and returns the outbound-payment
// instruction handed to the settlement layer.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Withdraw(c.UserContext(), Input{
		Account: req.Account,
		Amount:  req.Amount,
		Funds:   req.Funds,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, payment.ErrUnexpectedFunds),
			errors.Is(err, ledger.ErrInsufficientFunds),
			errors.Is(err, account.ErrInvalidAddress):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"action":      res.Action,
		"instruction": res.Instruction,
		"new_balance": res.NewBalance,
	})
}
