package transfer

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/ledger"
	"github.com/split-ledger/split_ledger/internal/payment"
)

// Handler exposes the split-transfer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	RecipientA string         `json:"recipient_a"`
	RecipientB string         `json:"recipient_b"`
	Funds      []payment.Coin `json:"funds"`
}

// Create processes an incoming payment, splitting it between the two
// recipients after the fee.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Transfer(c.UserContext(), Input{
		RecipientA: req.RecipientA,
		RecipientB: req.RecipientB,
		Funds:      req.Funds,
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrMissingFunds),
			errors.Is(err, payment.ErrTooManyDenominations),
			errors.Is(err, payment.ErrInvalidDenomination),
			errors.Is(err, ErrInsufficientForFee),
			errors.Is(err, ErrUnevenSplit),
			errors.Is(err, account.ErrInvalidAddress):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrBalanceOverflow),
			errors.Is(err, ErrOwnerBalanceOverflow):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"action":      res.Action,
		"recipient_a": res.HalfA,
		"recipient_b": res.HalfB,
		"fee":         res.Fee,
	})
}
