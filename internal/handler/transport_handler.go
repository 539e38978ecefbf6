package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/service"
)

// minRechargeAmount is the boundary floor for a single recharge.
var minRechargeAmount = decimal.NewFromFloat(5.00)

// TransportHandler handles transport card endpoints.
type TransportHandler struct {
	transportService service.TransportService
}

// NewTransportHandler creates a new transport handler.
func NewTransportHandler(transportService service.TransportService) *TransportHandler {
	return &TransportHandler{transportService: transportService}
}

// RechargeRequest represents a balance credit request.
type RechargeRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// ChargeRequest represents a balance debit request.
type ChargeRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description,omitempty"`
}

// BalanceResponse represents the current card balance.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// CardResponse represents the card after a mutation.
type CardResponse struct {
	Card *model.TransportCard `json:"card"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}
	return amount, nil
}

// GetBalance godoc
// @Summary Get the transport card balance
// @Description Lazily creates a zero-balance card for first-time users.
// @Tags transport
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BalanceResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transport/card/balance [get]
func (h *TransportHandler) GetBalance(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	balance, err := h.transportService.GetBalance(c.Request().Context(), userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, BalanceResponse{Balance: balance.StringFixed(2)})
}

// Recharge godoc
// @Summary Credit the transport card
// @Tags transport
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RechargeRequest true "Recharge amount (minimum 5.00)"
// @Success 200 {object} CardResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transport/card/recharge [post]
func (h *TransportHandler) Recharge(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req RechargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if amount.LessThan(minRechargeAmount) {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "minimum recharge amount is " + minRechargeAmount.StringFixed(2),
			Code:  "INVALID_AMOUNT",
		})
	}

	card, err := h.transportService.Recharge(c.Request().Context(), userID, amount)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CardResponse{Card: card})
}

// Charge godoc
// @Summary Debit the transport card
// @Tags transport
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChargeRequest true "Charge amount and optional description"
// @Success 200 {object} CardResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transport/card/charge [post]
func (h *TransportHandler) Charge(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	card, err := h.transportService.Charge(c.Request().Context(), userID, amount, req.Description)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CardResponse{Card: card})
}
