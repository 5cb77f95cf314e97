package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/handoff"
	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/metrics"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/pkg/currency"
)

type CheckoutView struct {
	ID         string                `json:"id"`
	Seats      []models.SelectedSeat `json:"seats"`
	Trip       models.Trip           `json:"trip"`
	Total      int                   `json:"total"`
	TotalLabel string                `json:"totalLabel"`
}

type PurchaseResponse struct {
	Notice  models.Notice `json:"notice"`
	Tickets int           `json:"tickets"`
	Total   int           `json:"total"`
}

func (h *Handler) loadCheckout(c echo.Context) (string, handoff.Payload, error) {
	id := c.Param("id")
	p, err := h.handoffs.Get(c.Request().Context(), currentSession(c).ID, id)
	return id, p, err
}

func (h *Handler) Checkout(c echo.Context) error {
	id, p, err := h.loadCheckout(c)
	if errors.Is(err, handoff.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, codeCheckoutNotFound, msgCheckoutNotFound)
	}
	if err != nil {
		return err
	}

	total := p.Checkout.Total()
	return c.JSON(http.StatusOK, CheckoutView{
		ID:         id,
		Seats:      p.Checkout.Seats,
		Trip:       p.Checkout.Trip,
		Total:      total,
		TotalLabel: currency.FormatUAH(float64(total)),
	})
}

// Purchase buys the seats of a checkout. On a 401 from the API, or without a
// login at all, the cart stays intact so the user can log in and retry.
func (h *Handler) Purchase(c echo.Context) error {
	id, p, err := h.loadCheckout(c)
	if errors.Is(err, handoff.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, codeCheckoutNotFound, msgCheckoutNotFound)
	}
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	s := currentSession(c)
	if !s.LoggedIn {
		metrics.Purchases.WithLabelValues("auth_required").Inc()
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   models.NoticeAuthRequired,
			Message: msgAuthRequired,
			Code:    http.StatusUnauthorized,
		})
	}

	err = h.client(c).Purchase(ctx, models.PurchaseRequest{
		Tickets: p.Checkout.Tickets(),
		Trip:    p.Checkout.Trip,
	})
	if errors.Is(err, backend.ErrUnauthorized) {
		metrics.Purchases.WithLabelValues("auth_required").Inc()
		return backendFailure(c, err, models.NoticeAuthRequired, msgAuthRequired)
	}
	if err != nil {
		metrics.Purchases.WithLabelValues("failed").Inc()
		log.FromContext(ctx).WithError(err).Warn("purchase failed")
		message := msgPurchaseFailed
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			message = "Failed to purchase tickets: " + apiErr.Message
		}
		return errorJSON(c, http.StatusBadGateway, codePurchaseFailed, message)
	}

	metrics.Purchases.WithLabelValues("confirmed").Inc()
	if err := h.handoffs.Delete(ctx, id); err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not delete checkout")
	}
	if sel, ok := h.selection(s.ID); ok {
		sel.Clear()
	}

	return c.JSON(http.StatusOK, PurchaseResponse{
		Notice:  *notice(models.NoticePurchaseConfirmed, msgPurchaseConfirmed),
		Tickets: len(p.Checkout.Seats),
		Total:   p.Checkout.Total(),
	})
}
