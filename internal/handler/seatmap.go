package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/trainbooking/internal/handoff"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/seatmap"
	"github.com/dharmasatrya/trainbooking/pkg/currency"
)

type SeatMapResponse struct {
	Schedule   models.Schedule       `json:"schedule"`
	SeatMap    seatmap.SeatMap       `json:"seatMap"`
	Cart       []models.SelectedSeat `json:"cart"`
	Total      int                   `json:"total"`
	TotalLabel string                `json:"totalLabel"`
	Notice     *models.Notice        `json:"notice,omitempty"`
}

type ToggleResponse struct {
	SeatMapResponse
	Action string `json:"action"`
}

type CheckoutCreated struct {
	ID         string `json:"id"`
	Total      int    `json:"total"`
	TotalLabel string `json:"totalLabel"`
}

func seatMapResponse(sel *seatmap.Selection) SeatMapResponse {
	total := sel.Total()
	return SeatMapResponse{
		Schedule:   sel.Schedule(),
		SeatMap:    sel.Map(),
		Cart:       sel.Seats(),
		Total:      total,
		TotalLabel: currency.FormatUAH(float64(total)),
	}
}

// OpenSeatMap loads the layout of the posted schedule and starts a new, empty
// cart for it. A newer call of the same session wins over an older one.
func (h *Handler) OpenSeatMap(c echo.Context) error {
	var schedule models.Schedule
	if err := c.Bind(&schedule); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request body: "+err.Error())
	}
	if schedule.ScheduleID <= 0 {
		return errorJSON(c, http.StatusBadRequest, codeValidation, "scheduleId is required")
	}

	s := currentSession(c)
	ctx, ticket := h.tracker.Begin(c.Request().Context(), "seatmap:"+s.ID)
	defer ticket.Done()

	structure, err := h.client(c).GetAvailableSeats(ctx, schedule.ScheduleID)
	if err != nil {
		if !ticket.Current() {
			return superseded(c)
		}
		return backendFailure(c, err, codeLayoutUnavail, msgLayoutUnavailable)
	}

	sel := seatmap.NewSelection(schedule, structure, h.loc)
	if err := ticket.Commit(func() { h.setSelection(s.ID, sel) }); err != nil {
		return superseded(c)
	}

	return c.JSON(http.StatusOK, seatMapResponse(sel))
}

func (h *Handler) SeatMap(c echo.Context) error {
	sel, ok := h.selection(currentSession(c).ID)
	if !ok {
		return errorJSON(c, http.StatusNotFound, codeNoSeatMap, msgNoSeatMap)
	}
	return c.JSON(http.StatusOK, seatMapResponse(sel))
}

// ToggleSeat adds or removes one seat. Hitting the seat limit is an advisory:
// the answer is 200 with the unchanged cart and a notice.
func (h *Handler) ToggleSeat(c echo.Context) error {
	seatID, err := strconv.Atoi(c.Param("seatId"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, codeValidation, "seatId must be a number")
	}
	sel, ok := h.selection(currentSession(c).ID)
	if !ok {
		return errorJSON(c, http.StatusNotFound, codeNoSeatMap, msgNoSeatMap)
	}

	result, _, err := sel.Toggle(seatID)
	switch {
	case errors.Is(err, seatmap.ErrSeatUnavailable):
		return errorJSON(c, http.StatusUnprocessableEntity, codeSeatUnavailable, msgSeatUnavailable)
	case errors.Is(err, seatmap.ErrSelectionLimit):
		resp := ToggleResponse{SeatMapResponse: seatMapResponse(sel), Action: "none"}
		resp.Notice = notice(models.NoticeSelectionLimit, msgSelectionLimit)
		return c.JSON(http.StatusOK, resp)
	case err != nil:
		return err
	}

	action := "added"
	if result == seatmap.SeatRemoved {
		action = "removed"
	}
	return c.JSON(http.StatusOK, ToggleResponse{SeatMapResponse: seatMapResponse(sel), Action: action})
}

// StartCheckout hands the cart over to checkout under a short-lived id.
func (h *Handler) StartCheckout(c echo.Context) error {
	s := currentSession(c)
	sel, ok := h.selection(s.ID)
	if !ok {
		return errorJSON(c, http.StatusNotFound, codeNoSeatMap, msgNoSeatMap)
	}

	checkout, err := sel.Checkout()
	if errors.Is(err, seatmap.ErrNoSeatsSelected) {
		return c.JSON(http.StatusUnprocessableEntity, struct {
			models.ErrorResponse
			Notice *models.Notice `json:"notice"`
		}{
			ErrorResponse: models.ErrorResponse{Error: models.NoticeNoSeatsSelected, Message: msgNoSeatsSelected, Code: http.StatusUnprocessableEntity},
			Notice:        notice(models.NoticeNoSeatsSelected, msgNoSeatsSelected),
		})
	}
	if err != nil {
		return err
	}

	id, err := h.handoffs.Put(c.Request().Context(), handoff.Payload{
		SessionID: s.ID,
		Checkout:  checkout,
		CreatedAt: h.now(),
	})
	if err != nil {
		return err
	}

	total := checkout.Total()
	return c.JSON(http.StatusCreated, CheckoutCreated{
		ID:         id,
		Total:      total,
		TotalLabel: currency.FormatUAH(float64(total)),
	})
}
