package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/filter"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/ticketdoc"
)

type ReturnResponse struct {
	Notice  models.Notice          `json:"notice"`
	Tickets models.TicketsResponse `json:"tickets"`
}

func (h *Handler) requireLogin(c echo.Context) bool {
	return currentSession(c).LoggedIn
}

func ticketsAuthRequired(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   models.NoticeAuthRequired,
		Message: msgTicketsAuthRequired,
		Code:    http.StatusUnauthorized,
	})
}

func (h *Handler) ticketViews(tickets []models.TicketResult) models.TicketsResponse {
	now := h.now().In(h.loc)
	resp := models.TicketsResponse{
		Tickets: lo.Map(tickets, func(t models.TicketResult, _ int) models.TicketView {
			return models.TicketView{TicketResult: t, Returnable: filter.ReturnableAt(t, now, h.loc)}
		}),
	}
	if len(resp.Tickets) == 0 {
		resp.Notice = notice(models.NoticeNoTickets, msgNoTickets)
	}
	return resp
}

// Tickets lists the user's purchased tickets, each marked returnable when it
// has not departed yet.
func (h *Handler) Tickets(c echo.Context) error {
	if !h.requireLogin(c) {
		return ticketsAuthRequired(c)
	}
	tickets, err := h.client(c).GetUserTickets(c.Request().Context())
	if err != nil {
		return backendFailure(c, err, codeTicketsUnavail, msgTicketsUnavailable)
	}
	return c.JSON(http.StatusOK, h.ticketViews(tickets))
}

// ReturnTicket returns one ticket after explicit confirmation and answers
// with the refreshed ticket list.
func (h *Handler) ReturnTicket(c echo.Context) error {
	if !h.requireLogin(c) {
		return ticketsAuthRequired(c)
	}
	ticketID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, codeValidation, "id must be a number")
	}
	var req models.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request body: "+err.Error())
	}
	if !req.Confirm {
		return errorJSON(c, http.StatusUnprocessableEntity, codeConfirmRequired, msgConfirmReturn)
	}

	ctx := c.Request().Context()
	client := h.client(c)

	tickets, err := client.GetUserTickets(ctx)
	if err != nil {
		return backendFailure(c, err, codeTicketsUnavail, msgTicketsUnavailable)
	}
	ticket, found := lo.Find(tickets, func(t models.TicketResult) bool { return t.TicketID == ticketID })
	if !found {
		return errorJSON(c, http.StatusNotFound, codeTicketNotFound, msgTicketNotFound)
	}
	if !filter.ReturnableAt(ticket, h.now().In(h.loc), h.loc) {
		return errorJSON(c, http.StatusUnprocessableEntity, codeNotReturnable, msgNotReturnable)
	}

	if err := client.ReturnTicket(ctx, ticketID); err != nil {
		return backendFailure(c, err, codeReturnFailed, msgReturnFailed)
	}

	tickets, err = client.GetUserTickets(ctx)
	if err != nil {
		return backendFailure(c, err, codeTicketsUnavail, msgTicketsUnavailable)
	}
	return c.JSON(http.StatusOK, ReturnResponse{
		Notice:  *notice("ticket_returned", msgReturned),
		Tickets: h.ticketViews(tickets),
	})
}

// TicketDocument streams the ticket PDF as produced by the booking API.
func (h *Handler) TicketDocument(c echo.Context) error {
	if !h.requireLogin(c) {
		return ticketsAuthRequired(c)
	}
	ticketID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, codeValidation, "id must be a number")
	}

	doc, err := h.client(c).DownloadTicket(c.Request().Context(), ticketID)
	if err != nil {
		return backendFailure(c, err, codeDocumentFailed, msgDocumentFailed)
	}
	return sendDocument(c, doc)
}

// Itinerary renders the upcoming tickets as a single PDF.
func (h *Handler) Itinerary(c echo.Context) error {
	if !h.requireLogin(c) {
		return ticketsAuthRequired(c)
	}
	tickets, err := h.client(c).GetUserTickets(c.Request().Context())
	if err != nil {
		return backendFailure(c, err, codeTicketsUnavail, msgTicketsUnavailable)
	}

	now := h.now().In(h.loc)
	upcoming := lo.Filter(tickets, func(t models.TicketResult, _ int) bool {
		return filter.ReturnableAt(t, now, h.loc)
	})
	data, err := ticketdoc.Itinerary(currentSession(c).FullName, upcoming, now)
	if err != nil {
		return err
	}
	return sendDocument(c, backend.Document{
		Filename:    ticketdoc.Filename,
		ContentType: ticketdoc.ContentType,
		Data:        data,
	})
}

func sendDocument(c echo.Context, doc backend.Document) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}
