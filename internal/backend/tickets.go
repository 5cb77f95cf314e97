package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/ratelimit"
)

func (c *Client) Purchase(ctx context.Context, purchase models.PurchaseRequest) error {
	return c.call(ctx, request{
		op:     "purchase",
		group:  ratelimit.GroupTickets,
		method: http.MethodPost,
		path:   "/Ticket/purchase",
		body:   purchase,
	}, nil)
}

func (c *Client) GetUserTickets(ctx context.Context) ([]models.TicketResult, error) {
	var out []models.TicketResult
	err := c.call(ctx, request{
		op:     "get_user_tickets",
		group:  ratelimit.GroupTickets,
		method: http.MethodGet,
		path:   "/Ticket/user/tickets",
	}, &out)
	return out, err
}

func (c *Client) ReturnTicket(ctx context.Context, ticketID int) error {
	return c.call(ctx, request{
		op:     "return_ticket",
		group:  ratelimit.GroupTickets,
		method: http.MethodPatch,
		path:   "/Ticket/tickets/" + strconv.Itoa(ticketID) + "/return",
		body:   struct{}{},
	}, nil)
}

func (c *Client) DownloadTicket(ctx context.Context, ticketID int) (Document, error) {
	return c.download(ctx, request{
		op:     "download_ticket",
		group:  ratelimit.GroupTickets,
		method: http.MethodGet,
		path:   "/Ticket/user/ticket/" + strconv.Itoa(ticketID),
		accept: "application/pdf",
	}, "ticket-"+strconv.Itoa(ticketID)+".pdf", "application/pdf")
}
