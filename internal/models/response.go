package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Notice is an advisory for the user. It is never an error of the request itself.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	NoticeNoScheduleFound   = "no_schedule_found"
	NoticeSelectionLimit    = "selection_limit_reached"
	NoticeNoSeatsSelected   = "no_seats_selected"
	NoticeAuthRequired      = "auth_required"
	NoticePurchaseConfirmed = "purchase_confirmed"
	NoticeNoTickets         = "no_tickets"
)

type ScheduleCard struct {
	Schedule
	TravelTime    string            `json:"travelTime"`
	DepartureDay  string            `json:"departureDay"`
	ArrivalDay    string            `json:"arrivalDay"`
	Carriages     []CarriageSummary `json:"carriages,omitempty"`
	LayoutMissing bool              `json:"layoutMissing,omitempty"`
}

type CarriageSummary struct {
	Type       string `json:"type"`
	FreeSeats  int    `json:"freeSeats"`
	Price      *int   `json:"price"`
	PriceLabel string `json:"priceLabel"`
}

type ScheduleResponse struct {
	Criteria  SearchRequest  `json:"criteria"`
	Schedules []ScheduleCard `json:"schedules"`
	Notice    *Notice        `json:"notice,omitempty"`
	CacheHit  bool           `json:"cacheHit"`
}

type BoardResponse struct {
	City       string         `json:"city"`
	Date       string         `json:"date"`
	Departures []TransitEntry `json:"departures"`
	Arrivals   []TransitEntry `json:"arrivals"`
}

type RouteStop struct {
	RouteStation
	StopMinutes *int `json:"stopMinutes,omitempty"`
}

type TicketView struct {
	TicketResult
	Returnable bool `json:"returnable"`
}

type TicketsResponse struct {
	Tickets []TicketView `json:"tickets"`
	Notice  *Notice      `json:"notice,omitempty"`
}

type SessionResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}
