package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/ratelimit"
)

func (c *Client) GetSchedule(ctx context.Context, cityFrom, cityTo, date string) ([]models.Schedule, error) {
	var out []models.Schedule
	err := c.call(ctx, request{
		op:     "get_schedule",
		group:  ratelimit.GroupSchedule,
		method: http.MethodGet,
		path:   "/Schedule/GetSchedule",
		query:  url.Values{"cityFrom": {cityFrom}, "cityTo": {cityTo}, "date": {date}},
	}, &out)
	return out, err
}

// GetScheduleTransit lists the trains passing through city on date, by
// departure time or, when arrivals is set, by arrival time.
func (c *Client) GetScheduleTransit(ctx context.Context, city, date string, arrivals bool) ([]models.TransitEntry, error) {
	var out []models.TransitEntry
	err := c.call(ctx, request{
		op:     "get_schedule_transit",
		group:  ratelimit.GroupSchedule,
		method: http.MethodGet,
		path:   "/Schedule/GetScheduleTransit",
		query:  url.Values{"city": {city}, "date": {date}, "isArrival": {strconv.FormatBool(arrivals)}},
	}, &out)
	return out, err
}

func (c *Client) GetAvailableSeats(ctx context.Context, scheduleID int) (models.TrainStructure, error) {
	var out models.TrainStructure
	err := c.call(ctx, request{
		op:     "get_available_seats",
		group:  ratelimit.GroupSeats,
		method: http.MethodGet,
		path:   "/Train/" + strconv.Itoa(scheduleID) + "/AvalibleSeats",
	}, &out)
	return out, err
}

func (c *Client) GetRouteStations(ctx context.Context, trainNumber string) ([]models.RouteStation, error) {
	var out []models.RouteStation
	err := c.call(ctx, request{
		op:     "get_route_stations",
		group:  ratelimit.GroupSchedule,
		method: http.MethodGet,
		path:   "/Route/" + url.PathEscape(trainNumber) + "/stations",
	}, &out)
	return out, err
}
