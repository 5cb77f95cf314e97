package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/trainbooking/internal/filter"
	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/metrics"
	"github.com/dharmasatrya/trainbooking/internal/models"
)

// Schedules answers a trip search: upcoming trips sorted by departure time,
// optionally with per-carriage-type prices and free seats.
func (h *Handler) Schedules(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	s := currentSession(c)
	ctx, ticket := h.tracker.Begin(c.Request().Context(), "schedules:"+s.ID)
	defer ticket.Done()

	client := h.client(c)
	schedules, cacheHit := h.cache.GetSchedules(ctx, req)
	metrics.CacheLookups.WithLabelValues("schedules", hitLabel(cacheHit)).Inc()
	if !cacheHit {
		var err error
		schedules, err = client.GetSchedule(ctx, req.From, req.To, req.Date)
		if err != nil {
			if !ticket.Current() {
				return superseded(c)
			}
			return backendFailure(c, err, codeScheduleUnavail, msgScheduleUnavailable)
		}
		if err := h.cache.SetSchedules(ctx, req, schedules); err != nil {
			log.FromContext(ctx).WithError(err).Warn("could not cache schedules")
		}
	}

	upcoming := filter.Upcoming(schedules, h.now().In(h.loc), h.loc)
	result := h.aggregator.Enrich(ctx, client, upcoming, req.Details)

	resp := models.ScheduleResponse{
		Criteria:  req,
		Schedules: result.Cards,
		CacheHit:  cacheHit,
	}
	if len(resp.Schedules) == 0 {
		resp.Notice = notice(models.NoticeNoScheduleFound, msgNoScheduleFound)
	}

	if err := ticket.Commit(func() {}); err != nil {
		return superseded(c)
	}
	return c.JSON(http.StatusOK, resp)
}

// Board lists the next departures and arrivals of a city, fetched concurrently.
func (h *Handler) Board(c echo.Context) error {
	var req models.TransitRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request: "+err.Error())
	}
	now := h.now().In(h.loc)
	if err := req.Validate(now); err != nil {
		return validationError(c, err)
	}

	client := h.client(c)
	var departures, arrivals []models.TransitEntry

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		departures, err = client.GetScheduleTransit(ctx, req.City, req.Date, false)
		return err
	})
	g.Go(func() error {
		var err error
		arrivals, err = client.GetScheduleTransit(ctx, req.City, req.Date, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return backendFailure(c, err, codeBoardUnavail, msgBoardUnavailable)
	}

	return c.JSON(http.StatusOK, models.BoardResponse{
		City:       req.City,
		Date:       req.Date,
		Departures: nonNil(filter.UpcomingTransit(departures, now)),
		Arrivals:   nonNil(filter.UpcomingTransit(arrivals, now)),
	})
}

func (h *Handler) RouteStations(c echo.Context) error {
	trainNumber := c.Param("trainNumber")
	ctx := c.Request().Context()

	stations, hit := h.cache.GetRoute(ctx, trainNumber)
	metrics.CacheLookups.WithLabelValues("route", hitLabel(hit)).Inc()
	if !hit {
		var err error
		stations, err = h.client(c).GetRouteStations(ctx, trainNumber)
		if err != nil {
			return backendFailure(c, err, codeRouteUnavail, msgRouteUnavailable)
		}
		if err := h.cache.SetRoute(ctx, trainNumber, stations); err != nil {
			log.FromContext(ctx).WithError(err).Warn("could not cache route")
		}
	}

	return c.JSON(http.StatusOK, filter.RouteStops(stations))
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
