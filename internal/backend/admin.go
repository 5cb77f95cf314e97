package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/ratelimit"
)

func (c *Client) ListSchedulePatterns(ctx context.Context) ([]models.SchedulePattern, error) {
	var out []models.SchedulePattern
	err := c.call(ctx, request{
		op:     "list_schedule_patterns",
		group:  ratelimit.GroupAdmin,
		method: http.MethodGet,
		path:   "/SchedulePattern/schedule-patterns/all",
		accept: "text/plain",
	}, &out)
	return out, err
}

func (c *Client) GetSchedulePattern(ctx context.Context, trainNumber string) (models.SchedulePattern, error) {
	var out models.SchedulePattern
	err := c.call(ctx, request{
		op:     "get_schedule_pattern",
		group:  ratelimit.GroupAdmin,
		method: http.MethodGet,
		path:   "/SchedulePattern/train/" + url.PathEscape(trainNumber),
		accept: "text/plain",
	}, &out)
	return out, err
}

// UpdateSchedulePattern returns the stored pattern. An empty answer yields the
// pattern as sent.
func (c *Client) UpdateSchedulePattern(ctx context.Context, trainNumber string, pattern models.SchedulePattern) (models.SchedulePattern, error) {
	out := pattern
	err := c.call(ctx, request{
		op:     "update_schedule_pattern",
		group:  ratelimit.GroupAdmin,
		method: http.MethodPut,
		path:   "/SchedulePattern/train/" + url.PathEscape(trainNumber) + "/update",
		body:   pattern,
	}, &out)
	return out, err
}

func reportQuery(startDate, endDate string) url.Values {
	return url.Values{"startDate": {startDate}, "endDate": {endDate}}
}

func (c *Client) GetRoutePopularityReport(ctx context.Context, startDate, endDate string) ([]models.RoutePopularityReport, error) {
	var out []models.RoutePopularityReport
	err := c.call(ctx, request{
		op:     "route_popularity_report",
		group:  ratelimit.GroupAdmin,
		method: http.MethodGet,
		path:   "/AdminReports/popularity-route-report",
		query:  reportQuery(startDate, endDate),
		accept: "text/plain",
	}, &out)
	return out, err
}

func (c *Client) GetRevenueReport(ctx context.Context, startDate, endDate string) ([]models.RevenueReport, error) {
	var out []models.RevenueReport
	err := c.call(ctx, request{
		op:     "revenue_report",
		group:  ratelimit.GroupAdmin,
		method: http.MethodGet,
		path:   "/AdminReports/revenue-report",
		query:  reportQuery(startDate, endDate),
		accept: "text/plain",
	}, &out)
	return out, err
}

func (c *Client) ExportReportCSV(ctx context.Context, reportType, startDate, endDate string) (Document, error) {
	q := reportQuery(startDate, endDate)
	q.Set("reportType", reportType)
	return c.download(ctx, request{
		op:     "export_report_csv",
		group:  ratelimit.GroupAdmin,
		method: http.MethodGet,
		path:   "/AdminReports/export-csv",
		query:  q,
	}, reportType+"_report.csv", "text/csv")
}
