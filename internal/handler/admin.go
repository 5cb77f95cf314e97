package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/models"
)

type PatternView struct {
	models.SchedulePattern
	DaysOfWeekLabel string `json:"daysOfWeekLabel"`
}

type ReportResponse[T any] struct {
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Rows      []T            `json:"rows"`
	Notice    *models.Notice `json:"notice,omitempty"`
}

const noticeNoReportData = "no_report_data"

func patternView(p models.SchedulePattern) PatternView {
	return PatternView{SchedulePattern: p, DaysOfWeekLabel: models.DaysOfWeekLabel(p.DaysOfWeek)}
}

// SchedulePatterns lists every train's schedule pattern, optionally narrowed
// by a case-insensitive train number fragment in ?q=.
func (h *Handler) SchedulePatterns(c echo.Context) error {
	patterns, err := h.client(c).ListSchedulePatterns(c.Request().Context())
	if err != nil {
		return backendFailure(c, err, codeBackendError, err.Error())
	}

	if q := strings.ToLower(strings.TrimSpace(c.QueryParam("q"))); q != "" {
		patterns = lo.Filter(patterns, func(p models.SchedulePattern, _ int) bool {
			return strings.Contains(strings.ToLower(p.TrainNumber), q)
		})
	}
	return c.JSON(http.StatusOK, lo.Map(patterns, func(p models.SchedulePattern, _ int) PatternView {
		return patternView(p)
	}))
}

func (h *Handler) patternFailure(c echo.Context, err error, trainNumber string) error {
	if backend.StatusCode(err) == http.StatusNotFound {
		return errorJSON(c, http.StatusNotFound, codePatternNotFound, fmt.Sprintf(msgPatternNotFound, trainNumber))
	}
	return backendFailure(c, err, codeBackendError, err.Error())
}

func (h *Handler) SchedulePattern(c echo.Context) error {
	trainNumber := c.Param("trainNumber")
	pattern, err := h.client(c).GetSchedulePattern(c.Request().Context(), trainNumber)
	if err != nil {
		return h.patternFailure(c, err, trainNumber)
	}
	return c.JSON(http.StatusOK, patternView(pattern))
}

// UpdateSchedulePattern validates and stores a pattern. The train number in
// the path wins over the one in the body.
func (h *Handler) UpdateSchedulePattern(c echo.Context) error {
	trainNumber := c.Param("trainNumber")

	var pattern models.SchedulePattern
	if err := c.Bind(&pattern); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request body: "+err.Error())
	}
	pattern.TrainNumber = trainNumber
	if err := pattern.Validate(); err != nil {
		return validationError(c, err)
	}

	switch pattern.FrequencyType {
	case models.FrequencyDaily:
		pattern.DaysOfWeek, pattern.DayParity = nil, nil
	case models.FrequencyEveryOtherDay:
		pattern.DaysOfWeek = nil
	case models.FrequencyWeekdays:
		pattern.DayParity = nil
	}

	ctx := c.Request().Context()
	updated, err := h.client(c).UpdateSchedulePattern(ctx, trainNumber, pattern)
	if err != nil {
		return h.patternFailure(c, err, trainNumber)
	}
	log.FromContext(ctx).WithField("train_number", trainNumber).Info("schedule pattern updated")
	return c.JSON(http.StatusOK, patternView(updated))
}

func reportResponse[T any](req models.ReportRequest, rows []T) ReportResponse[T] {
	resp := ReportResponse[T]{StartDate: req.StartDate, EndDate: req.EndDate, Rows: nonNil(rows)}
	if len(rows) == 0 {
		resp.Notice = notice(noticeNoReportData, msgNoReportData)
	}
	return resp
}

func (h *Handler) PopularityReport(c echo.Context) error {
	var req models.ReportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	rows, err := h.client(c).GetRoutePopularityReport(c.Request().Context(), req.StartDate, req.EndDate)
	if err != nil {
		return backendFailure(c, err, codeBackendError, err.Error())
	}
	return c.JSON(http.StatusOK, reportResponse(req, rows))
}

func (h *Handler) RevenueReport(c echo.Context) error {
	var req models.ReportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	rows, err := h.client(c).GetRevenueReport(c.Request().Context(), req.StartDate, req.EndDate)
	if err != nil {
		return backendFailure(c, err, codeBackendError, err.Error())
	}
	return c.JSON(http.StatusOK, reportResponse(req, rows))
}

// ExportReport passes the API's CSV export through unchanged.
func (h *Handler) ExportReport(c echo.Context) error {
	var req models.ReportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request: "+err.Error())
	}
	if err := req.ValidateExport(); err != nil {
		return validationError(c, err)
	}

	doc, err := h.client(c).ExportReportCSV(c.Request().Context(), req.Type, req.StartDate, req.EndDate)
	if err != nil {
		return backendFailure(c, err, codeBackendError, err.Error())
	}
	return sendDocument(c, doc)
}
