package filter

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/timezone"
)

const TransitBoardSize = 6

// Upcoming sorts schedules by departure time of day and drops the ones that
// departed strictly before now. Entries whose departure cannot be read are kept.
func Upcoming(schedules []models.Schedule, now time.Time, loc *time.Location) []models.Schedule {
	sorted := make([]models.Schedule, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ArrivalTimeFromCity < sorted[j].ArrivalTimeFromCity
	})

	return lo.Filter(sorted, func(s models.Schedule, _ int) bool {
		return !departed(s, now, loc)
	})
}

func departed(s models.Schedule, now time.Time, loc *time.Location) bool {
	departure, err := timezone.ParseDateTime(s.RealDepartureDateFromCity, s.ArrivalTimeFromCity, loc)
	if err != nil {
		return false
	}
	return departure.Before(now)
}

// UpcomingTransit keeps the board entries whose time of day, taken on now's
// date, is not earlier than now. The earliest TransitBoardSize are returned.
func UpcomingTransit(entries []models.TransitEntry, now time.Time) []models.TransitEntry {
	type timed struct {
		entry models.TransitEntry
		at    time.Time
	}

	var upcoming []timed
	for _, e := range entries {
		h, m, s, err := timezone.ParseClock(e.Time)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), h, m, s, 0, now.Location())
		if at.Before(now) {
			continue
		}
		upcoming = append(upcoming, timed{entry: e, at: at})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].at.Before(upcoming[j].at)
	})

	if len(upcoming) > TransitBoardSize {
		upcoming = upcoming[:TransitBoardSize]
	}

	return lo.Map(upcoming, func(t timed, _ int) models.TransitEntry { return t.entry })
}

// ReturnableAt reports whether a ticket departs after now and may be returned.
func ReturnableAt(ticket models.TicketResult, now time.Time, loc *time.Location) bool {
	departure, err := timezone.ParseStamp(ticket.DepartureTime, loc)
	if err != nil {
		return false
	}
	return departure.After(now)
}
