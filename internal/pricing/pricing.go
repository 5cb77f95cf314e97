package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/timezone"
	"github.com/dharmasatrya/trainbooking/pkg/currency"
)

const (
	BaseRatePerHour = 40
	MinimumPrice    = 70
)

// Keys are lower-case; lookups fold the carriage type first.
var carriageMultipliers = map[string]float64{
	"плацкарт":        1,
	"купе":            1.5,
	"люкс":            2.3,
	"сидячі - 2 клас": 1,
	"сидячі - 1 клас": 1.5,
}

func Multiplier(carriageType string) (float64, bool) {
	m, ok := carriageMultipliers[strings.ToLower(carriageType)]
	return m, ok
}

// TravelDuration returns arrival minus departure. An arrival that comes out
// earlier than the departure is taken to be on the following day.
func TravelDuration(departure, arrival time.Time) time.Duration {
	d := arrival.Sub(departure)
	if d < 0 {
		d = arrival.AddDate(0, 0, 1).Sub(departure)
	}
	return d
}

func ScheduleDuration(s models.Schedule, loc *time.Location) (time.Duration, error) {
	departure, err := timezone.ParseDateTime(s.RealDepartureDateFromCity, s.ArrivalTimeFromCity, loc)
	if err != nil {
		return 0, fmt.Errorf("schedule %d departure: %w", s.ScheduleID, err)
	}
	arrival, err := timezone.ParseDateTime(s.RealDepartureDateToCity, s.ArrivalTimeToCity, loc)
	if err != nil {
		return 0, fmt.Errorf("schedule %d arrival: %w", s.ScheduleID, err)
	}
	return TravelDuration(departure, arrival), nil
}

// Price is round(hours × 40 × multiplier), floored at MinimumPrice when the
// rounded value is not positive.
func Price(d time.Duration, multiplier float64) int {
	price := int(math.Round(d.Hours() * BaseRatePerHour * multiplier))
	if price <= 0 {
		return MinimumPrice
	}
	return price
}

// CarriagePrice returns false for carriage types without a multiplier and for
// schedules whose times cannot be read. Neither is an error for the caller.
func CarriagePrice(s models.Schedule, carriageType string, loc *time.Location) (int, bool) {
	multiplier, ok := Multiplier(carriageType)
	if !ok {
		return 0, false
	}
	d, err := ScheduleDuration(s, loc)
	if err != nil {
		return 0, false
	}
	return Price(d, multiplier), true
}

// TravelTimeLabel renders a duration the way trip cards show it, e.g. "6 год 34 хв".
func TravelTimeLabel(d time.Duration) string {
	totalMinutes := int(d / time.Minute)
	return fmt.Sprintf("%d год %d хв", totalMinutes/60, totalMinutes%60)
}

// DateLabel turns "YYYY-MM-DD" into "DD.MM".
func DateLabel(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return padTwo(parts[2]) + "." + padTwo(parts[1])
}

func padTwo(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// Table maps a carriage type, as spelled by the API, to its price for one trip.
type Table map[string]int

// NewTable prices every carriage type present in carriages. It has to be
// rebuilt whenever the schedule or the carriage list changes.
func NewTable(s models.Schedule, carriages []models.Carriage, loc *time.Location) Table {
	table := make(Table)
	for _, c := range carriages {
		if _, done := table[c.CarriageType]; done {
			continue
		}
		if price, ok := CarriagePrice(s, c.CarriageType, loc); ok {
			table[c.CarriageType] = price
		}
	}
	return table
}

func (t Table) Lookup(carriageType string) *int {
	price, ok := t[carriageType]
	if !ok {
		return nil
	}
	return &price
}

func (t Table) Label(carriageType string) string {
	return currency.FormatPrice(t.Lookup(carriageType))
}
