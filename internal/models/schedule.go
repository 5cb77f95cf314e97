package models

import (
	"strconv"
	"strings"
)

type Schedule struct {
	ScheduleID                int    `json:"scheduleId"`
	TrainID                   int    `json:"trainId"`
	TrainNumber               string `json:"trainNumber"`
	RouteCities               string `json:"routeCities"`
	RouteID                   int    `json:"routeId"`
	StationCount              int    `json:"stationCount"`
	RealDepartureDateFromCity string `json:"realDepartureDateFromCity"` // YYYY-MM-DD
	DepartureDateFromStart    string `json:"departureDateFromStart"`    // YYYY-MM-DD
	FromStationName           string `json:"fromStationName"`
	ArrivalTimeFromCity       string `json:"arrivalTimeFromCity"` // HH:mm:ss, departure from the origin city
	ToStationName             string `json:"toStationName"`
	ArrivalDateToEnd          string `json:"arrivalDateToEnd"`        // YYYY-MM-DD
	RealDepartureDateToCity   string `json:"realDepartureDateToCity"` // YYYY-MM-DD
	ArrivalTimeToCity         string `json:"arrivalTimeToCity"`       // HH:mm:ss
}

// DepartureStamp and ArrivalStamp are the local "date+T+time" forms sent with a purchase.
func (s Schedule) DepartureStamp() string {
	return s.RealDepartureDateFromCity + "T" + s.ArrivalTimeFromCity
}

func (s Schedule) ArrivalStamp() string {
	return s.RealDepartureDateToCity + "T" + s.ArrivalTimeToCity
}

type TransitEntry struct {
	TrainNumber string `json:"trainNumber"`
	RouteCities string `json:"routeCities"`
	Time        string `json:"time"` // HH:mm:ss
	StationName string `json:"stationName"`
}

type RouteStation struct {
	StationOrder  int     `json:"stationOrder"`
	StationName   string  `json:"stationName"`
	ArrivalTime   *string `json:"arrivalTime"`
	DepartureTime *string `json:"departureTime"`
}

type SchedulePattern struct {
	TrainID       int     `json:"trainId"`
	TrainNumber   string  `json:"trainNumber"`
	FrequencyType string  `json:"frequencyType"`
	DaysOfWeek    *string `json:"daysOfWeek"` // "1,3,5", 1 = Monday
	DayParity     *string `json:"dayParity"`  // "Парні" | "Непарні"
}

const (
	DayParityEven = "Парні"
	DayParityOdd  = "Непарні"

	FrequencyDaily         = "Щоденно"
	FrequencyEveryOtherDay = "Через день"
	FrequencyWeekdays      = "Конкретні дні тижня"
)

var weekdayNames = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Нд"}

// Validate checks that the pattern carries exactly the fields its frequency needs.
func (p *SchedulePattern) Validate() error {
	if strings.TrimSpace(p.TrainNumber) == "" {
		return ErrMissingTrainNumber
	}
	switch p.FrequencyType {
	case FrequencyDaily:
		return nil
	case FrequencyEveryOtherDay:
		if p.DayParity == nil || (*p.DayParity != DayParityEven && *p.DayParity != DayParityOdd) {
			return ErrInvalidDayParity
		}
		return nil
	case FrequencyWeekdays:
		if p.DaysOfWeek == nil {
			return ErrInvalidDaysOfWeek
		}
		if _, err := ParseDaysOfWeek(*p.DaysOfWeek); err != nil {
			return err
		}
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// ParseDaysOfWeek reads "1,3,5" (1 = Monday, 7 = Sunday).
func ParseDaysOfWeek(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 1 || day > 7 {
			return nil, ErrInvalidDaysOfWeek
		}
		days = append(days, day)
	}
	return days, nil
}

// DaysOfWeekLabel renders "1,3,5" as "Пн, Ср, Пт" and a missing value as "-".
func DaysOfWeekLabel(daysOfWeek *string) string {
	if daysOfWeek == nil || *daysOfWeek == "" {
		return "-"
	}
	days, err := ParseDaysOfWeek(*daysOfWeek)
	if err != nil {
		return *daysOfWeek
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, weekdayNames[d-1])
	}
	return strings.Join(names, ", ")
}
