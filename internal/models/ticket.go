package models

type Ticket struct {
	SeatID int     `json:"seatId"`
	Price  float64 `json:"price"`
}

// Trip is the purchase metadata. The remote API spells the schedule id "sheduleId".
type Trip struct {
	TrainID          int    `json:"trainId"`
	DepartureTime    string `json:"departureTime"`
	ArrivalTime      string `json:"arrivalTime"`
	StartStationName string `json:"startStationName"`
	EndStationName   string `json:"endStationName"`
	ScheduleID       int    `json:"sheduleId"`
}

func TripFromSchedule(s Schedule) Trip {
	return Trip{
		TrainID:          s.TrainID,
		DepartureTime:    s.DepartureStamp(),
		ArrivalTime:      s.ArrivalStamp(),
		StartStationName: s.FromStationName,
		EndStationName:   s.ToStationName,
		ScheduleID:       s.ScheduleID,
	}
}

type PurchaseRequest struct {
	Tickets []Ticket `json:"tickets"`
	Trip    Trip     `json:"trip"`
}

type TicketResult struct {
	TicketID         int     `json:"ticketId"`
	FullName         string  `json:"fullName"`
	TrainNumber      string  `json:"trainNumber"`
	CarriageNumber   int     `json:"carriageNumber"`
	CarriageType     string  `json:"carriageType"`
	SeatNumber       int     `json:"seatNumber"`
	SeatType         string  `json:"seatType"`
	DepartureStation string  `json:"departureStation"`
	DepartureCity    string  `json:"departureCity"`
	ArrivalStation   string  `json:"arrivalStation"`
	ArrivalCity      string  `json:"arrivalCity"`
	DepartureTime    string  `json:"departureTime"`
	ArrivalTime      string  `json:"arrivalTime"`
	PurchaseDate     string  `json:"purchaseDate"`
	TicketPrice      float64 `json:"ticketPrice"`
}

type RoutePopularityReport struct {
	Number                     string  `json:"number"`
	Direction                  string  `json:"direction"`
	NumberOfTrips              int     `json:"numberOfTrips"`
	NumberOfTicketsSold        int     `json:"numberOfTicketsSold"`
	AverageOccupancyPercentage float64 `json:"averageOccupancyPercentage"`
}

type RevenueReport struct {
	Date             string  `json:"date"`
	TicketsSold      int     `json:"ticketsSold"`
	Revenue          float64 `json:"revenue"`
	MostPopularTrain string  `json:"mostPopularTrain"`
}

// Checkout is what the seat map hands over to the checkout step.
type Checkout struct {
	Seats []SelectedSeat `json:"seats"`
	Trip  Trip           `json:"trip"`
}

func (c Checkout) Tickets() []Ticket {
	tickets := make([]Ticket, 0, len(c.Seats))
	for _, s := range c.Seats {
		tickets = append(tickets, Ticket{SeatID: s.SeatID, Price: float64(s.Price)})
	}
	return tickets
}

func (c Checkout) Total() int {
	total := 0
	for _, s := range c.Seats {
		total += s.Price
	}
	return total
}
