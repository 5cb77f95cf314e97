package models

type Seat struct {
	SeatID     int    `json:"seatId"`
	SeatNumber int    `json:"seatNumber"`
	SeatType   string `json:"seatType"`
}

type Carriage struct {
	CarriageID   int    `json:"carriageId"`
	CarriageType string `json:"carriageType"`
	Capacity     int    `json:"capacity"`
	Seats        []Seat `json:"seats"`
}

// TrainStructure lists only the free seats of every carriage; any seat number
// in 1..Capacity missing from Seats is taken.
type TrainStructure struct {
	TrainNumber string     `json:"trainNumber"`
	TrainType   *string    `json:"trainType"`
	Carriages   []Carriage `json:"carriages"`
}

type SelectedSeat struct {
	SeatID         int    `json:"seatId"`
	SeatNumber     int    `json:"seatNumber"`
	SeatType       string `json:"seatType"`
	CarriageNumber int    `json:"carriageNumber"`
	Price          int    `json:"price"`
}
