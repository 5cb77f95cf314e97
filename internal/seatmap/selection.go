package seatmap

import (
	"sync"
	"time"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/pricing"
)

// Selection is the seat-picking state of one session for one trip.
type Selection struct {
	mu        sync.Mutex
	schedule  models.Schedule
	structure models.TrainStructure
	prices    pricing.Table
	cart      *Cart
}

// NewSelection prices the carriages of structure for schedule and starts with
// an empty cart.
func NewSelection(schedule models.Schedule, structure models.TrainStructure, loc *time.Location) *Selection {
	return &Selection{
		schedule:  schedule,
		structure: structure,
		prices:    pricing.NewTable(schedule, structure.Carriages, loc),
		cart:      NewCart(),
	}
}

func (s *Selection) Schedule() models.Schedule {
	return s.schedule
}

func (s *Selection) Prices() pricing.Table {
	return s.prices
}

// Toggle selects or deselects a free seat of the layout by id.
func (s *Selection) Toggle(seatID int) (ToggleResult, models.SelectedSeat, error) {
	seat, ok := s.locate(seatID)
	if !ok {
		return SeatAdded, models.SelectedSeat{}, ErrSeatUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.cart.Toggle(seat)
	return result, seat, err
}

func (s *Selection) Map() SeatMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Build(s.structure, s.prices, s.cart)
}

func (s *Selection) Seats() []models.SelectedSeat {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Seats()
}

func (s *Selection) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Total()
}

// Checkout packs the cart and trip metadata for the checkout step. No remote
// call happens here.
func (s *Selection) Checkout() (models.Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		return models.Checkout{}, ErrNoSeatsSelected
	}
	return models.Checkout{
		Seats: s.cart.Seats(),
		Trip:  models.TripFromSchedule(s.schedule),
	}, nil
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
}

func (s *Selection) locate(seatID int) (models.SelectedSeat, bool) {
	for i, carriage := range s.structure.Carriages {
		for _, seat := range carriage.Seats {
			if seat.SeatID != seatID {
				continue
			}
			// Unpriced carriages sell at zero, as the seat map shows no price for them.
			price := 0
			if p := s.prices.Lookup(carriage.CarriageType); p != nil {
				price = *p
			}
			return models.SelectedSeat{
				SeatID:         seat.SeatID,
				SeatNumber:     seat.SeatNumber,
				SeatType:       seat.SeatType,
				CarriageNumber: i + 1,
				Price:          price,
			}, true
		}
	}
	return models.SelectedSeat{}, false
}
