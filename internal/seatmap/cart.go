package seatmap

import (
	"errors"

	"github.com/samber/lo"

	"github.com/dharmasatrya/trainbooking/internal/models"
)

const MaxSeats = 4

var (
	ErrSelectionLimit  = errors.New("no more than 4 seats can be selected in one order")
	ErrNoSeatsSelected = errors.New("no seats selected")
	ErrSeatUnavailable = errors.New("seat is not available")
)

type ToggleResult int

const (
	SeatAdded ToggleResult = iota
	SeatRemoved
)

// Cart is an ordered selection of at most MaxSeats distinct seats.
type Cart struct {
	seats []models.SelectedSeat
}

func NewCart(seats ...models.SelectedSeat) *Cart {
	c := &Cart{}
	for _, s := range seats {
		if c.Contains(s.SeatID) || len(c.seats) == MaxSeats {
			continue
		}
		c.seats = append(c.seats, s)
	}
	return c
}

// Toggle removes the seat when it is already selected and adds it otherwise.
// Adding to a full cart returns ErrSelectionLimit and leaves the cart as is.
func (c *Cart) Toggle(seat models.SelectedSeat) (ToggleResult, error) {
	if idx := c.indexOf(seat.SeatID); idx >= 0 {
		c.seats = append(c.seats[:idx:idx], c.seats[idx+1:]...)
		return SeatRemoved, nil
	}
	if len(c.seats) >= MaxSeats {
		return SeatAdded, ErrSelectionLimit
	}
	c.seats = append(c.seats, seat)
	return SeatAdded, nil
}

func (c *Cart) Contains(seatID int) bool {
	return c.indexOf(seatID) >= 0
}

func (c *Cart) Len() int {
	return len(c.seats)
}

func (c *Cart) Seats() []models.SelectedSeat {
	out := make([]models.SelectedSeat, len(c.seats))
	copy(out, c.seats)
	return out
}

func (c *Cart) Total() int {
	return lo.SumBy(c.seats, func(s models.SelectedSeat) int { return s.Price })
}

func (c *Cart) Clear() {
	c.seats = nil
}

func (c *Cart) indexOf(seatID int) int {
	_, idx, ok := lo.FindIndexOf(c.seats, func(s models.SelectedSeat) bool { return s.SeatID == seatID })
	if !ok {
		return -1
	}
	return idx
}
