package seatmap

import (
	"github.com/samber/lo"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/pricing"
)

type Cell struct {
	Number    int    `json:"number"`
	SeatID    *int   `json:"seatId,omitempty"`
	SeatType  string `json:"seatType,omitempty"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

type CarriageView struct {
	Number     int    `json:"number"`
	CarriageID int    `json:"carriageId"`
	Type       string `json:"type"`
	Capacity   int    `json:"capacity"`
	FreeSeats  int    `json:"freeSeats"`
	Price      *int   `json:"price"`
	PriceLabel string `json:"priceLabel"`
	Cells      []Cell `json:"cells"`
}

type SeatMap struct {
	TrainNumber string         `json:"trainNumber"`
	TrainType   string         `json:"trainType"`
	Carriages   []CarriageView `json:"carriages"`
}

const unknownTrainType = "Н/Д"

// Build lays out seats 1..capacity of every carriage. Seat numbers missing from
// the carriage's free list are rendered as taken.
func Build(structure models.TrainStructure, prices pricing.Table, cart *Cart) SeatMap {
	m := SeatMap{
		TrainNumber: structure.TrainNumber,
		TrainType:   unknownTrainType,
		Carriages:   make([]CarriageView, 0, len(structure.Carriages)),
	}
	if structure.TrainType != nil && *structure.TrainType != "" {
		m.TrainType = *structure.TrainType
	}

	for i, carriage := range structure.Carriages {
		free := lo.KeyBy(carriage.Seats, func(s models.Seat) int { return s.SeatNumber })

		view := CarriageView{
			Number:     i + 1,
			CarriageID: carriage.CarriageID,
			Type:       carriage.CarriageType,
			Capacity:   carriage.Capacity,
			FreeSeats:  len(carriage.Seats),
			Price:      prices.Lookup(carriage.CarriageType),
			PriceLabel: prices.Label(carriage.CarriageType),
			Cells:      make([]Cell, 0, carriage.Capacity),
		}
		for n := 1; n <= carriage.Capacity; n++ {
			cell := Cell{Number: n}
			if seat, ok := free[n]; ok {
				id := seat.SeatID
				cell.SeatID = &id
				cell.SeatType = seat.SeatType
				cell.Available = true
				cell.Selected = cart != nil && cart.Contains(seat.SeatID)
			}
			view.Cells = append(view.Cells, cell)
		}
		m.Carriages = append(m.Carriages, view)
	}

	return m
}

// Summarize groups carriages by type in order of first appearance, adding up
// their free seats.
func Summarize(structure models.TrainStructure, prices pricing.Table) []models.CarriageSummary {
	var summaries []models.CarriageSummary
	index := make(map[string]int)

	for _, carriage := range structure.Carriages {
		if i, ok := index[carriage.CarriageType]; ok {
			summaries[i].FreeSeats += len(carriage.Seats)
			continue
		}
		index[carriage.CarriageType] = len(summaries)
		summaries = append(summaries, models.CarriageSummary{
			Type:       carriage.CarriageType,
			FreeSeats:  len(carriage.Seats),
			Price:      prices.Lookup(carriage.CarriageType),
			PriceLabel: prices.Label(carriage.CarriageType),
		})
	}

	return summaries
}
