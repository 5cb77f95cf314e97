package ticketdoc

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/dharmasatrya/trainbooking/internal/models"
)

const (
	ContentType = "application/pdf"
	Filename    = "itinerary.pdf"
)

// Itinerary renders the given tickets as a one-page A4 summary. Text is
// transliterated since the core PDF fonts carry no Cyrillic glyphs.
func Itinerary(fullName string, tickets []models.TicketResult, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Itinerary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ITINERARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Passenger : "+Latin(safe(fullName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated : "+generated.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	if len(tickets) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No upcoming trips.")
		pdf.Ln(7)
	}

	var total float64
	for i, t := range tickets {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, fmt.Sprintf("%d) Train %s, ticket #%d", i+1, Latin(t.TrainNumber), t.TicketID))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 11)
		lines := []string{
			fmt.Sprintf("From : %s (%s), %s", Latin(t.DepartureStation), Latin(t.DepartureCity), stamp(t.DepartureTime)),
			fmt.Sprintf("To   : %s (%s), %s", Latin(t.ArrivalStation), Latin(t.ArrivalCity), stamp(t.ArrivalTime)),
			fmt.Sprintf("Seat : carriage %d (%s), seat %d (%s)", t.CarriageNumber, Latin(t.CarriageType), t.SeatNumber, Latin(t.SeatType)),
			fmt.Sprintf("Price: %.2f UAH", t.TicketPrice),
		}
		for _, line := range lines {
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(3)
		total += t.TicketPrice
	}

	if len(tickets) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f UAH", total))
		pdf.Ln(10)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "This summary is not a travel document. Download each ticket to board the train.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// stamp shortens "2025-05-10T08:00:00" to "2025-05-10 08:00".
func stamp(s string) string {
	s = strings.Replace(s, "T", " ", 1)
	if len(s) >= 16 {
		return s[:16]
	}
	return s
}
