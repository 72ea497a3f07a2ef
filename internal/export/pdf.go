package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/trip"
)

// PDF renders it as a printable A4 document.
func PDF(it *planner.Itinerary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Itinerary: "+it.Destination), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("TRAVEL ITINERARY"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{"Destination : " + it.Destination}
	if it.Origin != "" {
		lines = append(lines, "From        : "+it.Origin)
	}
	lines = append(lines,
		fmt.Sprintf("Dates       : %s to %s (%d days)", it.StartDate.Format(trip.DateLayout), it.EndDate.Format(trip.DateLayout), it.DurationDays),
		fmt.Sprintf("Travelers   : %d", it.Travelers),
		fmt.Sprintf("Budget      : $%s %s", planner.FormatBudget(it.Budget), it.Currency),
	)
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	for i, d := range it.Days {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, tr(fmt.Sprintf("Day %d - %s - %s", i+1, d.Date.Format("Monday, January 2, 2006"), d.City)))
		pdf.Ln(9)

		pdf.SetFont("Helvetica", "", 11)
		for _, a := range d.Activities {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s  %s ($%.2f, %s)", a.Time, a.Name, float64(a.Cost), a.Duration)), "", "", false)
			if a.Description != "" {
				pdf.SetFont("Helvetica", "I", 10)
				pdf.MultiCell(0, 5, tr("    "+a.Description), "", "", false)
				pdf.SetFont("Helvetica", "", 11)
			}
		}
		for _, m := range d.Meals {
			where := ""
			if m.Restaurant != "" {
				where = " at " + m.Restaurant
			}
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s  %s%s ($%.2f)", m.Time, m.Meal, where, float64(m.Cost))), "", "", false)
		}
		for _, t := range d.Transportation {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s -> %s by %s ($%.2f)", t.From, t.To, t.Method, float64(t.Cost))), "", "", false)
		}
		if d.Tips != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, tr("Tip: "+d.Tips), "", "", false)
		}
	}

	if len(it.Flights) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Flight options")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, f := range it.Flights {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s %s: %s -> %s, %s, $%.2f", f.Airline, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport, f.DepartureTime, f.Price)), "", "", false)
		}
	}

	if len(it.Lodging) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Lodging options")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range it.Lodging {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s: $%.2f per night", l.Name, l.PricePerNight)), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
