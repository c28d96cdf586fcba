package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/novatripai/novatrip/itinerary"
)

// PDF renders an itinerary as an A4 PDF document. Callers that need a
// guaranteed result should fall back to Text when this fails.
func PDF(w io.Writer, it itinerary.Itinerary, params itinerary.TripParameters) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	title := fmt.Sprintf("Itinerary: %s", params.Destination)
	if params.TripType != "" {
		title += fmt.Sprintf(" (%s)", params.TripType)
	}
	doc.MultiCell(0, 8, title, "", "L", false)

	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, fmt.Sprintf("%d days, budget %s", params.Days, params.Budget.String()), "", "L", false)
	doc.Ln(2)

	for _, day := range it.Days {
		doc.SetFont("Helvetica", "B", 13)
		doc.MultiCell(0, 7, fmt.Sprintf("Day %d", day.Day), "", "L", false)
		doc.SetFont("Helvetica", "", 11)

		for _, a := range day.Activities {
			var line strings.Builder
			line.WriteString("- ")
			if a.Time != "" {
				line.WriteString(a.Time + "  ")
			}
			line.WriteString(a.Title)
			if a.Cost > 0 {
				fmt.Fprintf(&line, " (%.2f)", a.Cost)
			}
			doc.MultiCell(0, 6, line.String(), "", "L", false)

			if a.Description != "" {
				doc.MultiCell(0, 5, "    "+a.Description, "", "L", false)
			}
			if a.SafetyNote != "" {
				doc.MultiCell(0, 5, "    Safety: "+a.SafetyNote, "", "L", false)
			}
		}

		doc.MultiCell(0, 6, fmt.Sprintf("Day total: %.2f", day.Subtotal), "", "L", false)
		doc.Ln(2)
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.MultiCell(0, 7, fmt.Sprintf("Total estimated cost: %.2f (%.0f%% of budget)",
		it.TotalEstimatedCost, it.BudgetUtilization*100), "", "L", false)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render PDF: %w", err)
	}
	return nil
}
