package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/vrogeon/repartkey/core/stats"
)

func rateText(r stats.Rate) string {
	if !r.Available() {
		return "n/a"
	}
	return comma(r.Value, 1) + " %"
}

// WriteSummaryPDF writes a printable summary of the run: totals, rates and
// the monthly rows of every producer. months is keyed by producer ID.
func WriteSummaryPDF(w io.Writer, sum stats.Summary, months map[string][]stats.MonthRow) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Repartition summary")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", sum.RunID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Strategy: %s", sum.Strategy))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", sum.StartedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Slots: %d (truncated: %d)", sum.Slots, sum.Truncated))
	pdf.Ln(8)
	pdf.Cell(0, 6, fmt.Sprintf("Production: %s kWh", comma(sum.ProductionKWh, 2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Consumption: %s kWh", comma(sum.ConsumptionKWh, 2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Auto-consumption: %s kWh", comma(sum.AutoConsumptionKWh, 2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Global auto-production rate: "+rateText(sum.GlobalAutoProduction))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Producer", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Auto-consumption", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Coverage", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for i, r := range sum.AutoConsumption {
		pdf.CellFormat(70, 6, tr(r.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, rateText(r), "1", 0, "R", false, 0, "")
		cov := stats.Rate{Err: "missing"}
		if i < len(sum.Coverage) {
			cov = sum.Coverage[i]
		}
		pdf.CellFormat(50, 6, rateText(cov), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Consumer", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Auto-production", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range sum.AutoProduction {
		pdf.CellFormat(70, 6, tr(r.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, rateText(r), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	for _, p := range sum.AutoConsumption {
		rows := months[p.ID]
		if len(rows) == 0 {
			continue
		}
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, tr(fmt.Sprintf("Monthly report: %s", p.Name)))
		pdf.Ln(7)
		pdf.CellFormat(35, 6, "Month end", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Prod (kWh)", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, "Cons (kWh)", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Auto-cons (kWh)", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, r := range rows {
			var cons, auto int
			for _, c := range r.Consumers {
				cons += c.ConsumptionKWh
				auto += c.AutoConsumptionKWh
			}
			pdf.CellFormat(35, 6, r.Label, "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprint(r.ProductionKWh), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprint(cons), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprint(auto), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}
