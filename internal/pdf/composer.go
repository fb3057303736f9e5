// Package pdf renders the monthly fleet report. The layout follows the
// printed report users file away: a summary page, the transaction and
// fueling listings, then the category and vehicle rollups.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"frota/internal/core"
	"frota/internal/report"
)

const (
	missingRef = "—" // shown when a referenced vehicle or category no longer exists

	fontFamily = "Helvetica"
)

// Composer renders aggregation results to PDF.
type Composer struct {
	title string
}

func NewComposer() *Composer {
	return &Composer{title: "Relatório da Frota"}
}

// Filename returns the canonical report file name for a generation
// instant, e.g. "relatorio_2025-03-31_174502.pdf".
func Filename(at time.Time) string {
	return fmt.Sprintf("relatorio_%s.pdf", at.Format("2006-01-02_150405"))
}

// Compose writes the full report for one aggregation result. The
// vehicle and category slices resolve ids to display names; records
// pointing at deleted entities render with a placeholder instead of
// being dropped.
func (c *Composer) Compose(w io.Writer, res report.Result, vehicles []core.Vehicle, categories []core.Category, generatedAt time.Time) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(generatedAt)
	doc.SetModificationDate(generatedAt)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	periodLabel := fmt.Sprintf("%s a %s", res.Window.Start.String(), res.Window.End.String())

	doc.SetHeaderFunc(func() {
		doc.SetFont(fontFamily, "B", 14)
		doc.CellFormat(0, 8, tr(c.title), "", 1, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 9)
		doc.SetTextColor(110, 110, 110)
		doc.CellFormat(0, 5, tr("Período: "+periodLabel), "", 1, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
		doc.Ln(3)
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(fontFamily, "I", 8)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 10,
			tr(fmt.Sprintf("Gerado em %s — página %d/{nb}", generatedAt.Format("02/01/2006 15:04"), doc.PageNo())),
			"", 0, "C", false, 0, "")
		doc.SetTextColor(0, 0, 0)
	})
	doc.AliasNbPages("")

	vehicleNames := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		vehicleNames[v.ID] = v.Name
	}
	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}

	doc.AddPage()
	c.summarySection(doc, tr, res)
	c.transactionSection(doc, tr, "Receitas", res.Transactions, core.Income, vehicleNames, categoryNames)
	c.transactionSection(doc, tr, "Despesas", res.Transactions, core.Expense, vehicleNames, categoryNames)
	c.fuelingSection(doc, tr, res.Fuelings, vehicleNames)
	c.categorySection(doc, tr, "Resumo por categoria — receitas", res.IncomeByCategory)
	c.categorySection(doc, tr, "Resumo por categoria — despesas", res.ExpenseByCategory)
	c.vehicleSection(doc, tr, res.ByVehicle)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (c *Composer) sectionTitle(doc *fpdf.Fpdf, tr func(string) string, title string) {
	if doc.GetY() > 250 {
		doc.AddPage()
	}
	doc.SetFont(fontFamily, "B", 11)
	doc.SetFillColor(235, 235, 235)
	doc.CellFormat(0, 7, tr(title), "", 1, "L", true, 0, "")
	doc.Ln(1)
}

func (c *Composer) summaryRow(doc *fpdf.Fpdf, tr func(string) string, label, value string) {
	doc.SetFont(fontFamily, "", 10)
	doc.CellFormat(70, 6, tr(label), "", 0, "L", false, 0, "")
	doc.SetFont(fontFamily, "B", 10)
	doc.CellFormat(0, 6, tr(value), "", 1, "R", false, 0, "")
}

func (c *Composer) summarySection(doc *fpdf.Fpdf, tr func(string) string, res report.Result) {
	c.sectionTitle(doc, tr, "Resumo do período")

	t := res.Totals
	c.summaryRow(doc, tr, "Receitas", core.FormatBRL(t.Income.Cents))
	c.summaryRow(doc, tr, "  programadas", core.FormatBRL(t.ScheduledIncome.Cents))
	c.summaryRow(doc, tr, "  efetivadas", core.FormatBRL(t.SettledIncome.Cents))
	c.summaryRow(doc, tr, "Despesas", core.FormatBRL(t.Expense.Cents))
	c.summaryRow(doc, tr, "  programadas", core.FormatBRL(t.ScheduledExpense.Cents))
	c.summaryRow(doc, tr, "  efetivadas", core.FormatBRL(t.SettledExpense.Cents))
	c.summaryRow(doc, tr, "Saldo", core.FormatBRL(t.Balance.Cents))
	c.summaryRow(doc, tr, "Abastecimentos", core.FormatBRL(res.FuelingTotal.Cents))

	c.summaryRow(doc, tr, "Variação receitas vs. mês anterior", fmt.Sprintf("%.1f%%", res.Comparison.IncomeChangePct))
	c.summaryRow(doc, tr, "Variação despesas vs. mês anterior", fmt.Sprintf("%.1f%%", res.Comparison.ExpenseChangePct))

	if res.AvgConsumption > 0 {
		c.summaryRow(doc, tr, "Consumo médio da frota", fmt.Sprintf("%.1f km/l", res.AvgConsumption))
	}
	if res.KmDriven > 0 {
		c.summaryRow(doc, tr, "Quilometragem no período", fmt.Sprintf("%d km", res.KmDriven))
		c.summaryRow(doc, tr, "Custo por km", fmt.Sprintf("R$ %.2f", res.CostPerKm))
	}
	doc.Ln(4)
}

func (c *Composer) tableHeader(doc *fpdf.Fpdf, tr func(string) string, widths []float64, labels []string) {
	doc.SetFont(fontFamily, "B", 9)
	doc.SetFillColor(245, 245, 245)
	for i, l := range labels {
		align := "L"
		if i == len(labels)-1 {
			align = "R"
		}
		doc.CellFormat(widths[i], 6, tr(l), "B", 0, align, true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont(fontFamily, "", 9)
}

func (c *Composer) transactionSection(doc *fpdf.Fpdf, tr func(string) string, title string, txs []core.Transaction, kind core.Kind, vehicleNames, categoryNames map[string]string) {
	c.sectionTitle(doc, tr, title)

	widths := []float64{22, 38, 40, 55, 35}
	c.tableHeader(doc, tr, widths, []string{"Data", "Veículo", "Categoria", "Descrição", "Valor"})

	var total core.Money
	count := 0
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		count++
		total = total.Add(t.Amount)

		if doc.GetY() > 270 {
			doc.AddPage()
			c.tableHeader(doc, tr, widths, []string{"Data", "Veículo", "Categoria", "Descrição", "Valor"})
		}
		doc.CellFormat(widths[0], 5.5, t.Date.String(), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 5.5, tr(nameOr(vehicleNames, t.VehicleID)), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 5.5, tr(nameOr(categoryNames, t.CategoryID)), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[3], 5.5, tr(clip(t.Description, 40)), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[4], 5.5, tr(core.FormatBRL(t.Amount.Cents)), "", 1, "R", false, 0, "")
	}

	if count == 0 {
		doc.CellFormat(0, 6, tr("Nenhum registro no período."), "", 1, "L", false, 0, "")
	} else {
		doc.SetFont(fontFamily, "B", 9)
		doc.CellFormat(155, 6, tr(fmt.Sprintf("Total (%d)", count)), "T", 0, "L", false, 0, "")
		doc.CellFormat(35, 6, tr(core.FormatBRL(total.Cents)), "T", 1, "R", false, 0, "")
	}
	doc.Ln(4)
}

func (c *Composer) fuelingSection(doc *fpdf.Fpdf, tr func(string) string, fuels []core.Fueling, vehicleNames map[string]string) {
	c.sectionTitle(doc, tr, "Abastecimentos")

	widths := []float64{22, 45, 28, 25, 35, 35}
	c.tableHeader(doc, tr, widths, []string{"Data", "Veículo", "Combustível", "Litros", "Hodômetro", "Valor"})

	var total core.Money
	for _, f := range fuels {
		total = total.Add(f.Total)
		if doc.GetY() > 270 {
			doc.AddPage()
			c.tableHeader(doc, tr, widths, []string{"Data", "Veículo", "Combustível", "Litros", "Hodômetro", "Valor"})
		}
		doc.CellFormat(widths[0], 5.5, f.Date.String(), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 5.5, tr(nameOr(vehicleNames, f.VehicleID)), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 5.5, tr(f.FuelType), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[3], 5.5, fmt.Sprintf("%.1f", f.Liters), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 5.5, fmt.Sprintf("%d", f.Odometer), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[5], 5.5, tr(core.FormatBRL(f.Total.Cents)), "", 1, "R", false, 0, "")
	}

	if len(fuels) == 0 {
		doc.CellFormat(0, 6, tr("Nenhum abastecimento no período."), "", 1, "L", false, 0, "")
	} else {
		doc.SetFont(fontFamily, "B", 9)
		doc.CellFormat(155, 6, tr(fmt.Sprintf("Total (%d)", len(fuels))), "T", 0, "L", false, 0, "")
		doc.CellFormat(35, 6, tr(core.FormatBRL(total.Cents)), "T", 1, "R", false, 0, "")
	}
	doc.Ln(4)
}

func (c *Composer) categorySection(doc *fpdf.Fpdf, tr func(string) string, title string, rows []report.CategoryBreakdown) {
	c.sectionTitle(doc, tr, title)

	if len(rows) == 0 {
		doc.SetFont(fontFamily, "", 9)
		doc.CellFormat(0, 6, tr("Nenhum registro no período."), "", 1, "L", false, 0, "")
		doc.Ln(4)
		return
	}

	widths := []float64{60, 32, 32, 34, 32}
	c.tableHeader(doc, tr, widths, []string{"Categoria", "Programado", "Efetivado", "Lançamentos", "Total"})
	for _, r := range rows {
		if doc.GetY() > 270 {
			doc.AddPage()
			c.tableHeader(doc, tr, widths, []string{"Categoria", "Programado", "Efetivado", "Lançamentos", "Total"})
		}
		doc.CellFormat(widths[0], 5.5, tr(r.Name), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 5.5, tr(core.FormatBRL(r.Scheduled.Cents)), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 5.5, tr(core.FormatBRL(r.Settled.Cents)), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 5.5, fmt.Sprintf("%d", r.Count), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 5.5, tr(core.FormatBRL(r.Total.Cents)), "", 1, "R", false, 0, "")
	}
	doc.Ln(4)
}

func (c *Composer) vehicleSection(doc *fpdf.Fpdf, tr func(string) string, rows []report.VehicleBreakdown) {
	c.sectionTitle(doc, tr, "Resumo por veículo")

	if len(rows) == 0 {
		doc.SetFont(fontFamily, "", 9)
		doc.CellFormat(0, 6, tr("Nenhum registro no período."), "", 1, "L", false, 0, "")
		return
	}

	widths := []float64{70, 40, 40, 40}
	c.tableHeader(doc, tr, widths, []string{"Veículo", "Despesas", "Abastecimentos", "Total"})
	for _, r := range rows {
		if doc.GetY() > 270 {
			doc.AddPage()
			c.tableHeader(doc, tr, widths, []string{"Veículo", "Despesas", "Abastecimentos", "Total"})
		}
		doc.CellFormat(widths[0], 5.5, tr(r.Name), "", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 5.5, tr(core.FormatBRL(r.Expenses.Cents)), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 5.5, tr(core.FormatBRL(r.Fuelings.Cents)), "", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 5.5, tr(core.FormatBRL(r.Total.Cents)), "", 1, "R", false, 0, "")
	}
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return missingRef
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
