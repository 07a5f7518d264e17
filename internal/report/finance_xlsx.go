package report

import (
	"fmt"
	"io"

	"go-estoque-condo/internal/service"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary  = "Resumo"
	SheetPayments = "Pagamentos"
	SheetExpenses = "Despesas"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FileName names the workbook after its period, e.g. financeiro_2024-03.xlsx.
func FileName(month, year *int) string {
	switch {
	case month != nil && year != nil:
		return fmt.Sprintf("financeiro_%04d-%02d.xlsx", *year, *month)
	case year != nil:
		return fmt.Sprintf("financeiro_%04d.xlsx", *year)
	default:
		return "financeiro.xlsx"
	}
}

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	header int
	money  int
	err    error
}

func (w *sheetWriter) set(col, row int, value interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

func (w *sheetWriter) style(col, row, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func (w *sheetWriter) headers(row int, names ...string) {
	for i, name := range names {
		w.set(i+1, row, name)
		w.style(i+1, row, w.header)
	}
}

func (w *sheetWriter) widths(widths ...float64) {
	for i, width := range widths {
		if w.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

// WriteFinance renders r as a workbook with a summary sheet followed by
// the period's payments and expenses.
func WriteFinance(out io.Writer, r *service.FinanceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetPayments, SheetExpenses} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	steps := []func(*sheetWriter){
		func(w *sheetWriter) { writeSummary(w, r.Summary) },
		func(w *sheetWriter) { writePayments(w, r) },
		func(w *sheetWriter) { writeExpenses(w, r) },
	}
	for i, sheet := range []string{SheetSummary, SheetPayments, SheetExpenses} {
		w := &sheetWriter{f: f, sheet: sheet, header: header, money: money}
		steps[i](w)
		if w.err != nil {
			return fmt.Errorf("write %s: %w", sheet, w.err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(out)
}

func period(s *service.FinanceSummary) string {
	switch {
	case s.Month != nil && s.Year != nil:
		return fmt.Sprintf("%02d/%04d", *s.Month, *s.Year)
	case s.Year != nil:
		return fmt.Sprintf("%04d", *s.Year)
	case s.Month != nil:
		return fmt.Sprintf("%02d/*", *s.Month)
	default:
		return "Todos"
	}
}

func writeSummary(w *sheetWriter, s *service.FinanceSummary) {
	rows := []struct {
		label string
		value interface{}
		money bool
	}{
		{"Período", period(s), false},
		{"Receitas", s.Balance.Income.InexactFloat64(), true},
		{"Despesas", s.Balance.Expense.InexactFloat64(), true},
		{"Saldo", s.Balance.Balance.InexactFloat64(), true},
		{"Apartamentos", s.Delinquency.TotalApartments, false},
		{"Adimplentes", s.Delinquency.PaidCount, false},
		{"Inadimplentes", s.Delinquency.DelinquentCount, false},
	}
	for i, row := range rows {
		w.set(1, i+1, row.label)
		w.style(1, i+1, w.header)
		w.set(2, i+1, row.value)
		if row.money {
			w.style(2, i+1, w.money)
		}
	}

	start := len(rows) + 2
	w.headers(start, "Categoria", "Total")
	for i, c := range s.ByCategory {
		w.set(1, start+i+1, c.Category)
		w.set(2, start+i+1, c.Total.InexactFloat64())
		w.style(2, start+i+1, w.money)
	}
	w.widths(18, 14)
}

func writePayments(w *sheetWriter, r *service.FinanceReport) {
	w.headers(1, "Apartamento", "Valor", "Data", "Mês", "Ano", "Descrição")
	for i, p := range r.Payments {
		row := i + 2
		month, year := p.Period()
		w.set(1, row, p.ApartmentNumber)
		w.set(2, row, p.Amount.InexactFloat64())
		w.style(2, row, w.money)
		w.set(3, row, p.Date.String())
		w.set(4, row, month)
		w.set(5, row, year)
		w.set(6, row, p.Description)
	}
	w.widths(12, 12, 12, 6, 8, 30)
}

func writeExpenses(w *sheetWriter, r *service.FinanceReport) {
	w.headers(1, "Descrição", "Categoria", "Valor", "Data")
	for i, e := range r.Expenses {
		row := i + 2
		category := e.Category
		if category == "" {
			category = "Outros"
		}
		w.set(1, row, e.Description)
		w.set(2, row, category)
		w.set(3, row, e.Amount.InexactFloat64())
		w.style(3, row, w.money)
		w.set(4, row, e.Date.String())
	}
	w.widths(30, 15, 12, 12)
}
