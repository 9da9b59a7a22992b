// Package report renders a finished analysis aggregate as an XLSX workbook:
// one summary sheet plus one movements sheet per account section.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

const summarySheet = "Resumen"

var summaryHeader = []string{
	"Archivo", "Banco", "Cuenta (páginas)", "RFC", "Cliente", "Periodo",
	"Depósitos", "Cargos", "Comisiones", "Saldo promedio", "TPV neto", "Error",
}

var movementHeader = []string{"Fecha", "Descripción", "Monto", "Categoría", "Excluida"}

// Write renders the aggregate into w as a workbook.
func Write(w io.Writer, agg pipeline.JobAggregate) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if err := writeSummary(f, agg); err != nil {
		return err
	}

	sheet := 0
	for _, doc := range agg.Documents {
		for _, acc := range doc.Accounts {
			if len(acc.Transactions) == 0 {
				continue
			}
			sheet++
			name := fmt.Sprintf("Movimientos %d", sheet)
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("report: creating sheet %s: %w", name, err)
			}
			if err := writeMovements(f, name, doc, acc); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, agg pipeline.JobAggregate) error {
	if err := setRow(f, summarySheet, 1, toCells(summaryHeader)); err != nil {
		return err
	}

	row := 2
	for _, doc := range agg.Documents {
		if len(doc.Accounts) == 0 {
			cells := make([]interface{}, len(summaryHeader))
			cells[0] = doc.Filename
			cells[len(cells)-1] = doc.Error
			if err := setRow(f, summarySheet, row, cells); err != nil {
				return err
			}
			row++
			continue
		}
		for _, acc := range doc.Accounts {
			cells := []interface{}{
				doc.Filename,
				acc.Cover.Bank,
				fmt.Sprintf("%d-%d", acc.Section.Start, acc.Section.End),
				textOrBlank(acc.Cover, banks.FieldRFC),
				textOrBlank(acc.Cover, banks.FieldCliente),
				textOrBlank(acc.Cover, banks.FieldPeriodo),
				amountOrBlank(acc.Cover, banks.FieldDepositos),
				amountOrBlank(acc.Cover, banks.FieldCargos),
				amountOrBlank(acc.Cover, banks.FieldComisiones),
				amountOrBlank(acc.Cover, banks.FieldSaldoPromedio),
				acc.TPVNet,
				acc.Error,
			}
			if err := setRow(f, summarySheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	row++
	totals := []interface{}{"Depósitos totales del trabajo", agg.TotalDeposits}
	if err := setRow(f, summarySheet, row, totals); err != nil {
		return err
	}
	return nil
}

func writeMovements(f *excelize.File, sheet string, doc pipeline.DocumentResult, acc pipeline.ExtractionResult) error {
	title := []interface{}{fmt.Sprintf("%s · %s · páginas %d-%d", doc.Filename, acc.Cover.Bank, acc.Section.Start, acc.Section.End)}
	if err := setRow(f, sheet, 1, title); err != nil {
		return err
	}
	if err := setRow(f, sheet, 2, toCells(movementHeader)); err != nil {
		return err
	}

	row := 3
	for _, tx := range acc.Transactions {
		excluded := ""
		if tx.Excluded {
			excluded = "sí"
		}
		cells := []interface{}{tx.Date, tx.Description, tx.Value, tx.Category, excluded}
		if err := setRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}

	row++
	for _, category := range []string{
		pipeline.CategoryCashDeposits,
		pipeline.CategoryTransfers,
		pipeline.CategoryFinancing,
		pipeline.CategoryAltProcessor,
		pipeline.CategoryTPV,
	} {
		total, ok := acc.Totals[category]
		if !ok {
			continue
		}
		if err := setRow(f, sheet, row, []interface{}{"Total " + category, total}); err != nil {
			return err
		}
		row++
	}
	return setRow(f, sheet, row, []interface{}{"TPV neto", acc.TPVNet})
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for i, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("report: cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("report: setting %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func textOrBlank(cover extract.CoverData, field banks.FieldID) interface{} {
	if v, ok := cover.TextField(field); ok {
		return v
	}
	return nil
}

func amountOrBlank(cover extract.CoverData, field banks.FieldID) interface{} {
	if v, ok := cover.Amount(field); ok {
		return v
	}
	return nil
}
