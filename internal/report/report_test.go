package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

func sampleAggregate() pipeline.JobAggregate {
	cover := extract.NewCoverData("banbajío")
	cover.Text["rfc"] = "gam850101ab1"
	cover.Text["cliente"] = "comercializadora gardomi"
	cover.Amounts["depositos"] = 5000.0
	cover.Amounts["comisiones"] = 100.0

	return pipeline.JobAggregate{
		JobID:         "job-1",
		TotalDeposits: 5000.0,
		Documents: []pipeline.DocumentResult{
			{
				Filename: "mayo.pdf",
				Accounts: []pipeline.ExtractionResult{{
					Section: pipeline.AccountSection{Start: 1, End: 8},
					Cover:   cover,
					Transactions: []pipeline.Transaction{
						{Date: "05-may-25", Description: "venta tpv", Amount: "1,022.00", Value: 1022.0, Category: pipeline.CategoryTPV},
						{Date: "06-may-25", Description: "comision", Amount: "116.00", Value: 116.0, Excluded: true},
					},
					Totals: map[string]float64{pipeline.CategoryTPV: 1022.0},
					TPVNet: 922.0,
				}},
			},
			{Filename: "roto.pdf", Error: "document is password protected"},
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleAggregate()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheets = %v, want summary plus one movements sheet", sheets)
	}
	if sheets[0] != summarySheet {
		t.Errorf("first sheet = %q, want %q", sheets[0], summarySheet)
	}

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 3 {
		t.Fatalf("summary has %d rows, want header plus one row per account/failure", len(rows))
	}
	if rows[1][0] != "mayo.pdf" {
		t.Errorf("summary row 2 filename = %q", rows[1][0])
	}
	if rows[2][0] != "roto.pdf" {
		t.Errorf("summary row 3 filename = %q, want the failed document listed", rows[2][0])
	}

	moves, err := f.GetRows("Movimientos 1")
	if err != nil {
		t.Fatalf("GetRows movements: %v", err)
	}
	// Title, header, two movements.
	if len(moves) < 4 {
		t.Fatalf("movements sheet has %d rows", len(moves))
	}
	if moves[2][1] != "venta tpv" {
		t.Errorf("movement description = %q", moves[2][1])
	}
	if moves[3][4] != "sí" {
		t.Errorf("excluded flag = %q, want marked", moves[3][4])
	}
}
