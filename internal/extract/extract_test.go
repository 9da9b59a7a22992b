package extract

import (
	"errors"
	"testing"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$5,000.00", 5000.0, true},
		{"1,022.00", 1022.0, true},
		{"$100.00", 100.0, true},
		{"$ 12,345,678.90", 12345678.90, true},
		{"0.00", 0.0, true},
		{"", 0, false},
		{"$", 0, false},
		{"n/a", 0, false},
		{"12..00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractCoverFields(t *testing.T) {
	ex := NewExtractor(banks.NewRegistry())

	text := "estado de cuenta banco del bajio " +
		"r.f.c.: gam850101ab1 " +
		"periodo: del 01/05/2025 al 31/05/2025 " +
		"depósitos (+) $5,000.00 retiros (-) $1,200.50 " +
		"comisiones cobradas $100.00 saldo promedio $3,450.75"

	cover, err := ex.Extract("banbajío", text)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if cover.Bank != "banbajío" {
		t.Errorf("Bank = %q", cover.Bank)
	}
	if got := cover.AmountOrZero(banks.FieldDepositos); got != 5000.0 {
		t.Errorf("depositos = %v, want 5000.0", got)
	}
	if got := cover.AmountOrZero(banks.FieldComisiones); got != 100.0 {
		t.Errorf("comisiones = %v, want 100.0", got)
	}
	if got := cover.AmountOrZero(banks.FieldCargos); got != 1200.50 {
		t.Errorf("cargos = %v, want 1200.50", got)
	}
	if got := cover.AmountOrZero(banks.FieldSaldoPromedio); got != 3450.75 {
		t.Errorf("saldo_promedio = %v, want 3450.75", got)
	}
	if rfc, ok := cover.TextField(banks.FieldRFC); !ok || rfc != "gam850101ab1" {
		t.Errorf("rfc = %q, ok=%v", rfc, ok)
	}
	if periodo, ok := cover.TextField(banks.FieldPeriodo); !ok || periodo != "del 01/05/2025 al 31/05/2025" {
		t.Errorf("periodo = %q, ok=%v", periodo, ok)
	}
}

func TestExtractMissingFieldsStayAbsent(t *testing.T) {
	ex := NewExtractor(banks.NewRegistry())

	cover, err := ex.Extract("bbva", "texto sin montos ni campos reconocibles")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if _, ok := cover.Amount(banks.FieldDepositos); ok {
		t.Error("depositos should be absent, not zero")
	}
	if got := cover.AmountOrZero(banks.FieldDepositos); got != 0.0 {
		t.Errorf("AmountOrZero default = %v, want 0.0", got)
	}
}

func TestExtractUnparseableAmountResolvesAbsent(t *testing.T) {
	// The pattern only captures well-formed amounts, so a malformed value
	// simply never matches and the field stays absent.
	ex := NewExtractor(banks.NewRegistry())

	cover, err := ex.Extract("banbajío", "depósitos $--,--")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if _, ok := cover.Amount(banks.FieldDepositos); ok {
		t.Error("malformed deposit amount should stay absent")
	}
}

func TestExtractUnconfiguredBank(t *testing.T) {
	ex := NewExtractor(banks.NewRegistry())

	_, err := ex.Extract("monopoly bank", "whatever")
	if !errors.Is(err, ErrNoBankConfig) {
		t.Fatalf("Extract() error = %v, want ErrNoBankConfig", err)
	}
}
