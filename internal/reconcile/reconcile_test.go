package reconcile

import (
	"testing"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
)

func coverWith(bank string, amounts map[string]float64, text map[string]string) extract.CoverData {
	c := extract.NewCoverData(bank)
	for k, v := range amounts {
		c.Amounts[k] = v
	}
	for k, v := range text {
		c.Text[k] = v
	}
	return c
}

func TestMergeNumericTakesMax(t *testing.T) {
	a := coverWith("bbva", map[string]float64{"depositos": 100.0}, nil)
	b := coverWith("bbva", map[string]float64{"depositos": 250.0}, nil)

	got := Merge(a, b)
	if v := got.AmountOrZero(banks.FieldDepositos); v != 250.0 {
		t.Errorf("depositos = %v, want 250.0", v)
	}
}

func TestMergeNumericCommutative(t *testing.T) {
	a := coverWith("bbva", map[string]float64{
		"depositos":      100.0,
		"cargos":         40.0,
		"saldo_promedio": 900.0,
	}, nil)
	b := coverWith("bbva", map[string]float64{
		"depositos":  250.0,
		"comisiones": 116.0,
	}, nil)

	ab := Merge(a, b)
	ba := Merge(b, a)
	for _, field := range banks.NumericFields {
		va, aOK := ab.Amount(field)
		vb, bOK := ba.Amount(field)
		if aOK != bOK || va != vb {
			t.Errorf("field %s: Merge(a,b)=%v/%v Merge(b,a)=%v/%v", field, va, aOK, vb, bOK)
		}
	}
}

func TestMergeNeverShrinksMagnitude(t *testing.T) {
	a := coverWith("santander", map[string]float64{"depositos": 180000.0, "comisiones": 90.0}, nil)
	b := coverWith("santander", map[string]float64{"depositos": 175500.0, "comisiones": 120.0}, nil)

	got := Merge(a, b)
	for _, field := range banks.NumericFields {
		va, aOK := a.Amount(field)
		vb, bOK := b.Amount(field)
		if !aOK && !bOK {
			continue
		}
		v, _ := got.Amount(field)
		if v < va || v < vb {
			t.Errorf("field %s: merged %v below sources %v/%v", field, v, va, vb)
		}
	}
}

func TestMergeSingleSourceSurvives(t *testing.T) {
	a := coverWith("hsbc", map[string]float64{"depositos": 5000.0}, nil)
	b := coverWith("hsbc", nil, nil)

	got := Merge(a, b)
	if v, ok := got.Amount(banks.FieldDepositos); !ok || v != 5000.0 {
		t.Errorf("depositos = %v, ok=%v", v, ok)
	}
	if _, ok := got.Amount(banks.FieldComisiones); ok {
		t.Error("comisiones extracted by neither source should stay absent")
	}
}

func TestMergeTextPrefersLonger(t *testing.T) {
	a := coverWith("banorte", nil, map[string]string{"periodo": "del 01/05/2025"})
	b := coverWith("banorte", nil, map[string]string{"periodo": "del 01/05/2025 al 31/05/2025"})

	got := Merge(a, b)
	if v, _ := got.TextField(banks.FieldPeriodo); v != "del 01/05/2025 al 31/05/2025" {
		t.Errorf("periodo = %q", v)
	}
}

func TestMergeTextEqualLengthTieBreaksToPrimary(t *testing.T) {
	a := coverWith("banorte", nil, map[string]string{"rfc": "aaa111111aa1"})
	b := coverWith("banorte", nil, map[string]string{"rfc": "bbb222222bb2"})

	ab := Merge(a, b)
	ba := Merge(b, a)

	if v, _ := ab.TextField(banks.FieldRFC); v != "aaa111111aa1" {
		t.Errorf("Merge(a,b) rfc = %q, want primary's", v)
	}
	// Reversing argument order flips the winner only on equal lengths.
	if v, _ := ba.TextField(banks.FieldRFC); v != "bbb222222bb2" {
		t.Errorf("Merge(b,a) rfc = %q, want primary's", v)
	}
}

func TestMergeTextEmptyIsAbsent(t *testing.T) {
	a := coverWith("afirme", nil, map[string]string{"cliente": "   "})
	b := coverWith("afirme", nil, map[string]string{"cliente": "gardomi sa de cv"})

	got := Merge(a, b)
	if v, ok := got.TextField(banks.FieldCliente); !ok || v != "gardomi sa de cv" {
		t.Errorf("cliente = %q, ok=%v", v, ok)
	}

	neither := Merge(coverWith("afirme", nil, nil), coverWith("afirme", nil, nil))
	if _, ok := neither.TextField(banks.FieldCliente); ok {
		t.Error("cliente should be absent when neither source has it")
	}
}

func TestMergeBankCarriedFromPrimary(t *testing.T) {
	got := Merge(coverWith("", nil, nil), coverWith("inbursa", nil, nil))
	if got.Bank != "inbursa" {
		t.Errorf("Bank = %q, want fallback to secondary", got.Bank)
	}

	got = Merge(coverWith("bbva", nil, nil), coverWith("inbursa", nil, nil))
	if got.Bank != "bbva" {
		t.Errorf("Bank = %q, want primary", got.Bank)
	}
}
