package banks

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "banbajio full name",
			text: "estado de cuenta banco del bajio s.a. institución de banca múltiple",
			want: "banbajío",
		},
		{
			name: "banbajio accented",
			text: "banco del bajío periodo del 01/05/2025 al 31/05/2025",
			want: "banbajío",
		},
		{
			name: "bbva short alias",
			text: "su cuenta maestra pyme bbva méxico",
			want: "bbva",
		},
		{
			name: "legacy bancomer alias maps to bbva",
			text: "estado de cuenta bancomer cuenta 0123456789",
			want: "bbva",
		},
		{
			name: "leftmost alias wins across banks",
			text: "santander ofrece traspasos a banorte sin costo",
			want: "santander",
		},
		{
			name: "citibanamex preferred over plain banamex at same position",
			text: "estado de cuenta citibanamex empresarial",
			want: "banamex",
		},
		{
			name:    "no alias present",
			text:    "factura de servicios de telefonía",
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Detect(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectLowered(t *testing.T) {
	reg := NewRegistry()

	got, err := reg.DetectLowered("Estado de Cuenta BANORTE Empresarial")
	if err != nil {
		t.Fatalf("DetectLowered() error = %v", err)
	}
	if got != "banorte" {
		t.Errorf("DetectLowered() = %q, want %q", got, "banorte")
	}
}

func TestRegistryProfiles(t *testing.T) {
	reg := NewRegistry()

	for _, id := range reg.IDs() {
		p, ok := reg.Profile(id)
		if !ok {
			t.Fatalf("Profile(%q) missing", id)
		}
		if p.ID != id {
			t.Errorf("profile id mismatch: %q vs %q", p.ID, id)
		}
		if len(p.Aliases) == 0 {
			t.Errorf("profile %q has no aliases", id)
		}
		if p.FieldPattern(FieldDepositos) == nil {
			t.Errorf("profile %q has no depositos pattern", id)
		}
		if len(p.TransactionVariants()) == 0 {
			t.Errorf("profile %q has no transaction variants", id)
		}
	}

	if _, ok := reg.Profile("monopoly bank"); ok {
		t.Error("expected no profile for unconfigured bank")
	}
}

func TestFieldPatternCapturesValue(t *testing.T) {
	reg := NewRegistry()
	p, _ := reg.Profile("banbajío")

	text := "resumen del periodo depósitos (+) $5,000.00 retiros (-) $1,200.50"
	m := p.FieldPattern(FieldDepositos).FindStringSubmatch(text)
	if m == nil {
		t.Fatal("depositos pattern did not match")
	}
	val := firstGroup(m)
	if val != "5,000.00" {
		t.Errorf("captured %q, want %q", val, "5,000.00")
	}
}

func TestTransactionVariantMatchesLine(t *testing.T) {
	reg := NewRegistry()
	p, _ := reg.Profile("banbajío")

	line := "05-may-25 gardomi monterrey 10 09229981d 1,022.00"
	re := p.TransactionVariants()["default"]
	m := re.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("transaction pattern did not match %q", line)
	}
	if !strings.Contains(m[2], "gardomi") {
		t.Errorf("description group = %q", m[2])
	}
	if m[3] != "1,022.00" {
		t.Errorf("amount group = %q", m[3])
	}
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
