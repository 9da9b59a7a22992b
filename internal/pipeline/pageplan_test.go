package pipeline

import (
	"reflect"
	"testing"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
)

func TestCoverPages(t *testing.T) {
	reg := banks.NewRegistry()
	bajio, _ := reg.Profile("banbajío")
	banorte, _ := reg.Profile("banorte")

	tests := []struct {
		name      string
		profile   *banks.Profile
		pageCount int
		want      []int
	}{
		{"default first two pages", bajio, 12, []int{1, 2}},
		{"single page document", bajio, 1, []int{1}},
		{"cover at end adds document tail", banorte, 10, []int{1, 2, 8, 9, 10}},
		{"cover at end short document", banorte, 4, []int{1, 2, 3, 4}},
		{"cover at end never duplicates front pages", banorte, 3, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverPages(tt.profile, tt.pageCount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CoverPages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanSections(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		cuts      []int
		want      []AccountSection
	}{
		{
			name:      "no cuts single section",
			pageCount: 8,
			cuts:      nil,
			want:      []AccountSection{{Start: 1, End: 8}},
		},
		{
			name:      "two cuts three sections",
			pageCount: 10,
			cuts:      []int{4, 7},
			want:      []AccountSection{{1, 3}, {4, 6}, {7, 10}},
		},
		{
			name:      "unsorted and duplicate cuts",
			pageCount: 10,
			cuts:      []int{7, 4, 7},
			want:      []AccountSection{{1, 3}, {4, 6}, {7, 10}},
		},
		{
			name:      "cut on page one is ignored",
			pageCount: 5,
			cuts:      []int{1, 3},
			want:      []AccountSection{{1, 2}, {3, 5}},
		},
		{
			name:      "out of range cut is ignored",
			pageCount: 5,
			cuts:      []int{3, 9},
			want:      []AccountSection{{1, 2}, {3, 5}},
		},
		{
			name:      "cut on last page yields single page section",
			pageCount: 5,
			cuts:      []int{5},
			want:      []AccountSection{{1, 4}, {5, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSections(tt.pageCount, tt.cuts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("PlanSections() = %v, want %v", got, tt.want)
			}

			// Sections must partition [1, pageCount] without gaps or overlap.
			expect := 1
			for _, s := range got {
				if s.Start != expect {
					t.Errorf("section %v starts at %d, want %d", s, s.Start, expect)
				}
				if s.End < s.Start {
					t.Errorf("section %v is empty", s)
				}
				expect = s.End + 1
			}
			if expect != tt.pageCount+1 {
				t.Errorf("sections end at %d, want %d", expect-1, tt.pageCount)
			}
		})
	}
}

func TestDetectAccountCuts(t *testing.T) {
	reg := banks.NewRegistry()
	santander, _ := reg.Profile("santander")
	bajio, _ := reg.Profile("banbajío")

	pages := PageText{
		1: "banco santander información de la cuenta 123",
		2: "cargos y abonos del periodo",
		3: "información de la cuenta 456 empresarial",
		4: "más movimientos",
	}

	got := DetectAccountCuts(santander, pages)
	if !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("DetectAccountCuts() = %v, want [3]", got)
	}

	if cuts := DetectAccountCuts(bajio, pages); cuts != nil {
		t.Errorf("bank without heading pattern produced cuts %v", cuts)
	}
}

func TestMetadataPages(t *testing.T) {
	if got := MetadataPages(AccountSection{Start: 4, End: 6}); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("MetadataPages() = %v, want [3 4]", got)
	}
	if got := MetadataPages(AccountSection{Start: 1, End: 6}); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("MetadataPages() = %v, want [1]", got)
	}
}
