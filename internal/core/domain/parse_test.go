package domain

import (
	"reflect"
	"testing"
)

func TestParseServiceLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []ServiceItem
	}{
		{
			name: "full and name-only lines with blanks",
			in:   "A — b — 10\nC\n\n",
			want: []ServiceItem{{Name: "A", Desc: "b", Price: "10"}, {Name: "C"}},
		},
		{
			name: "pipe separator",
			in:   "Manicure | classic | 25",
			want: []ServiceItem{{Name: "Manicure", Desc: "classic", Price: "25"}},
		},
		{
			name: "spaced hyphen separator",
			in:   "Pedicure - full - 40",
			want: []ServiceItem{{Name: "Pedicure", Desc: "full", Price: "40"}},
		},
		{
			name: "bare hyphen separator",
			in:   "Design-logo-100",
			want: []ServiceItem{{Name: "Design", Desc: "logo", Price: "100"}},
		},
		{
			name: "extra parts discarded",
			in:   "A — b — 10 — extra — more",
			want: []ServiceItem{{Name: "A", Desc: "b", Price: "10"}},
		},
		{
			name: "empty parts dropped before positions assigned",
			in:   "A —  — 10",
			want: []ServiceItem{{Name: "A", Desc: "10"}},
		},
		{
			name: "only whitespace",
			in:   "   \n\t\n",
			want: nil,
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseServiceLines(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseServiceLines(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseServiceLinesIdempotent(t *testing.T) {
	first := ParseServiceLines("A | b | 10")
	if len(first) != 1 {
		t.Fatalf("expected 1 item, got %d", len(first))
	}
	again := ParseServiceLines(first[0].Name + " — " + first[0].Desc + " — " + first[0].Price)
	if !reflect.DeepEqual(first, again) {
		t.Errorf("re-parse changed result: %v vs %v", first, again)
	}
}

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"semicolons", "Hero; About; Contact", []string{"Hero", "About", "Contact"}},
		{"commas", "Hero, About,Contact", []string{"Hero", "About", "Contact"}},
		{"mixed with empties", "Hero;; , About", []string{"Hero", "About"}},
		{"duplicates kept", "Hero, Hero", []string{"Hero", "Hero"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSections(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSections(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
