package domain

import "testing"

func TestNewPageWindow(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		size      int
		wantPage  int
		wantPages int
	}{
		{"exact division", 20, 1, 10, 1, 2},
		{"partial last page", 25, 3, 10, 3, 3},
		{"empty total still one page", 0, 1, 10, 1, 1},
		{"page below range clamps to first", 25, 0, 10, 1, 3},
		{"page above range clamps to last", 25, 99, 10, 3, 3},
		{"negative page clamps to first", 25, -5, 10, 1, 3},
		{"admin page size", 30, 2, GlobalPageSize, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewPageWindow(tt.total, tt.page, tt.size)
			if w.Page != tt.wantPage || w.Pages != tt.wantPages {
				t.Errorf("NewPageWindow(%d, %d, %d) = page %d/%d, want %d/%d",
					tt.total, tt.page, tt.size, w.Page, w.Pages, tt.wantPage, tt.wantPages)
			}
		})
	}
}

func TestPageWindowOffset(t *testing.T) {
	w := NewPageWindow(25, 3, OwnerPageSize)
	if got := w.Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}

func TestPageWindowNavFlags(t *testing.T) {
	first := NewPageWindow(25, 1, 10)
	if first.HasPrev() {
		t.Error("first page should not have prev")
	}
	if !first.HasNext() {
		t.Error("first of three pages should have next")
	}

	last := NewPageWindow(25, 3, 10)
	if !last.HasPrev() {
		t.Error("last page should have prev")
	}
	if last.HasNext() {
		t.Error("last page should not have next")
	}

	only := NewPageWindow(5, 1, 10)
	if only.HasPrev() || only.HasNext() {
		t.Error("single page should have no nav")
	}
}
