package bot

import (
	"strings"
	"testing"

	"github.com/siteforge/intake-system/internal/core/domain"
)

func TestChunks(t *testing.T) {
	if got := chunks("short"); len(got) != 1 || got[0] != "short" {
		t.Errorf("chunks(short) = %v", got)
	}

	long := strings.Repeat("я", messageChunkSize+10)
	parts := chunks(long)
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if joined := strings.Join(parts, ""); joined != long {
		t.Error("chunks lost content")
	}
	// Splits must never land mid-rune.
	for i, p := range parts {
		if !strings.HasPrefix(p, "я") {
			t.Errorf("part %d starts mid-rune", i)
		}
	}
}

func TestEsc(t *testing.T) {
	if got := esc("<b>&"); got != "&lt;b&gt;&amp;" {
		t.Errorf("esc = %q", got)
	}
	if got := esc(""); got != "—" {
		t.Errorf("esc(empty) = %q", got)
	}
}

func TestFallback(t *testing.T) {
	if got := fallback("  ", "alt"); got != "alt" {
		t.Errorf("fallback = %q", got)
	}
	if got := fallback("value", "alt"); got != "value" {
		t.Errorf("fallback = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate(strings.Repeat("я", 100), 10)
	if n := len([]rune(got)); n != 10 {
		t.Errorf("truncated to %d runes, want 10", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("cut not marked: %q", got)
	}
}

func TestRenderAdminRequestLineCapsLongNames(t *testing.T) {
	req := &domain.Request{
		ID:     "REQ-00000002",
		Client: domain.ClientInfo{Name: strings.Repeat("N", 500)},
		Status: domain.StatusNew,
	}
	line := renderAdminRequestLine(req, strings.Repeat("M", 500))
	if n := len([]rune(line)); n > 200 {
		t.Errorf("line is %d runes, free-form names must be capped", n)
	}
	if !strings.Contains(line, "…") {
		t.Error("capped names should carry an ellipsis")
	}
}

func TestRenderRequestCard(t *testing.T) {
	req := &domain.Request{
		ID:     "REQ-00000001",
		Client: domain.ClientInfo{Name: "Jane <script>", Company: "Doe Nails", Contact: "+49 151"},
		Site: domain.SiteSpec{
			Company:   "Doe Nails Studio",
			Structure: []string{"Hero", "Contacts"},
			Services:  []domain.ServiceItem{{Name: "Manicure", Desc: "classic", Price: "25"}, {Name: "Pedicure"}},
		},
		Status: domain.StatusNew,
	}

	private := renderRequestCard(req, true)
	if !strings.Contains(private, "Jane &lt;script&gt;") {
		t.Error("client name not escaped")
	}
	if !strings.Contains(private, "Hero, Contacts") {
		t.Error("structure not joined")
	}
	if !strings.Contains(private, "• Manicure — classic — 25") {
		t.Errorf("service line missing:\n%s", private)
	}
	if !strings.Contains(private, "• Pedicure") {
		t.Error("name-only service missing")
	}

	public := renderRequestCard(req, false)
	if strings.Contains(public, "Jane") || strings.Contains(public, "+49 151") {
		t.Error("client block leaked into the restricted card")
	}
	if !strings.Contains(public, "Doe Nails Studio") {
		t.Error("site block missing from the restricted card")
	}
}
