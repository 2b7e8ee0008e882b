package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/siteforge/intake-system/internal/core/domain"
)

func sampleRequest(id string) *domain.Request {
	return &domain.Request{
		ID:        id,
		ManagerID: "USR-0000000A",
		Client:    domain.ClientInfo{Name: "Jane", Company: "Doe Nails", Contact: "+49 151"},
		Site: domain.SiteSpec{
			Company:   "Doe Nails Studio",
			Structure: []string{"Hero", "Contacts"},
			Services:  []domain.ServiceItem{{Name: "Manicure", Desc: "classic", Price: "25"}},
			Extra:     map[string]string{"seo_keywords": "nails"},
		},
		Status:    domain.StatusNew,
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestSingle(t *testing.T) {
	data, err := Single(sampleRequest("REQ-00000001"))
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"request_id", "manager_id", "client", "site", "status", "created_at"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, leaked := m["id"]; leaked {
		t.Error("internal id key must not appear in the export")
	}

	site, ok := m["site"].(map[string]any)
	if !ok {
		t.Fatal("site is not an object")
	}
	if site["seo_keywords"] != "nails" {
		t.Errorf("extra key lost in export: %v", site)
	}

	client, ok := m["client"].(map[string]any)
	if !ok {
		t.Fatal("client is not an object")
	}
	if client["name"] != "Jane" {
		t.Errorf("client name = %v", client["name"])
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("REQ-0000002A"); got != "request_REQ-0000002A.json" {
		t.Errorf("FileName = %q", got)
	}
}

func TestArchive(t *testing.T) {
	reqs := []*domain.Request{sampleRequest("REQ-00000001"), sampleRequest("REQ-00000002")}

	data, err := Archive(reqs)
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	if len(zr.File) != len(reqs) {
		t.Fatalf("entries = %d, want %d", len(zr.File), len(reqs))
	}

	for i, f := range zr.File {
		if want := FileName(reqs[i].ID); f.Name != want {
			t.Errorf("entry %d name = %q, want %q", i, f.Name, want)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]any
		if err := json.Unmarshal(body, &m); err != nil {
			t.Errorf("entry %q is not valid JSON: %v", f.Name, err)
		}
		if m["request_id"] != reqs[i].ID {
			t.Errorf("entry %q carries request_id %v", f.Name, m["request_id"])
		}
	}
}
