// Package export builds the canonical JSON projection of a request, for both
// single-file export and the bulk ZIP bundle. Bundles are assembled fully in
// memory before being handed to the transport.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/siteforge/intake-system/internal/core/domain"
)

const ArchiveName = "requests_export.zip"

// canonical is the fixed export shape shared by single and bulk export.
type canonical struct {
	RequestID string            `json:"request_id"`
	ManagerID string            `json:"manager_id"`
	Client    domain.ClientInfo `json:"client"`
	Site      domain.SiteSpec   `json:"site"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

func project(r *domain.Request) canonical {
	return canonical{
		RequestID: r.ID,
		ManagerID: r.ManagerID,
		Client:    r.Client,
		Site:      r.Site,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

// FileName returns the export file name for a request id.
func FileName(id string) string {
	return fmt.Sprintf("request_%s.json", id)
}

// Single serializes one request as an indented canonical JSON document.
func Single(r *domain.Request) ([]byte, error) {
	return json.MarshalIndent(project(r), "", "  ")
}

// Archive bundles one canonical JSON entry per request into a ZIP built in
// memory. Entry order follows input order.
func Archive(requests []*domain.Request) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, r := range requests {
		data, err := Single(r)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", r.ID, err)
		}
		w, err := zw.Create(FileName(r.ID))
		if err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", r.ID, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("archive write %s: %w", r.ID, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
