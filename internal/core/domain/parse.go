package domain

import "strings"

// serviceSeparators folds the three accepted separators (vertical bar,
// spaced hyphen, bare hyphen) into a single canonical em-dash. The spaced
// form is listed before the bare one so it wins where both match.
var serviceSeparators = strings.NewReplacer("|", "—", " - ", " — ", "-", "—")

// ParseServiceLines turns raw multi-line text into an ordered list of service
// items: one item per non-blank line, parts split on the canonical separator,
// trimmed, empties dropped. The first part is the name, the second the
// description, the third the price; anything further is discarded. The
// function is pure and total, and idempotent on already-normalized input.
func ParseServiceLines(text string) []ServiceItem {
	var items []ServiceItem
	for _, line := range strings.Split(text, "\n") {
		var parts []string
		for _, p := range strings.Split(serviceSeparators.Replace(line), "—") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		item := ServiceItem{Name: parts[0]}
		if len(parts) > 1 {
			item.Desc = parts[1]
		}
		if len(parts) > 2 {
			item.Price = parts[2]
		}
		items = append(items, item)
	}
	return items
}

// SplitSections splits a comma/semicolon-delimited section list into a
// trimmed, order-preserving slice. Duplicates are kept; empties are dropped.
func SplitSections(raw string) []string {
	var out []string
	for _, part := range strings.Split(strings.ReplaceAll(raw, ";", ","), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
