package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// messageChunkSize leaves headroom under Telegram's 4096-char message limit
// for markup.
const messageChunkSize = 3800

// esc HTML-escapes a value for parse_mode=HTML rendering.
func esc(s string) string {
	if s == "" {
		return "—"
	}
	return html.EscapeString(s)
}

func fallback(s, alt string) string {
	if strings.TrimSpace(s) == "" {
		return alt
	}
	return s
}

// chunks splits long text into message-sized pieces.
func chunks(text string) []string {
	runes := []rune(text)
	if len(runes) <= messageChunkSize {
		return []string{text}
	}
	var out []string
	for start := 0; start < len(runes); start += messageChunkSize {
		end := start + messageChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// renderRequestCard formats the full request card. The private client block
// is included only for the owner and admins.
func renderRequestCard(r *domain.Request, showPrivate bool) string {
	var services []string
	for _, s := range r.Site.Services {
		line := "• " + esc(s.Name)
		if s.Desc != "" {
			line += " — " + esc(s.Desc)
		}
		if s.Price != "" {
			line += " — " + esc(s.Price)
		}
		services = append(services, line)
	}
	servicesTxt := "—"
	if len(services) > 0 {
		servicesTxt = strings.Join(services, "\n")
	}

	structureTxt := "—"
	if len(r.Site.Structure) > 0 {
		escaped := make([]string, 0, len(r.Site.Structure))
		for _, s := range r.Site.Structure {
			escaped = append(escaped, esc(s))
		}
		structureTxt = strings.Join(escaped, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Request %s</b>\n", esc(r.ID))
	fmt.Fprintf(&b, "Status: <i>%s</i>\n", esc(r.Status))
	if showPrivate {
		fmt.Fprintf(&b, "Client: <b>%s</b>\n", esc(r.Client.Name))
		fmt.Fprintf(&b, "Client company: %s\n", esc(r.Client.Company))
		fmt.Fprintf(&b, "Client contacts: %s\n", esc(r.Client.Contact))
	}
	b.WriteString("\n<b>For the website</b>\n")
	fmt.Fprintf(&b, "Company name: %s\n", esc(r.Site.Company))
	fmt.Fprintf(&b, "Business type: %s\n", esc(r.Site.BusinessType))
	fmt.Fprintf(&b, "Color palette: %s\n", esc(r.Site.ColorPalette))
	fmt.Fprintf(&b, "Site contacts: %s\n", esc(r.Site.SiteContacts))
	fmt.Fprintf(&b, "Short description: %s\n", esc(r.Site.ShortDesc))
	fmt.Fprintf(&b, "Working hours: %s\n", esc(r.Site.WorkHours))
	fmt.Fprintf(&b, "Structure: %s\n", structureTxt)
	fmt.Fprintf(&b, "Images: %s\n", esc(r.Site.Images))
	fmt.Fprintf(&b, "Services:\n%s", servicesTxt)
	return b.String()
}

func renderUserLine(u *domain.User) string {
	return fmt.Sprintf("%s: <b>%s</b> | %s | age: %d | tg_id: %d | %s",
		esc(u.ID), esc(u.FullName()), esc(u.Contact), u.Age, u.TelegramID,
		u.CreatedAt.Format("2006-01-02 15:04:05"))
}

// listNameLimit caps free-form names in list rows so that a full page of
// rows stays inside one Telegram message.
const listNameLimit = 64

// truncate caps s at max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func renderAdminRequestLine(r *domain.Request, managerName string) string {
	return fmt.Sprintf("%s: <b>%s</b> | manager: %s | %s | %s",
		esc(r.ID), esc(truncate(r.Client.Name, listNameLimit)),
		esc(truncate(managerName, listNameLimit)), esc(r.Status),
		r.CreatedAt.Format("2006-01-02 15:04:05"))
}

func renderSummary(users, requests int64) string {
	return fmt.Sprintf(
		"<b>Admin panel</b>\n\nUsers: <b>%d</b>\nRequests: <b>%d</b>\n\n"+
			"Commands:\n• 👥 Users — list\n• 📦 Requests — list\n"+
			"• /export_request &lt;id&gt; — export one request as JSON\n"+
			"• /export_all — export all requests (ZIP)\n• 🚪 Leave admin",
		users, requests)
}
