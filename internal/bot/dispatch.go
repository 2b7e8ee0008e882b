package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// event is the normalized inbound update: one of a text message or a
// callback press, always with the identity it came from.
type event struct {
	userID    int64
	chatID    int64
	messageID int

	text    string
	command string
	args    string

	callback   string // callback payload, "" for plain messages
	callbackID string
}

// newEvent extracts the routed fields from a raw update. Updates with no
// usable message or callback yield ok=false and are dropped.
func newEvent(u tgbotapi.Update) (event, bool) {
	switch {
	case u.CallbackQuery != nil:
		cb := u.CallbackQuery
		ev := event{
			userID:     cb.From.ID,
			callback:   cb.Data,
			callbackID: cb.ID,
		}
		if cb.Message != nil {
			ev.chatID = cb.Message.Chat.ID
			ev.messageID = cb.Message.MessageID
		}
		return ev, true
	case u.Message != nil && u.Message.From != nil:
		m := u.Message
		ev := event{
			userID:    m.From.ID,
			chatID:    m.Chat.ID,
			messageID: m.MessageID,
			text:      m.Text,
		}
		if m.IsCommand() {
			ev.command = m.Command()
			ev.args = strings.TrimSpace(m.CommandArguments())
		}
		return ev, true
	default:
		return event{}, false
	}
}

// dispatch routes one event through the precedence ladder: callback presses
// first, then the form escape hatches, then input into an active form, and
// only then the command and button tables. First match wins.
func (b *Bot) dispatch(ctx context.Context, ev event) error {
	if ev.callback != "" {
		return b.handleCallback(ctx, ev)
	}

	if ev.text == btnExitForm || ev.command == "reset" || ev.command == "cancel" || ev.text == btnResetForm {
		return b.onExitForm(ctx, ev)
	}
	if ev.text == btnBack {
		return b.onFormBack(ctx, ev)
	}
	if _, active := b.engine.Active(ev.userID); active {
		return b.onFormInput(ctx, ev)
	}

	if ev.command != "" {
		return b.dispatchCommand(ctx, ev)
	}
	return b.dispatchButton(ctx, ev)
}

func (b *Bot) dispatchCommand(ctx context.Context, ev event) error {
	switch ev.command {
	case "start":
		return b.onStart(ctx, ev)
	case "register":
		return b.onRegister(ctx, ev)
	case "new_request":
		return b.onNewRequest(ctx, ev)
	case "my_requests":
		return b.onMyRequests(ctx, ev)
	case "admin_login":
		return b.onAdminLogin(ctx, ev)
	case "logout":
		return b.onAdminLogout(ctx, ev)
	case "admin_panel":
		return b.onAdminPanel(ctx, ev)
	case "admin_users":
		return b.onAdminUsers(ctx, ev)
	case "admin_requests":
		return b.onAdminRequests(ctx, ev)
	case "export_request":
		return b.onExportRequest(ctx, ev)
	case "export_all":
		return b.onExportAll(ctx, ev)
	default:
		return nil
	}
}

func (b *Bot) dispatchButton(ctx context.Context, ev event) error {
	switch ev.text {
	case btnRegister:
		return b.onRegister(ctx, ev)
	case btnNewRequest:
		return b.onNewRequest(ctx, ev)
	case btnMyRequests:
		return b.onMyRequests(ctx, ev)
	case btnAdminLogin:
		return b.onAdminLogin(ctx, ev)
	case btnAdminLogout:
		return b.onAdminLogout(ctx, ev)
	case btnPanel:
		return b.onAdminPanel(ctx, ev)
	case btnUsers:
		return b.onAdminUsers(ctx, ev)
	case btnRequests:
		return b.onAdminRequests(ctx, ev)
	default:
		return nil
	}
}

// handleCallback answers the press, then routes on the data prefix.
func (b *Bot) handleCallback(ctx context.Context, ev event) error {
	b.answerCallback(ev.callbackID)

	data := ev.callback
	switch {
	case strings.HasPrefix(data, cbOpen):
		return b.onOpenRequest(ctx, ev, strings.TrimPrefix(data, cbOpen))
	case strings.HasPrefix(data, cbEditField):
		rest := strings.TrimPrefix(data, cbEditField)
		id, field, ok := splitEditFieldPayload(rest)
		if !ok {
			return nil
		}
		return b.onEditField(ctx, ev, id, field)
	case strings.HasPrefix(data, cbEdit):
		return b.onEditMenu(ctx, ev, strings.TrimPrefix(data, cbEdit))
	case strings.HasPrefix(data, cbDelete):
		return b.onDeleteRequest(ctx, ev, strings.TrimPrefix(data, cbDelete))
	case strings.HasPrefix(data, cbExportOne):
		return b.onExportOne(ctx, ev, strings.TrimPrefix(data, cbExportOne))
	case strings.HasPrefix(data, cbGenerate):
		return b.onGenerateSite(ctx, ev, strings.TrimPrefix(data, cbGenerate))
	case strings.HasPrefix(data, cbListPage):
		return b.onListPage(ctx, ev, strings.TrimPrefix(data, cbListPage))
	case data == cbBackToList:
		return b.onBackToList(ctx, ev)
	default:
		return nil
	}
}

// splitEditFieldPayload decodes "<id>_<field>". Request ids contain no
// underscore after the REQ- prefix, so the first underscore is the divider.
func splitEditFieldPayload(rest string) (id, field string, ok bool) {
	i := strings.Index(rest, "_")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
