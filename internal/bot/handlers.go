package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/siteforge/intake-system/internal/core/domain"
	"github.com/siteforge/intake-system/internal/core/ports"
	"github.com/siteforge/intake-system/internal/form"
)

func (b *Bot) onStart(ctx context.Context, ev event) error {
	role, err := b.users.NormalizeRole(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	b.setCommandsFor(ev.chatID, role)

	greeting := msgGreetGuest
	switch role {
	case domain.RoleAdmin:
		greeting = msgGreetAdmin
	case domain.RoleManager:
		greeting = msgGreetManager
	}
	return b.sendKeyboard(ev.chatID, greeting, roleKeyboard(role))
}

func (b *Bot) onRegister(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if actor.Role == domain.RoleAdmin {
		return b.sendText(ev.chatID, msgAdminModeFirst)
	}
	if actor.User != nil {
		// A registered identity pressing register is switched back to
		// manager, whatever stale role it carried.
		if err := b.users.SetRole(ctx, ev.userID, domain.RoleManager); err != nil {
			return b.sendText(ev.chatID, msgStorageRetry)
		}
		b.setCommandsFor(ev.chatID, domain.RoleManager)
		return b.sendKeyboard(ev.chatID, msgAlreadyRegistered, managerKeyboard())
	}

	res := b.engine.Start(ev.userID, form.FormRegistration)
	return b.sendKeyboard(ev.chatID, res.Prompt, formKeyboard())
}

func (b *Bot) onNewRequest(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if actor.User == nil {
		return b.sendText(ev.chatID, msgRegisterFirst)
	}
	if actor.Role != domain.RoleManager && actor.Role != domain.RoleAdmin {
		return b.sendText(ev.chatID, msgManagersOnly)
	}

	res := b.engine.Start(ev.userID, form.FormIntake)
	return b.sendKeyboard(ev.chatID, res.Prompt, formKeyboard())
}

func (b *Bot) onMyRequests(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}

	page, err := b.requests.ListOwn(ctx, *actor, 1)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	if page.Window.Total == 0 {
		return b.sendText(ev.chatID, msgNoRequestsYet)
	}
	return b.sendInline(ev.chatID, msgYourRequests, requestListMarkup(page.Items, page.Window))
}

func (b *Bot) onAdminLogin(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if actor.Role == domain.RoleAdmin {
		return b.sendText(ev.chatID, msgAlreadyAdmin)
	}

	res := b.engine.Start(ev.userID, form.FormAdminLogin)
	return b.sendKeyboard(ev.chatID, res.Prompt, formKeyboard())
}

func (b *Bot) onAdminLogout(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if actor.Role != domain.RoleAdmin {
		return b.sendText(ev.chatID, msgNotAdminMode)
	}
	if err := b.users.Logout(ctx, ev.userID); err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	b.setCommandsFor(ev.chatID, domain.RoleManager)
	return b.sendKeyboard(ev.chatID, msgAdminLeft, managerKeyboard())
}

func (b *Bot) onAdminPanel(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	summary, err := b.requests.Summary(ctx, *actor)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.sendText(ev.chatID, renderSummary(summary.Users, summary.Requests))
}

func (b *Bot) onAdminUsers(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	users, err := b.users.ListUsers(ctx, *actor)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	if len(users) == 0 {
		return b.sendText(ev.chatID, msgNoUsersYet)
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, renderUserLine(u))
	}
	for _, part := range chunks(strings.Join(lines, "\n")) {
		if err := b.sendText(ev.chatID, part); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) onAdminRequests(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	page, err := b.requests.ListAll(ctx, *actor, 1)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	if page.Window.Total == 0 {
		return b.sendText(ev.chatID, msgNoRequestsAtAll)
	}
	// Long pages overflow Telegram's message limit; the inline keyboard
	// rides on the last chunk.
	parts := chunks(b.renderAdminRequestList(ctx, page))
	for _, part := range parts[:len(parts)-1] {
		if err := b.sendText(ev.chatID, part); err != nil {
			return err
		}
	}
	return b.sendInline(ev.chatID, parts[len(parts)-1],
		requestListMarkup(page.Items, page.Window))
}

// renderAdminRequestList builds the admin page body: one line per request
// with the owning manager's name resolved when the record still exists.
func (b *Bot) renderAdminRequestList(ctx context.Context, page *ports.RequestPage) string {
	lines := make([]string, 0, len(page.Items)+1)
	lines = append(lines, msgChooseRequest)
	for _, r := range page.Items {
		manager := r.ManagerID
		if u, err := b.users.FindUser(ctx, r.ManagerID); err == nil {
			manager = u.FullName()
		}
		lines = append(lines, renderAdminRequestLine(r, manager))
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) onExportRequest(ctx context.Context, ev event) error {
	if ev.args == "" {
		return b.sendText(ev.chatID, msgExportUsage)
	}
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	file, err := b.requests.Export(ctx, *actor, ev.args)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.sendDocument(ev.chatID, file)
}

func (b *Bot) onExportAll(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	file, err := b.requests.ExportAll(ctx, *actor)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return b.sendText(ev.chatID, msgNothingToExport)
		}
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.sendDocument(ev.chatID, file)
}

func (b *Bot) onExitForm(ctx context.Context, ev event) error {
	if _, active := b.engine.Active(ev.userID); !active {
		return b.sendText(ev.chatID, msgNoActiveForm)
	}
	b.engine.Exit(ev.userID)

	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	// Exit resets the role context to manager; unregistered identities
	// stay guests.
	role := domain.RoleGuest
	if actor.User != nil {
		role = domain.RoleManager
		if err := b.users.SetRole(ctx, ev.userID, domain.RoleManager); err != nil {
			return b.sendText(ev.chatID, msgStorageRetry)
		}
	}
	b.setCommandsFor(ev.chatID, role)
	return b.sendKeyboard(ev.chatID, msgFormClosed, roleKeyboard(role))
}

func (b *Bot) onFormBack(ctx context.Context, ev event) error {
	res := b.engine.Back(ev.userID)
	if res.NoOp && res.Form == "" {
		return b.sendText(ev.chatID, res.Prompt)
	}
	return b.sendKeyboard(ev.chatID, res.Prompt, formKeyboard())
}

// onFormInput feeds one message into the active form and, at a terminal
// step, commits the buffered fields through the owning service.
func (b *Bot) onFormInput(ctx context.Context, ev event) error {
	res := b.engine.Handle(ev.userID, ev.text)
	if res.NoOp {
		return b.sendText(ev.chatID, res.Prompt)
	}
	if !res.Done {
		return b.sendText(ev.chatID, res.Prompt)
	}

	switch res.Form {
	case form.FormRegistration:
		return b.completeRegistration(ctx, ev, res.Fields)
	case form.FormIntake:
		return b.completeIntake(ctx, ev, res.Fields)
	case form.FormAdminLogin:
		return b.completeAdminLogin(ctx, ev, res.Fields)
	case form.FormFieldEdit:
		return b.completeFieldEdit(ctx, ev, res)
	default:
		return nil
	}
}

func (b *Bot) completeRegistration(ctx context.Context, ev event, fields map[string]string) error {
	age, _ := strconv.Atoi(fields[string(form.StepAge)])
	_, err := b.users.RegisterManager(ctx, ports.RegisterInput{
		TelegramID: ev.userID,
		FirstName:  fields[string(form.StepFirstName)],
		LastName:   fields[string(form.StepLastName)],
		Age:        age,
		Contact:    fields[string(form.StepContact)],
	})
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return b.sendText(ev.chatID, userMessage(err))
	}

	b.setCommandsFor(ev.chatID, domain.RoleManager)
	text := msgRegistered
	if errors.Is(err, domain.ErrUserExists) {
		text = msgAlreadyRegistered
	}
	return b.sendKeyboard(ev.chatID, text, managerKeyboard())
}

func (b *Bot) completeIntake(ctx context.Context, ev event, fields map[string]string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}

	client, site := form.BuildIntakePayload(fields)
	if _, err := b.requests.Create(ctx, ports.CreateRequestInput{
		Actor:  *actor,
		Client: client,
		Site:   site,
	}); err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.sendKeyboard(ev.chatID, msgRequestSaved, roleKeyboard(actor.Role))
}

func (b *Bot) completeAdminLogin(ctx context.Context, ev event, fields map[string]string) error {
	secret := fields[string(form.StepAdminPassword)]
	if err := b.users.ElevateAdmin(ctx, ev.userID, secret); err != nil {
		if errors.Is(err, domain.ErrBadSecret) {
			role, _ := b.users.NormalizeRole(ctx, ev.userID)
			return b.sendKeyboard(ev.chatID, msgWrongPassword, roleKeyboard(role))
		}
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	b.setCommandsFor(ev.chatID, domain.RoleAdmin)
	return b.sendKeyboard(ev.chatID, msgAdminEnabled, adminKeyboard())
}

func (b *Bot) completeFieldEdit(ctx context.Context, ev event, res form.Result) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}

	value := res.Fields[string(form.StepFieldValue)]
	if err := b.requests.PatchField(ctx, *actor, res.RequestID, res.Field, value); err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	if err := b.sendKeyboard(ev.chatID, msgFieldSaved, roleKeyboard(actor.Role)); err != nil {
		return err
	}
	return b.sendRequestCard(ctx, ev.chatID, *actor, res.RequestID)
}

// --- callback handlers ---

func (b *Bot) onOpenRequest(ctx context.Context, ev event, id string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	req, err := b.requests.Get(ctx, *actor, id)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}

	canMutate := b.canMutate(*actor, req)
	return b.editInline(ev.chatID, ev.messageID,
		renderRequestCard(req, canMutate),
		requestCardMarkup(req.ID, canMutate, canMutate && b.generateEnabled))
}

func (b *Bot) onEditMenu(ctx context.Context, ev event, id string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if _, err := b.requests.Get(ctx, *actor, id); err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.editInline(ev.chatID, ev.messageID, msgChooseField, editFieldsMarkup(id))
}

func (b *Bot) onEditField(ctx context.Context, ev event, id, field string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if _, err := b.requests.Get(ctx, *actor, id); err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}

	res := b.engine.StartFieldEdit(ev.userID, id, field)
	return b.sendKeyboard(ev.chatID, res.Prompt, formKeyboard())
}

func (b *Bot) onDeleteRequest(ctx context.Context, ev event, id string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if err := b.requests.Delete(ctx, *actor, id); err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.editInline(ev.chatID, ev.messageID, msgRequestDeleted,
		tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ To the list", cbBackToList),
		)))
}

func (b *Bot) onExportOne(ctx context.Context, ev event, id string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	file, err := b.requests.Export(ctx, *actor, id)
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	return b.sendDocument(ev.chatID, file)
}

func (b *Bot) onGenerateSite(ctx context.Context, ev event, id string) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	if err := b.requests.GenerateSite(ctx, *actor, id, ev.chatID); err != nil {
		if isDomainError(err) {
			return b.sendText(ev.chatID, userMessage(err))
		}
		return b.sendText(ev.chatID, msgGenerateWarn)
	}
	return b.sendText(ev.chatID, msgGenerateQueued)
}

func (b *Bot) onListPage(ctx context.Context, ev event, rawPage string) error {
	page, err := strconv.Atoi(rawPage)
	if err != nil {
		return nil
	}
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	return b.showListPage(ctx, ev, *actor, page)
}

func (b *Bot) onBackToList(ctx context.Context, ev event) error {
	actor, err := b.users.ResolveActor(ctx, ev.userID)
	if err != nil {
		return b.sendText(ev.chatID, msgStorageRetry)
	}
	return b.showListPage(ctx, ev, *actor, 1)
}

// showListPage redraws the request list in place. Admins page through the
// global list, managers through their own.
func (b *Bot) showListPage(ctx context.Context, ev event, actor ports.Actor, page int) error {
	var (
		listing *ports.RequestPage
		err     error
	)
	if actor.Role == domain.RoleAdmin {
		listing, err = b.requests.ListAll(ctx, actor, page)
	} else {
		listing, err = b.requests.ListOwn(ctx, actor, page)
	}
	if err != nil {
		return b.sendText(ev.chatID, userMessage(err))
	}
	if listing.Window.Total == 0 {
		return b.editText(ev.chatID, ev.messageID, msgNoRequestsYet)
	}

	text := msgYourRequests
	if actor.Role == domain.RoleAdmin {
		// Edited messages cannot be split, so the body is capped instead.
		text = truncate(b.renderAdminRequestList(ctx, listing), messageChunkSize)
	}
	return b.editInline(ev.chatID, ev.messageID, text,
		requestListMarkup(listing.Items, listing.Window))
}

// sendRequestCard pushes a fresh card message for the request.
func (b *Bot) sendRequestCard(ctx context.Context, chatID int64, actor ports.Actor, id string) error {
	req, err := b.requests.Get(ctx, actor, id)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	canMutate := b.canMutate(actor, req)
	return b.sendInline(chatID, renderRequestCard(req, canMutate),
		requestCardMarkup(req.ID, canMutate, canMutate && b.generateEnabled))
}

func (b *Bot) canMutate(actor ports.Actor, req *domain.Request) bool {
	var policy domain.AccessPolicy
	isOwner := actor.UserID() != "" && req.ManagerID == actor.UserID()
	return policy.Can(actor.Role, domain.ActionEditRequest, isOwner)
}
