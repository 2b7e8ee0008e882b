// Package bot is the Telegram transport: it polls updates, normalizes them
// into events, and drives the form engine and core services per user.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/siteforge/intake-system/internal/core/domain"
	"github.com/siteforge/intake-system/internal/core/ports"
	"github.com/siteforge/intake-system/internal/form"
	"github.com/siteforge/intake-system/internal/infrastructure/db/redis"
	"github.com/siteforge/intake-system/internal/metrics"
	"github.com/siteforge/intake-system/internal/queue"
)

const pollTimeoutSeconds = 30

// Bot wires the Telegram API to the form engine and the core services.
type Bot struct {
	api        *tgbotapi.BotAPI
	engine     *form.Engine
	users      ports.UserService
	requests   ports.RequestService
	dedup      *redis.UpdateDedup // nil disables replay protection
	dispatcher *queue.Dispatcher

	generateEnabled bool
	log             zerolog.Logger
}

type Options struct {
	API             *tgbotapi.BotAPI
	Engine          *form.Engine
	Users           ports.UserService
	Requests        ports.RequestService
	Dedup           *redis.UpdateDedup
	Dispatcher      *queue.Dispatcher
	GenerateEnabled bool
	Logger          zerolog.Logger
}

func New(opts Options) *Bot {
	return &Bot{
		api:             opts.API,
		engine:          opts.Engine,
		users:           opts.Users,
		requests:        opts.Requests,
		dedup:           opts.Dedup,
		dispatcher:      opts.Dispatcher,
		generateEnabled: opts.GenerateEnabled,
		log:             opts.Logger,
	}
}

// Run starts the dispatcher workers and consumes the long-polling update
// stream until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.dispatcher.Start(ctx)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.accept(ctx, update)
		}
	}
}

// accept applies replay protection, then hands the update to the worker
// owning its user shard.
func (b *Bot) accept(ctx context.Context, update tgbotapi.Update) {
	ev, ok := newEvent(update)
	if !ok {
		return
	}

	if b.dedup != nil {
		seen, err := b.dedup.IsDuplicate(ctx, update.UpdateID)
		if err != nil {
			b.log.Warn().Err(err).Int("update_id", update.UpdateID).Msg("dedup check failed")
		} else if seen {
			metrics.UpdatesDedupTotal.WithLabelValues("hit").Inc()
			return
		} else {
			metrics.UpdatesDedupTotal.WithLabelValues("miss").Inc()
			if err := b.dedup.Mark(ctx, update.UpdateID); err != nil {
				b.log.Warn().Err(err).Int("update_id", update.UpdateID).Msg("dedup mark failed")
			}
		}
	}

	metrics.UpdatesProcessedTotal.WithLabelValues(eventKind(ev)).Inc()

	b.dispatcher.Enqueue(queue.Job{
		UserID: ev.userID,
		Run: func(jobCtx context.Context) {
			defer func() {
				if r := recover(); r != nil {
					metrics.UpdateErrorsTotal.WithLabelValues("panic").Inc()
					b.log.Error().Interface("panic", r).Int64("tg_id", ev.userID).Msg("handler panicked")
				}
			}()
			if err := b.dispatch(jobCtx, ev); err != nil {
				metrics.UpdateErrorsTotal.WithLabelValues("handler").Inc()
				b.log.Error().Err(err).Int64("tg_id", ev.userID).Msg("handler failed")
			}
		},
	})
}

func eventKind(ev event) string {
	switch {
	case ev.callback != "":
		return "callback"
	case ev.command != "":
		return "command"
	default:
		return "text"
	}
}

// --- outbound helpers ---

func (b *Bot) send(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error().Err(err).Msg("send failed")
		return err
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return b.send(msg)
}

func (b *Bot) sendKeyboard(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	return b.send(msg)
}

func (b *Bot) sendInline(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	return b.send(msg)
}

// editInline rewrites a previously sent inline message in place. Falls back
// to a fresh message when the original can no longer be edited.
func (b *Bot) editInline(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		return b.sendInline(chatID, text, markup)
	}
	return nil
}

func (b *Bot) editText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		return b.sendText(chatID, text)
	}
	return nil
}

func (b *Bot) sendDocument(chatID int64, file *ports.ExportFile) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: file.Name, Bytes: file.Data})
	return b.send(doc)
}

func (b *Bot) answerCallback(callbackID string) {
	if callbackID == "" {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.log.Warn().Err(err).Msg("answer callback failed")
	}
}

// setCommandsFor replaces the chat-scoped command menu to match the role.
func (b *Bot) setCommandsFor(chatID int64, role string) {
	var commands []tgbotapi.BotCommand
	switch role {
	case domain.RoleAdmin:
		commands = adminCommands
	case domain.RoleManager:
		commands = managerCommands
	default:
		commands = guestCommands
	}
	cfg := tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(chatID), commands...)
	if _, err := b.api.Request(cfg); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("set commands failed")
	}
}
