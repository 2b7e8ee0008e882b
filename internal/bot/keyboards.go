package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/siteforge/intake-system/internal/core/domain"
)

func guestKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRegister),
			tgbotapi.NewKeyboardButton(btnAdminLogin),
		),
	)
}

func managerKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnNewRequest)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMyRequests)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnResetForm),
			tgbotapi.NewKeyboardButton(btnAdminLogin),
		),
	)
}

func adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnPanel)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnUsers),
			tgbotapi.NewKeyboardButton(btnRequests),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnAdminLogout)),
	)
}

func formKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
			tgbotapi.NewKeyboardButton(btnExitForm),
		),
	)
}

func roleKeyboard(role string) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case domain.RoleAdmin:
		return adminKeyboard()
	case domain.RoleManager:
		return managerKeyboard()
	default:
		return guestKeyboard()
	}
}

// requestListMarkup renders one page of requests as inline buttons plus the
// pagination controls: previous only when a previous page exists, a position
// indicator always, next only when a next page exists.
func requestListMarkup(items []*domain.Request, window domain.PageWindow) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range items {
		title := fmt.Sprintf("%s — %s", r.ID, fallback(r.Client.Name, "No name"))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, cbOpen+r.ID),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if window.HasPrev() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("« Prev", cbListPage+strconv.Itoa(window.Page-1)))
	}
	// The indicator is inert: its payload never parses as a page number.
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d/%d", window.Page, window.Pages), cbListPage+"current"))
	if window.HasNext() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next »", cbListPage+strconv.Itoa(window.Page+1)))
	}
	rows = append(rows, nav)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func requestCardMarkup(id string, canMutate, canGenerate bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if canMutate {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", cbEdit+id),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbDelete+id),
		))
	}
	exportRow := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬇️ Export JSON", cbExportOne+id),
	}
	if canGenerate {
		exportRow = append(exportRow, tgbotapi.NewInlineKeyboardButtonData("🚀 Generate site", cbGenerate+id))
	}
	rows = append(rows, exportRow)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ To the list", cbBackToList),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func editFieldsMarkup(id string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, f := range domain.EditableFields {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(f.Title, cbEditField+id+"_"+f.Name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbOpen+id),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
