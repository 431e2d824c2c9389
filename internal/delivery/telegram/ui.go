package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/service"
)

// buildCatalogKeyboard builds toggle buttons for a catalog page, pagination
// and the start quiz button.
func buildCatalogKeyboard(items []service.CatalogItem, page, totalPages, memorizedCount int, term string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, item := range items {
		label := fmt.Sprintf("%s %s", memorizedMark(item.Memorized), item.Entity.SubjectName)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildToggleCallback(item.Entity.ID, page, term)),
		))
	}

	if nav := buildPageRow(page, totalPages, term); nav != nil {
		rows = append(rows, nav)
	}

	if memorizedCount > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🎯 Start quiz (%d memorized)", memorizedCount),
				buildQuizStartCallback(),
			),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildPageRow builds the pagination row, or nil for a single page.
func buildPageRow(page, totalPages int, term string) []tgbotapi.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Back", buildListCallback(page-1, term)))
	}

	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), actionNoop))

	if page < totalPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildListCallback(page+1, term)))
	}

	return row
}

// buildQuestionKeyboard builds option buttons for the current question.
// The selected option is marked and Submit appears once something is selected.
func buildQuestionKeyboard(session *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	q, err := session.CurrentQuestion()
	if err != nil {
		return buildResultKeyboard()
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		label := option
		if session.HasSelection && session.Selected == option {
			label = "🔘 " + option
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizSelectCallback(session.ID, i)),
		))
	}

	if session.HasSelection {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✔️ Submit", buildQuizSubmitCallback(session.ID)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFeedbackKeyboard builds keyboard shown after an answer was submitted.
func buildFeedbackKeyboard(session *entities.QuizSession, hintsEnabled bool) tgbotapi.InlineKeyboardMarkup {
	next := "Next ▶️"
	if session.IsLastQuestion() {
		next = "🏁 Finish"
	}

	row := tgbotapi.NewInlineKeyboardRow()
	if q, err := session.CurrentQuestion(); err == nil && hintsEnabled {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("💡 Memory cue", buildHintCallback(q.EntityID)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(next, buildQuizNextCallback(session.ID)))

	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildResultKeyboard builds keyboard for quiz results screen.
func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Restart quiz", buildQuizRestartCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Countries", buildListCallback(0, "")),
		),
	)
}

// buildNoContentKeyboard points the user back to the catalog.
func buildNoContentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Countries", buildListCallback(0, "")),
		),
	)
}

func buildHintKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Close", buildHintCloseCallback()),
		),
	)
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}
