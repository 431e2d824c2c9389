// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/service"
)

// Plain text messages.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Available commands:\n\n/list - browse countries\n/search TERM - find a country or capital\n/quiz - quiz yourself on memorized countries\n/hint COUNTRY - get a memory cue\n/help - help"
	msgUseSearch        = "Use: /search TERM, for example /search par"
	msgUseHint          = "Use: /hint COUNTRY, for example /hint France"
	msgNothingFound     = "Nothing found. Try another search term."
	msgCountryNotFound  = "Unknown country. Check the spelling or find it with /search."
	msgHintsDisabled    = "Memory cues are not available right now."
	msgHintLoading      = "💭 Thinking of a memory cue..."
	msgHintFailed       = "😔 Could not come up with a memory cue. Please try again."
	msgHintEmpty        = "🤷 No memory cue this time. Please try again."
	msgQuizExpired      = "This quiz is no longer active. Use /quiz to start a new one."
	msgResetConfirm     = "Forget all memorized countries and drop the current quiz?"
	msgResetDone        = "Done. Your memorized list is empty."
	msgResetCancelled   = "Reset cancelled."
	msgAlreadyAnswered  = "Already answered"
	msgChooseAnswerHint = "Choose an answer first"
	msgSubmitFirst      = "Submit your answer first"
)

const itemsPerPage = 8

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.ReplyMarkup = kb
	return edit
}

// welcomeMessage builds the /start greeting safely for MarkdownV2.
func welcomeMessage(memorized int) string {
	var sb strings.Builder

	sb.WriteString(bold("🌍 GeoQuiz"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Learn the capitals of the world, one country at a time."))
	sb.WriteString("\n\n")
	sb.WriteString(md("1. Open /list and tick the countries you already know."))
	sb.WriteString("\n")
	sb.WriteString(md("2. Start a /quiz to check yourself on them."))
	sb.WriteString("\n")
	sb.WriteString(md("3. Stuck on a capital? Ask for a /hint."))
	sb.WriteString("\n\n")

	if memorized > 0 {
		sb.WriteString(md(fmt.Sprintf("You have %d memorized countries.", memorized)))
	} else {
		sb.WriteString(md("You have not memorized any countries yet."))
	}

	return sb.String()
}

func helpMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	sb.WriteString(md("/list - browse all countries and mark the ones you know"))
	sb.WriteString("\n")
	sb.WriteString(md("/search TERM - find countries by name or capital"))
	sb.WriteString("\n")
	sb.WriteString(md("/quiz - quiz yourself on memorized countries"))
	sb.WriteString("\n")
	sb.WriteString(md("/hint COUNTRY - get a memory cue for a capital"))
	sb.WriteString("\n")
	sb.WriteString(md("/reset - forget all memorized countries"))

	return sb.String()
}

// formatCatalogPage renders one page of the catalog listing.
func formatCatalogPage(items []service.CatalogItem, page, totalPages, memorizedCount int, term string) string {
	var sb strings.Builder

	sb.WriteString(bold("🌍 Countries"))
	if term != "" {
		sb.WriteString(md(" matching "))
		sb.WriteString(italic(term))
	}
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Memorized: %d · Page %d/%d", memorizedCount, page+1, totalPages)))
	sb.WriteString("\n\n")

	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(md(memorizedMark(item.Memorized) + " "))
		sb.WriteString(bold(item.Entity.SubjectName))
		sb.WriteString(md(" - " + item.Entity.CorrectValue))
	}

	return sb.String()
}

func memorizedMark(memorized bool) string {
	if memorized {
		return "✅"
	}
	return "▫️"
}

// formatQuizQuestion formats the current quiz question.
func formatQuizQuestion(session *entities.QuizSession) string {
	q, err := session.CurrentQuestion()
	if err != nil {
		return md(msgQuizExpired)
	}

	return fmt.Sprintf(
		"%s\n\n%s %s%s",
		md(fmt.Sprintf("Question %d of %d · Score %d", session.CurrentIndex+1, session.Total(), session.Score)),
		md("What is the capital of"),
		bold(q.SubjectName),
		md("?"),
	)
}

// formatAnswerFeedback formats feedback for a submitted answer.
func formatAnswerFeedback(session *entities.QuizSession, correct bool) string {
	q, err := session.CurrentQuestion()
	if err != nil {
		return md(msgQuizExpired)
	}

	var verdict string
	if correct {
		verdict = md("✅ Correct!")
	} else {
		verdict = fmt.Sprintf("%s %s", md("❌ Wrong. The answer is"), bold(q.CorrectValue))
	}

	return fmt.Sprintf(
		"%s\n\n%s %s%s\n%s %s\n\n%s",
		md(fmt.Sprintf("Question %d of %d · Score %d", session.CurrentIndex+1, session.Total(), session.Score)),
		md("What is the capital of"),
		bold(q.SubjectName),
		md("?"),
		md("Your answer:"),
		bold(session.Selected),
		verdict,
	)
}

// formatQuizResult formats quiz results.
func formatQuizResult(result entities.QuizResult) string {
	emoji, message := "📚", "Keep practising, you will get there!"
	switch {
	case result.Percentage >= 90:
		emoji, message = "🌟", "Excellent work!"
	case result.Percentage >= 70:
		emoji, message = "👍", "Good result!"
	case result.Percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	return fmt.Sprintf(
		"%s %s\n\n%s %s\n%s\n\n%s",
		md(emoji),
		bold("Quiz complete!"),
		md("Score:"),
		bold(fmt.Sprintf("%d/%d (%d%%)", result.Score, result.Total, result.Percentage)),
		md(buildProgressBar(result.Score, result.Total, 10)),
		md(message),
	)
}

func formatNoContent() string {
	return fmt.Sprintf(
		"%s\n\n%s",
		bold("No memorized countries yet"),
		md("Mark some countries as memorized in /list, then start the quiz again."),
	)
}

// formatHint formats a generated memory cue.
func formatHint(entity *entities.Entity, hint entities.Hint) string {
	return fmt.Sprintf(
		"%s %s %s %s\n\n%s",
		md("💡"),
		bold(entity.SubjectName),
		md("→"),
		bold(entity.CorrectValue),
		italic(hint.Cue),
	)
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
