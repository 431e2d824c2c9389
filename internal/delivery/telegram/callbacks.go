package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// callbackReply describes how to respond to a callback query. An empty text
// leaves the message as is; toast is shown as a short notification.
type callbackReply struct {
	text  string
	kb    *tgbotapi.InlineKeyboardMarkup
	toast string
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	data := decodeCallback(cb.Data)

	var reply callbackReply
	switch data.Action {
	case actionList:
		reply = h.handleListCallback(ctx, cb, data)
	case actionToggle:
		reply = h.handleToggleCallback(ctx, cb, data)
	case actionQuiz:
		reply = h.handleQuizCallback(ctx, cb, data)
	case actionHint:
		reply = h.handleHintCallback(ctx, cb, data)
	case actionReset:
		reply = h.handleResetCallback(ctx, cb, data)
	case actionNoop:
	default:
		h.logger.Warn("unknown callback action", zap.String("data", cb.Data))
	}

	if reply.text != "" {
		_ = h.send(newEdit(cb.Message.Chat.ID, cb.Message.MessageID, reply.text, reply.kb))
	}

	// Remove the user's "clock".
	h.answerCallback(cb, reply.toast)
}

func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	h.request(tgbotapi.NewCallback(cb.ID, text))
}
