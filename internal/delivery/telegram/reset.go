package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleReset asks for confirmation before forgetting everything.
func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) callbackReply {
	switch data.param(0) {
	case resetConfirm:
		if err := h.memorizationService.Clear(ctx, cb.From.ID); err != nil {
			h.logger.Error("failed to clear memorized",
				zap.Int64("user_id", cb.From.ID),
				zap.Error(err),
			)
			return callbackReply{toast: msgInternalError}
		}
		h.quizService.Abandon(cb.From.ID)

		h.logger.Info("user reset", zap.Int64("user_id", cb.From.ID))
		return callbackReply{text: md(msgResetDone)}

	case resetCancel:
		return callbackReply{text: md(msgResetCancelled)}

	default:
		h.logger.Warn("unknown reset callback", zap.String("data", data.Raw))
		return callbackReply{}
	}
}
