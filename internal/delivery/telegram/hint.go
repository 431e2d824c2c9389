package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/repository"
	"github.com/aliskhannn/geoquiz-bot/internal/service"
)

// handleHintCommand requests a memory cue for a country given by name.
func (h *Handler) handleHintCommand(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := searchTermFromArgs(args)
		if name == "" {
			return h.send(newPlainMessage(chatID, msgUseHint))
		}

		entity, err := h.catalogService.FindBySubject(ctx, name)
		if err == nil {
			return h.requestHint(ctx, chatID, userID, entity.ID)
		}
		if !errors.Is(err, repository.ErrEntityNotFound) {
			return err
		}

		// Fall back to a partial match when it is unambiguous.
		listing, err := h.catalogService.List(ctx, userID, name)
		if err != nil {
			return err
		}
		if len(listing.Items) != 1 {
			return h.send(newPlainMessage(chatID, msgCountryNotFound))
		}

		return h.requestHint(ctx, chatID, userID, listing.Items[0].Entity.ID)
	}
}

// requestHint sends a placeholder and fills it in once the cue arrives.
// Closing the placeholder first discards the cue.
func (h *Handler) requestHint(ctx context.Context, chatID, userID int64, entityID string) error {
	if !h.hintService.Enabled() {
		return h.send(newPlainMessage(chatID, msgHintsDisabled))
	}

	placeholder := newPlainMessage(chatID, msgHintLoading)
	placeholder.ReplyMarkup = buildHintKeyboard()

	sent, err := h.sendMessage(placeholder)
	if err != nil {
		return err
	}

	key := strconv.Itoa(sent.MessageID)

	h.hints.Add(1)
	go func() {
		defer h.hints.Done()

		entity, hint, err := h.hintService.Request(ctx, userID, entityID, key)
		if ctx.Err() != nil || errors.Is(err, service.ErrHintDiscarded) {
			return
		}

		kb := buildHintKeyboard()
		var text string
		switch {
		case errors.Is(err, service.ErrHintUnavailable):
			text = md(msgHintsDisabled)
		case err != nil:
			h.logger.Warn("memory cue request failed",
				zap.Int64("user_id", userID),
				zap.String("entity_id", entityID),
				zap.Error(err),
			)
			text = md(msgHintFailed)
		case hint.Cue == "":
			text = md(msgHintEmpty)
		default:
			text = formatHint(entity, hint)
		}

		_ = h.send(newEdit(chatID, sent.MessageID, text, &kb))
	}()

	return nil
}

func (h *Handler) handleHintCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) callbackReply {
	chatID := cb.Message.Chat.ID

	switch data.param(0) {
	case hintShow:
		entityID := data.param(1)
		if entityID == "" {
			return callbackReply{}
		}
		_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
			return h.requestHint(ctx, chatID, cb.From.ID, entityID)
		})(ctx, chatID)

	case hintClose:
		h.hintService.Dismiss(cb.From.ID, strconv.Itoa(cb.Message.MessageID))
		h.request(tgbotapi.NewDeleteMessage(chatID, cb.Message.MessageID))

	default:
		h.logger.Warn("unknown hint callback", zap.String("data", data.Raw))
	}

	return callbackReply{}
}
