package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/service"
)

var errEmptyListing = errors.New("no catalog entries match")

// handleStart greets the user.
func (h *Handler) handleStart(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		count, err := h.memorizationService.Count(ctx, userID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, welcomeMessage(count))
		msg.ReplyMarkup = buildNoContentKeyboard()
		return h.send(msg)
	}
}

// handleList sends the first page of the catalog, optionally filtered.
func (h *Handler) handleList(userID int64, term string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderCatalogPage(ctx, userID, 0, term)
		if errors.Is(err, errEmptyListing) {
			return h.send(newPlainMessage(chatID, msgNothingFound))
		}
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

// handleSearch lists catalog entries whose name or capital contains the term.
func (h *Handler) handleSearch(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		term := searchTermFromArgs(args)
		if term == "" {
			return h.send(newPlainMessage(chatID, msgUseSearch))
		}
		return h.handleList(userID, term)(ctx, chatID)
	}
}

// handleListCallback opens another page of a listing.
func (h *Handler) handleListCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) callbackReply {
	page, err := strconv.Atoi(data.param(0))
	if err != nil || page < 0 {
		h.logger.Warn("invalid page in callback", zap.String("data", data.Raw))
		return callbackReply{}
	}

	text, kb, err := h.renderCatalogPage(ctx, cb.From.ID, page, data.param(1))
	if err != nil {
		h.logger.Error("failed to render catalog page",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err),
		)
		return callbackReply{toast: msgInternalError}
	}

	return callbackReply{text: text, kb: &kb}
}

// handleToggleCallback flips the memorized flag and re-renders the page.
func (h *Handler) handleToggleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) callbackReply {
	entityID := data.param(0)
	page, err := strconv.Atoi(data.param(1))
	if entityID == "" || err != nil || page < 0 {
		h.logger.Warn("invalid toggle callback", zap.String("data", data.Raw))
		return callbackReply{}
	}

	memorized, err := h.memorizationService.Toggle(ctx, cb.From.ID, entityID)
	if err != nil {
		h.logger.Error("failed to toggle memorized",
			zap.Int64("user_id", cb.From.ID),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return callbackReply{toast: msgInternalError}
	}

	h.logger.Debug("memorized toggled",
		zap.Int64("user_id", cb.From.ID),
		zap.String("entity_id", entityID),
		zap.Bool("memorized", memorized),
	)

	text, kb, err := h.renderCatalogPage(ctx, cb.From.ID, page, data.param(2))
	if err != nil {
		h.logger.Error("failed to render catalog page",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err),
		)
		return callbackReply{toast: msgInternalError}
	}

	toast := "Removed from memorized"
	if memorized {
		toast = "Marked as memorized"
	}

	return callbackReply{text: text, kb: &kb, toast: toast}
}

// renderCatalogPage renders a page of the listing. Pages past the end are
// clamped to the last one since toggling reorders the listing.
func (h *Handler) renderCatalogPage(ctx context.Context, userID int64, page int, term string) (string, tgbotapi.InlineKeyboardMarkup, error) {
	listing, err := h.catalogService.List(ctx, userID, term)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	if len(listing.Items) == 0 {
		return "", tgbotapi.InlineKeyboardMarkup{}, errEmptyListing
	}

	totalPages := pageCount(len(listing.Items), itemsPerPage)
	if page >= totalPages {
		page = totalPages - 1
	}

	items := paginate(listing.Items, page, itemsPerPage)
	text := formatCatalogPage(items, page, totalPages, listing.MemorizedCount, term)
	kb := buildCatalogKeyboard(items, page, totalPages, listing.MemorizedCount, term)

	return text, kb, nil
}

func pageCount(n, perPage int) int {
	return (n + perPage - 1) / perPage
}

// paginate returns the items of a given page.
func paginate(items []service.CatalogItem, page, perPage int) []service.CatalogItem {
	start := page * perPage
	end := start + perPage

	if start >= len(items) {
		return nil
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

// searchTermFromArgs is the search term of a "/search" message, if any.
func searchTermFromArgs(args string) string {
	return sanitizeTerm(strings.Join(strings.Fields(args), " "))
}
