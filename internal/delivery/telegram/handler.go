package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot                 BotAPI
	logger              *zap.Logger
	catalogService      CatalogService
	memorizationService MemorizationService
	quizService         QuizService
	hintService         HintService

	// hints tracks in-flight hint goroutines.
	hints sync.WaitGroup
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	catalogService CatalogService,
	memorizationService MemorizationService,
	quizService QuizService,
	hintService HintService,
) *Handler {
	return &Handler{
		bot:                 bot,
		logger:              logger,
		catalogService:      catalogService,
		memorizationService: memorizationService,
		quizService:         quizService,
		hintService:         hintService,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer func() {
		h.bot.StopReceivingUpdates()
		h.hints.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	args := update.Message.CommandArguments()

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.handleStart(userID))(ctx, chatID)

	case "help":
		_ = h.send(newMessage(chatID, helpMessage()))

	case "list":
		_ = h.withErrorHandling(h.handleList(userID, ""))(ctx, chatID)

	case "search":
		_ = h.withErrorHandling(h.handleSearch(userID, args))(ctx, chatID)

	case "quiz":
		_ = h.withErrorHandling(h.handleQuiz(userID))(ctx, chatID)

	case "hint":
		_ = h.withErrorHandling(h.handleHintCommand(userID, args))(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling(h.handleReset())(ctx, chatID)

	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendMessage sends c and returns the sent message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return tgbotapi.Message{}, err
	}
	return sent, nil
}

// request performs calls whose result is not a message (deletes, callback answers).
func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Warn("telegram request failed", zap.Error(err))
	}
}
