package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/service"
)

// handleQuiz resumes the user's quiz in progress or starts a new one.
func (h *Handler) handleQuiz(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if session, err := h.quizService.Current(userID); err == nil && session.Status == entities.QuizStatusInProgress {
			h.logger.Debug("resuming quiz",
				zap.Int64("user_id", userID),
				zap.String("session_id", session.ID.String()),
			)

			text, kb := renderSession(session, h.hintService.Enabled())
			msg := newMessage(chatID, text)
			msg.ReplyMarkup = kb
			return h.send(msg)
		}

		text, kb, err := h.startQuiz(ctx, userID, false)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

// startQuiz starts or restarts a quiz and renders its first screen.
func (h *Handler) startQuiz(ctx context.Context, userID int64, restart bool) (string, tgbotapi.InlineKeyboardMarkup, error) {
	start := h.quizService.Start
	if restart {
		start = h.quizService.Restart
	}

	session, err := start(ctx, userID)
	if errors.Is(err, entities.ErrNoContent) {
		return formatNoContent(), buildNoContentKeyboard(), nil
	}
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	return formatQuizQuestion(session), buildQuestionKeyboard(session), nil
}

// renderSession renders the screen matching the session state.
func renderSession(session *entities.QuizSession, hintsEnabled bool) (string, tgbotapi.InlineKeyboardMarkup) {
	switch session.Status {
	case entities.QuizStatusNoContent:
		return formatNoContent(), buildNoContentKeyboard()
	case entities.QuizStatusCompleted:
		result, err := session.Result()
		if err != nil {
			return md(msgQuizExpired), buildResultKeyboard()
		}
		return formatQuizResult(result), buildResultKeyboard()
	}

	if session.Answered {
		q, _ := session.CurrentQuestion()
		correct := q != nil && q.IsCorrect(session.Selected)
		return formatAnswerFeedback(session, correct), buildFeedbackKeyboard(session, hintsEnabled)
	}

	return formatQuizQuestion(session), buildQuestionKeyboard(session)
}

func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) callbackReply {
	userID := cb.From.ID

	switch data.param(0) {
	case quizStart:
		// Starting from a listing keeps the listing and sends a new message.
		_ = h.withErrorHandling(h.handleQuiz(userID))(ctx, cb.Message.Chat.ID)
		return callbackReply{}

	case quizRestart:
		text, kb, err := h.startQuiz(ctx, userID, true)
		if err != nil {
			h.logger.Error("failed to restart quiz",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return callbackReply{toast: msgInternalError}
		}
		return callbackReply{text: text, kb: &kb}
	}

	sessionID, err := uuid.Parse(data.param(1))
	if err != nil {
		h.logger.Warn("invalid quiz callback", zap.String("data", data.Raw))
		return callbackReply{}
	}

	switch data.param(0) {
	case quizSelect:
		return h.selectAnswer(userID, sessionID, data.param(2))
	case quizSubmit:
		return h.submitAnswer(userID, sessionID)
	case quizNext:
		return h.advanceQuiz(userID, sessionID)
	default:
		h.logger.Warn("unknown quiz callback", zap.String("data", data.Raw))
		return callbackReply{}
	}
}

func (h *Handler) selectAnswer(userID int64, sessionID uuid.UUID, rawIndex string) callbackReply {
	session, err := h.quizService.Current(userID)
	if err != nil || session.ID != sessionID {
		return expiredReply()
	}

	q, err := session.CurrentQuestion()
	if err != nil {
		return h.quizErrorReply(userID, err, msgQuizExpired)
	}

	idx, err := strconv.Atoi(rawIndex)
	if err != nil || idx < 0 || idx >= len(q.Options) {
		h.logger.Warn("invalid option index",
			zap.Int64("user_id", userID),
			zap.String("index", rawIndex),
		)
		return callbackReply{}
	}

	if session.HasSelection && session.Selected == q.Options[idx] && !session.Answered {
		return callbackReply{}
	}

	session, err = h.quizService.SelectAnswer(userID, sessionID, q.Options[idx])
	if err != nil {
		return h.quizErrorReply(userID, err, msgAlreadyAnswered)
	}

	kb := buildQuestionKeyboard(session)
	return callbackReply{text: formatQuizQuestion(session), kb: &kb}
}

func (h *Handler) submitAnswer(userID int64, sessionID uuid.UUID) callbackReply {
	correct, session, err := h.quizService.Submit(userID, sessionID)
	if err != nil {
		rejected := msgAlreadyAnswered
		if session != nil && !session.Answered && !session.HasSelection {
			rejected = msgChooseAnswerHint
		}
		return h.quizErrorReply(userID, err, rejected)
	}

	toast := "❌ Wrong"
	if correct {
		toast = "✅ Correct"
	}

	kb := buildFeedbackKeyboard(session, h.hintService.Enabled())
	return callbackReply{text: formatAnswerFeedback(session, correct), kb: &kb, toast: toast}
}

func (h *Handler) advanceQuiz(userID int64, sessionID uuid.UUID) callbackReply {
	session, err := h.quizService.Advance(userID, sessionID)
	if err != nil && (session == nil || session.Status != entities.QuizStatusCompleted) {
		return h.quizErrorReply(userID, err, msgSubmitFirst)
	}

	// A repeated Finish tap lands on an already completed session.
	if session.Status == entities.QuizStatusCompleted {
		result, err := h.quizService.Result(userID, sessionID)
		if err != nil {
			return h.quizErrorReply(userID, err, msgQuizExpired)
		}
		kb := buildResultKeyboard()
		return callbackReply{text: formatQuizResult(result), kb: &kb}
	}

	kb := buildQuestionKeyboard(session)
	return callbackReply{text: formatQuizQuestion(session), kb: &kb}
}

// quizErrorReply maps quiz errors to user feedback. Rejected operations
// leave the message untouched and show rejected as a notification.
func (h *Handler) quizErrorReply(userID int64, err error, rejected string) callbackReply {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return expiredReply()
	case errors.Is(err, entities.ErrInvalidOperation):
		h.logger.Debug("quiz operation rejected",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return callbackReply{toast: rejected}
	default:
		h.logger.Error("quiz operation failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return callbackReply{toast: msgInternalError}
	}
}

func expiredReply() callbackReply {
	kb := buildNoContentKeyboard()
	return callbackReply{text: md(msgQuizExpired), kb: &kb}
}
