package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/service"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handler.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type CatalogService interface {
	List(ctx context.Context, userID int64, term string) (*service.CatalogListing, error)
	FindBySubject(ctx context.Context, name string) (*entities.Entity, error)
}

type MemorizationService interface {
	Toggle(ctx context.Context, userID int64, id string) (bool, error)
	Count(ctx context.Context, userID int64) (int, error)
	Clear(ctx context.Context, userID int64) error
}

type QuizService interface {
	Start(ctx context.Context, userID int64) (*entities.QuizSession, error)
	Restart(ctx context.Context, userID int64) (*entities.QuizSession, error)
	Current(userID int64) (*entities.QuizSession, error)
	SelectAnswer(userID int64, sessionID uuid.UUID, value string) (*entities.QuizSession, error)
	Submit(userID int64, sessionID uuid.UUID) (bool, *entities.QuizSession, error)
	Advance(userID int64, sessionID uuid.UUID) (*entities.QuizSession, error)
	Result(userID int64, sessionID uuid.UUID) (entities.QuizResult, error)
	Abandon(userID int64)
}

type HintService interface {
	Enabled() bool
	Request(ctx context.Context, userID int64, entityID, key string) (*entities.Entity, entities.Hint, error)
	Dismiss(userID int64, key string)
}
