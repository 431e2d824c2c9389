package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/geoquiz-bot/internal/storage"
)

type fakeMemorized struct {
	ids []string
	err error
}

func (f *fakeMemorized) All(_ context.Context, _ int64) ([]string, error) {
	return f.ids, f.err
}

func newTestQuizService(t *testing.T, memorized MemorizedSource, seed int64) *QuizService {
	t.Helper()
	return NewQuizService(
		newTestCatalog(t),
		memorized,
		NewQuizGenerator(rand.New(rand.NewSource(seed))),
		storage.NewQuizStorage(),
		QuizConfig{Length: 20, OptionsPerQuestion: 6},
		zap.NewNop(),
	)
}

func wrongOption(q *entities.QuizQuestion) string {
	for _, opt := range q.Options {
		if opt != q.CorrectValue {
			return opt
		}
	}
	return ""
}

func TestQuizService_Scenario(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR", "DE", "IT"}}, 11)
	const user = int64(1)

	session, err := svc.Start(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, entities.QuizStatusInProgress, session.Status)
	require.Equal(t, 3, session.Total())

	for _, q := range session.Questions {
		assert.Len(t, q.Options, 3)
	}

	// One wrong answer on the last question, correct otherwise.
	for i := 0; i < 3; i++ {
		q, err := session.CurrentQuestion()
		require.NoError(t, err)

		answer := q.CorrectValue
		if i == 2 {
			answer = wrongOption(q)
		}

		_, err = svc.SelectAnswer(user, session.ID, answer)
		require.NoError(t, err)

		correct, after, err := svc.Submit(user, session.ID)
		require.NoError(t, err)
		assert.Equal(t, i != 2, correct)
		assert.True(t, after.Answered)

		session, err = svc.Advance(user, session.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, entities.QuizStatusCompleted, session.Status)

	res, err := svc.Result(user, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuizResult{Score: 2, Total: 3, Percentage: 67}, res)
}

func TestQuizService_FranceScoresOne(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR"}}, 12)

	session, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.SelectAnswer(1, session.ID, "Paris")
	require.NoError(t, err)
	correct, after, err := svc.Submit(1, session.ID)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, 1, after.Score)
}

func TestQuizService_NoContent(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{}, 13)

	session, err := svc.Start(context.Background(), 1)
	require.ErrorIs(t, err, entities.ErrNoContent)
	require.NotNil(t, session)
	assert.Equal(t, entities.QuizStatusNoContent, session.Status)

	_, err = svc.SelectAnswer(1, session.ID, "Paris")
	assert.ErrorIs(t, err, entities.ErrInvalidOperation)
}

func TestQuizService_MemorizedFailure(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{err: errors.New("boom")}, 14)

	_, err := svc.Start(context.Background(), 1)
	require.Error(t, err)

	_, err = svc.Current(1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_RejectedOperationsKeepState(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR", "DE", "IT"}}, 15)

	session, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)

	_, after, err := svc.Submit(1, session.ID)
	require.ErrorIs(t, err, entities.ErrInvalidOperation)
	assert.False(t, after.Answered)

	after, err = svc.Advance(1, session.ID)
	require.ErrorIs(t, err, entities.ErrInvalidOperation)
	assert.Equal(t, 0, after.CurrentIndex)

	_, err = svc.Result(1, session.ID)
	assert.ErrorIs(t, err, entities.ErrInvalidOperation)
}

func TestQuizService_StaleSession(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR", "DE"}}, 16)

	first, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Restart(context.Background(), 1)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, err = svc.SelectAnswer(1, first.ID, first.Questions[0].CorrectValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.SelectAnswer(2, second.ID, second.Questions[0].CorrectValue)
	assert.ErrorIs(t, err, ErrSessionNotFound, "sessions belong to their user")

	_, err = svc.Advance(1, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_SnapshotIsDetached(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR", "DE"}}, 17)

	session, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)

	session.Score = 99
	current, err := svc.Current(1)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Score)
}

func TestQuizService_Abandon(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR"}}, 18)

	_, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)
	svc.Abandon(1)

	_, err = svc.Current(1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// Restarting many times must not keep producing the same subject order.
func TestQuizService_RestartProducesDifferentOrders(t *testing.T) {
	svc := newTestQuizService(t, &fakeMemorized{ids: []string{"FR", "DE", "IT"}}, 19)
	const trials = 600

	orders := map[string]int{}
	for i := 0; i < trials; i++ {
		session, err := svc.Restart(context.Background(), 1)
		require.NoError(t, err)

		subjects := make([]string, 0, session.Total())
		for _, q := range session.Questions {
			subjects = append(subjects, q.EntityID)
		}
		orders[strings.Join(subjects, ",")]++
	}

	assert.Len(t, orders, 6, "every ordering of three subjects shows up")
	for order, c := range orders {
		assert.Less(t, c, trials/2, "ordering %s dominates", order)
	}
}
