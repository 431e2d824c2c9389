package entities

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoContent        = errors.New("no memorized entities to quiz on")
	ErrInvalidOperation = errors.New("invalid quiz operation")
)

// QuizStatus is the lifecycle state of a quiz session.
type QuizStatus int

const (
	QuizStatusLoading QuizStatus = iota
	QuizStatusNoContent
	QuizStatusInProgress
	QuizStatusCompleted
)

func (s QuizStatus) String() string {
	switch s {
	case QuizStatusLoading:
		return "loading"
	case QuizStatusNoContent:
		return "no_content"
	case QuizStatusInProgress:
		return "in_progress"
	case QuizStatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("quiz_status(%d)", int(s))
	}
}

// QuizResult is the final score of a completed session.
type QuizResult struct {
	Score      int
	Total      int
	Percentage int
}

// QuizSession represents a single run-through of a generated question sequence.
// All mutating methods validate the current state and leave the session
// untouched when they return ErrInvalidOperation.
type QuizSession struct {
	ID           uuid.UUID      // unique session ID, carried in callback data
	UserID       int64          // user who started the quiz
	Questions    []QuizQuestion // generated questions, owned by the session
	CurrentIndex int            // zero-based index of the current question
	Score        int            // number of correct answers so far
	Status       QuizStatus     // lifecycle state
	Selected     string         // selected answer, meaningful only if HasSelection
	HasSelection bool           // whether an answer is selected for the current question
	Answered     bool           // whether the current question has been submitted
	StartedAt    time.Time      // timestamp when the quiz was created
	UpdatedAt    time.Time      // timestamp of the last transition
	CompletedAt  *time.Time     // timestamp when the quiz was completed (nullable)
}

// NewQuizSession creates a session in the transient Loading state.
func NewQuizSession(userID int64) *QuizSession {
	now := time.Now()
	return &QuizSession{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    QuizStatusLoading,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Begin moves a loading session to InProgress with the given questions.
// An empty question list moves the session to NoContent instead.
func (qs *QuizSession) Begin(questions []QuizQuestion) error {
	if qs.Status != QuizStatusLoading {
		return qs.invalid("begin")
	}
	if len(questions) == 0 {
		qs.MarkNoContent()
		return ErrNoContent
	}

	qs.Questions = questions
	qs.CurrentIndex = 0
	qs.Score = 0
	qs.Selected = ""
	qs.HasSelection = false
	qs.Answered = false
	qs.Status = QuizStatusInProgress
	qs.touch()
	return nil
}

// MarkNoContent moves a loading session to the terminal NoContent state.
func (qs *QuizSession) MarkNoContent() {
	if qs.Status != QuizStatusLoading {
		return
	}
	qs.Status = QuizStatusNoContent
	qs.touch()
}

// CurrentQuestion returns the question being answered.
func (qs *QuizSession) CurrentQuestion() (*QuizQuestion, error) {
	if qs.Status != QuizStatusInProgress {
		return nil, qs.invalid("current question")
	}
	return &qs.Questions[qs.CurrentIndex], nil
}

// SelectAnswer records the user's choice for the current question.
// The value must be one of the offered options.
func (qs *QuizSession) SelectAnswer(value string) error {
	if qs.Status != QuizStatusInProgress || qs.Answered {
		return qs.invalid("select answer")
	}
	if !qs.Questions[qs.CurrentIndex].HasOption(value) {
		return fmt.Errorf("%w: %q is not an option of question %d", ErrInvalidOperation, value, qs.CurrentIndex+1)
	}

	qs.Selected = value
	qs.HasSelection = true
	qs.touch()
	return nil
}

// Submit locks in the selected answer and reports whether it was correct.
func (qs *QuizSession) Submit() (bool, error) {
	if qs.Status != QuizStatusInProgress || qs.Answered || !qs.HasSelection {
		return false, qs.invalid("submit")
	}

	correct := qs.Questions[qs.CurrentIndex].IsCorrect(qs.Selected)
	if correct {
		qs.Score++
	}
	qs.Answered = true
	qs.touch()
	return correct, nil
}

// Advance moves to the next question, or completes the session after the last one.
func (qs *QuizSession) Advance() error {
	if qs.Status != QuizStatusInProgress || !qs.Answered {
		return qs.invalid("advance")
	}

	if qs.IsLastQuestion() {
		qs.complete()
		return nil
	}

	qs.CurrentIndex++
	qs.Selected = ""
	qs.HasSelection = false
	qs.Answered = false
	qs.touch()
	return nil
}

// IsLastQuestion reports whether the current question is the final one.
func (qs *QuizSession) IsLastQuestion() bool {
	return qs.CurrentIndex == len(qs.Questions)-1
}

// Total returns the number of questions in the session.
func (qs *QuizSession) Total() int {
	return len(qs.Questions)
}

// Result returns the final score. It is only available once completed.
func (qs *QuizSession) Result() (QuizResult, error) {
	if qs.Status != QuizStatusCompleted {
		return QuizResult{}, qs.invalid("result")
	}

	total := len(qs.Questions)
	return QuizResult{
		Score:      qs.Score,
		Total:      total,
		Percentage: int(math.Round(100 * float64(qs.Score) / float64(total))),
	}, nil
}

func (qs *QuizSession) complete() {
	qs.Status = QuizStatusCompleted
	qs.touch()
	now := qs.UpdatedAt
	qs.CompletedAt = &now
}

func (qs *QuizSession) touch() {
	qs.UpdatedAt = time.Now()
}

func (qs *QuizSession) invalid(op string) error {
	return fmt.Errorf("%w: %s in state %s (answered=%t, selected=%t)",
		ErrInvalidOperation, op, qs.Status, qs.Answered, qs.HasSelection)
}
