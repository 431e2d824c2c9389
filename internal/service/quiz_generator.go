package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

var ErrInvalidQuizConfig = errors.New("invalid quiz config")

// QuizConfig controls the shape of a generated quiz.
type QuizConfig struct {
	Length             int // maximum number of questions
	OptionsPerQuestion int // options shown per question, correct one included
}

// Validate checks that the config can produce at least one answerable question.
func (c QuizConfig) Validate() error {
	if c.Length < 1 {
		return fmt.Errorf("%w: length must be positive, got %d", ErrInvalidQuizConfig, c.Length)
	}
	if c.OptionsPerQuestion < 1 {
		return fmt.Errorf("%w: options per question must be positive, got %d", ErrInvalidQuizConfig, c.OptionsPerQuestion)
	}
	return nil
}

// QuizGenerator builds quiz questions from the memorized part of the catalog.
// Every random draw is a Fisher-Yates shuffle over the injected source, so
// each subject ordering and each distractor subset is equally likely.
type QuizGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizGenerator creates a generator. A nil rng is replaced with a time-seeded one.
func NewQuizGenerator(rng *rand.Rand) *QuizGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuizGenerator{rng: rng}
}

// Generate draws min(cfg.Length, |memorized|) subjects without replacement and
// builds a question with up to cfg.OptionsPerQuestion distinct options for each.
// Memorized ids that are not part of the catalog are ignored.
func (g *QuizGenerator) Generate(
	catalog []*entities.Entity,
	memorizedIDs []string,
	cfg QuizConfig,
) ([]entities.QuizQuestion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	subjects := memorizedSubset(catalog, memorizedIDs)
	if len(subjects) == 0 {
		return nil, entities.ErrNoContent
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	picked := sample(g.rng, subjects, cfg.Length)
	values := distinctValues(catalog)

	questions := make([]entities.QuizQuestion, 0, len(picked))
	for _, subject := range picked {
		questions = append(questions, g.buildQuestion(subject, values, cfg.OptionsPerQuestion))
	}

	return questions, nil
}

func (g *QuizGenerator) buildQuestion(
	subject *entities.Entity,
	values []string,
	optionsPerQuestion int,
) entities.QuizQuestion {
	pool := make([]string, 0, len(values))
	for _, v := range values {
		if v != subject.CorrectValue {
			pool = append(pool, v)
		}
	}

	distractors := sample(g.rng, pool, optionsPerQuestion-1)

	options := make([]string, 0, 1+len(distractors))
	options = append(options, subject.CorrectValue)
	options = append(options, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return entities.QuizQuestion{
		EntityID:     subject.ID,
		SubjectName:  subject.SubjectName,
		CorrectValue: subject.CorrectValue,
		Options:      options,
	}
}

// memorizedSubset returns the catalog entities whose ids are memorized, in catalog order.
func memorizedSubset(catalog []*entities.Entity, ids []string) []*entities.Entity {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]*entities.Entity, 0, len(ids))
	for _, e := range catalog {
		if _, ok := want[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// distinctValues returns every correct value of the catalog once, in first-seen order.
func distinctValues(catalog []*entities.Entity) []string {
	seen := make(map[string]struct{}, len(catalog))
	out := make([]string, 0, len(catalog))
	for _, e := range catalog {
		if _, ok := seen[e.CorrectValue]; ok {
			continue
		}
		seen[e.CorrectValue] = struct{}{}
		out = append(out, e.CorrectValue)
	}
	return out
}

// sample draws min(k, len(items)) elements without replacement using a
// partial Fisher-Yates shuffle over a copy of items.
func sample[T any](rng *rand.Rand, items []T, k int) []T {
	n := len(items)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	buf := append([]T(nil), items...)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k]
}
