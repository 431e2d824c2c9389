package entities

// QuizQuestion is a single multiple choice question of a quiz session.
type QuizQuestion struct {
	EntityID     string
	SubjectName  string
	CorrectValue string
	Options      []string // display order, contains CorrectValue exactly once
}

// IsCorrect reports whether value is the correct answer.
func (q *QuizQuestion) IsCorrect(value string) bool {
	return value == q.CorrectValue
}

// HasOption reports whether value is one of the offered options.
func (q *QuizQuestion) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// OptionIndex returns the position of value among the options or -1.
func (q *QuizQuestion) OptionIndex(value string) int {
	for i, opt := range q.Options {
		if opt == value {
			return i
		}
	}
	return -1
}
