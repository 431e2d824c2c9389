package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDecodeCallback(t *testing.T) {
	cd := decodeCallback("mem:FR:3:par")
	assert.Equal(t, actionToggle, cd.Action)
	assert.Equal(t, []string{"FR", "3", "par"}, cd.Params)
	assert.Equal(t, "FR", cd.param(0))
	assert.Empty(t, cd.param(5))

	cd = decodeCallback("noop")
	assert.Equal(t, actionNoop, cd.Action)
	assert.Empty(t, cd.Params)
}

func TestCallbackRoundTrip(t *testing.T) {
	id := uuid.New()

	cd := decodeCallback(buildQuizSelectCallback(id, 4))
	assert.Equal(t, actionQuiz, cd.Action)
	assert.Equal(t, quizSelect, cd.param(0))
	assert.Equal(t, id.String(), cd.param(1))
	assert.Equal(t, "4", cd.param(2))

	cd = decodeCallback(buildListCallback(2, ""))
	assert.Equal(t, []string{"2"}, cd.Params)

	cd = decodeCallback(buildListCallback(2, "united"))
	assert.Equal(t, []string{"2", "united"}, cd.Params)
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	id := uuid.New()
	term := sanitizeTerm(strings.Repeat("é", 40))

	all := []string{
		buildListCallback(999, term),
		buildToggleCallback("XXXX", 999, term),
		buildQuizStartCallback(),
		buildQuizRestartCallback(),
		buildQuizSelectCallback(id, 9),
		buildQuizSubmitCallback(id),
		buildQuizNextCallback(id),
		buildHintCallback("XXXX"),
		buildHintCloseCallback(),
		buildResetConfirmCallback(),
		buildResetCancelCallback(),
	}

	for _, data := range all {
		assert.LessOrEqual(t, len(data), maxCallbackBytes, data)
	}
}

func TestSanitizeTerm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "paris", want: "paris"},
		{name: "trimmed", in: "  rome ", want: "rome"},
		{name: "colons", in: "a:b", want: "a b"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTerm(tt.in))
		})
	}

	long := sanitizeTerm(strings.Repeat("ü", 30))
	assert.LessOrEqual(t, len(long), maxTermBytes)
	assert.True(t, utf8.ValidString(long), "cut on a rune boundary")
}

func TestSearchTermFromArgs(t *testing.T) {
	assert.Equal(t, "new zealand", searchTermFromArgs("  new   zealand "))
	assert.Empty(t, searchTermFromArgs(""))
}
