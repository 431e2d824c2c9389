package telegram

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Callback action constants.
const (
	actionList   = "list"
	actionToggle = "mem"
	actionQuiz   = "quiz"
	actionHint   = "hint"
	actionReset  = "reset"
	actionNoop   = "noop"
)

// Quiz sub-actions.
const (
	quizStart   = "start"
	quizSelect  = "sel"
	quizSubmit  = "sub"
	quizNext    = "next"
	quizRestart = "restart"
)

// Hint sub-actions.
const (
	hintShow  = "show"
	hintClose = "close"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// Telegram rejects callback data longer than 64 bytes.
const (
	maxCallbackBytes = 64
	maxTermBytes     = 32
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// sanitizeTerm makes a search term safe to embed in callback data.
func sanitizeTerm(term string) string {
	term = strings.TrimSpace(strings.ReplaceAll(term, ":", " "))
	if len(term) <= maxTermBytes {
		return term
	}

	cut := maxTermBytes
	for cut > 0 && !utf8.RuneStart(term[cut]) {
		cut--
	}
	return strings.TrimSpace(term[:cut])
}

func withTerm(params []string, term string) []string {
	if term == "" {
		return params
	}
	return append(params, term)
}

// buildListCallback builds callback data for opening a catalog page.
func buildListCallback(page int, term string) string {
	return callbackData{
		Action: actionList,
		Params: withTerm([]string{strconv.Itoa(page)}, term),
	}.encode()
}

// buildToggleCallback builds callback data for toggling an entity and
// re-rendering the page it was toggled on.
func buildToggleCallback(entityID string, page int, term string) string {
	return callbackData{
		Action: actionToggle,
		Params: withTerm([]string{entityID, strconv.Itoa(page)}, term),
	}.encode()
}

func buildQuizStartCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizStart}}.encode()
}

func buildQuizRestartCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizRestart}}.encode()
}

// buildQuizSelectCallback builds callback data for choosing an option.
// The option is referenced by index to stay within the size limit.
func buildQuizSelectCallback(sessionID uuid.UUID, optionIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizSelect, sessionID.String(), strconv.Itoa(optionIndex)},
	}.encode()
}

func buildQuizSubmitCallback(sessionID uuid.UUID) string {
	return callbackData{Action: actionQuiz, Params: []string{quizSubmit, sessionID.String()}}.encode()
}

func buildQuizNextCallback(sessionID uuid.UUID) string {
	return callbackData{Action: actionQuiz, Params: []string{quizNext, sessionID.String()}}.encode()
}

func buildHintCallback(entityID string) string {
	return callbackData{Action: actionHint, Params: []string{hintShow, entityID}}.encode()
}

func buildHintCloseCallback() string {
	return callbackData{Action: actionHint, Params: []string{hintClose}}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
