package entities

import "errors"

var ErrHintGeneration = errors.New("hint generation failed")

// HintRequest is the input of the mnemonic-hint collaborator.
type HintRequest struct {
	SubjectName  string `json:"country"`
	CorrectValue string `json:"capital"`
}

// Hint is a short associative phrase that helps to memorize a pair.
// An empty Cue is a valid, successful response.
type Hint struct {
	Cue string `json:"cue"`
}
