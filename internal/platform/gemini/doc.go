// Package gemini implements the mnemonic-hint collaborator on top of
// Google's Gemini API.
package gemini
