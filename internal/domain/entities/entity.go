// Package entities contains domain entities used across the application.
package entities

// Entity is a catalog record pairing a subject (a country) with the value
// the user has to recall about it (its capital).
type Entity struct {
	ID           string `json:"id"`      // stable unique identifier, e.g. ISO code
	SubjectName  string `json:"subject"` // country name
	CorrectValue string `json:"value"`   // capital city
}
