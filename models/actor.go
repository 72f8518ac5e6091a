package models

// Actor is the authenticated party calling the engine.
type Actor struct {
	ID string `json:"id"`
}
