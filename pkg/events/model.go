package events

import "time"

// Event is a single listing returned by the events endpoint.
type Event struct {
	ID            int64       `json:"id" bson:"id"`
	Title         string      `json:"title" bson:"title"`
	ShortTitle    string      `json:"short_title" bson:"short_title"`
	DatetimeLocal time.Time   `json:"datetime_local" bson:"datetime_local"`
	Score         *float64    `json:"score" bson:"score"`
	Performers    []Performer `json:"performers" bson:"performers"`
}

// Performer is a participant nested within an Event.
type Performer struct {
	ID        int64    `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	ShortName string   `json:"short_name" bson:"short_name"`
	Type      string   `json:"type" bson:"type"`
	Score     *float64 `json:"score" bson:"score"`
}

// Meta is the pagination metadata reported on every page.
type Meta struct {
	Page    int `json:"page" bson:"page"`
	PerPage int `json:"per_page" bson:"per_page"`
	Total   int `json:"total" bson:"total"`
}

// PageResult is one decoded page of the events endpoint.
type PageResult struct {
	Meta   Meta
	Events []Event
}

// HasScore reports whether the API supplied a score for the event.
func (e Event) HasScore() bool {
	return e.Score != nil
}
