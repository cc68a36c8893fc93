package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DatetimeLocalLayout is the zone-less timestamp format of datetime_local.
const DatetimeLocalLayout = "2006-01-02T15:04:05"

// ErrMissingField indicates a required field was absent or null.
var ErrMissingField = errors.New("missing required field")

// DecodeError reports a response body that does not match the expected shape.
type DecodeError struct {
	// Field is the JSON path of the offending value, e.g. "events[2].title".
	// Empty when the body is not valid JSON at all.
	Field string
	Err   error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode events page: %v", e.Err)
	}
	return fmt.Sprintf("decode events page: %s: %v", e.Field, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Raw wire shapes. Pointers separate "absent/null" from zero values.
type rawPage struct {
	Meta   *rawMeta    `json:"meta"`
	Events *[]rawEvent `json:"events"`
}

type rawMeta struct {
	Page    *int `json:"page"`
	PerPage *int `json:"per_page"`
	Total   *int `json:"total"`
}

type rawEvent struct {
	ID            *int64         `json:"id"`
	Title         *string        `json:"title"`
	ShortTitle    *string        `json:"short_title"`
	DatetimeLocal *string        `json:"datetime_local"`
	Score         *float64       `json:"score"`
	Performers    []rawPerformer `json:"performers"`
}

type rawPerformer struct {
	ID        *int64   `json:"id"`
	Name      *string  `json:"name"`
	ShortName *string  `json:"short_name"`
	Type      *string  `json:"type"`
	Score     *float64 `json:"score"`
}

// DecodePage decodes one response body of the events endpoint.
func DecodePage(body []byte) (*PageResult, error) {
	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &DecodeError{Field: typeErr.Field, Err: err}
		}
		return nil, &DecodeError{Err: err}
	}

	if raw.Meta == nil {
		return nil, &DecodeError{Field: "meta", Err: ErrMissingField}
	}
	meta, err := decodeMeta(raw.Meta)
	if err != nil {
		return nil, err
	}

	if raw.Events == nil {
		return nil, &DecodeError{Field: "events", Err: ErrMissingField}
	}
	evs := make([]Event, 0, len(*raw.Events))
	for i, re := range *raw.Events {
		ev, err := decodeEvent(fmt.Sprintf("events[%d]", i), re)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}

	return &PageResult{Meta: meta, Events: evs}, nil
}

func decodeMeta(rm *rawMeta) (Meta, error) {
	if rm.Page == nil {
		return Meta{}, &DecodeError{Field: "meta.page", Err: ErrMissingField}
	}
	if rm.PerPage == nil {
		return Meta{}, &DecodeError{Field: "meta.per_page", Err: ErrMissingField}
	}
	if rm.Total == nil {
		return Meta{}, &DecodeError{Field: "meta.total", Err: ErrMissingField}
	}
	if *rm.Total < 0 {
		return Meta{}, &DecodeError{Field: "meta.total", Err: fmt.Errorf("negative total %d", *rm.Total)}
	}
	return Meta{Page: *rm.Page, PerPage: *rm.PerPage, Total: *rm.Total}, nil
}

func decodeEvent(path string, re rawEvent) (Event, error) {
	if re.ID == nil {
		return Event{}, &DecodeError{Field: path + ".id", Err: ErrMissingField}
	}
	if re.Title == nil {
		return Event{}, &DecodeError{Field: path + ".title", Err: ErrMissingField}
	}
	if re.DatetimeLocal == nil {
		return Event{}, &DecodeError{Field: path + ".datetime_local", Err: ErrMissingField}
	}
	when, err := time.Parse(DatetimeLocalLayout, *re.DatetimeLocal)
	if err != nil {
		return Event{}, &DecodeError{Field: path + ".datetime_local", Err: err}
	}

	ev := Event{
		ID:            *re.ID,
		Title:         *re.Title,
		ShortTitle:    deref(re.ShortTitle),
		DatetimeLocal: when,
		Score:         re.Score,
		Performers:    make([]Performer, 0, len(re.Performers)),
	}

	for i, rp := range re.Performers {
		pPath := fmt.Sprintf("%s.performers[%d]", path, i)
		if rp.ID == nil {
			return Event{}, &DecodeError{Field: pPath + ".id", Err: ErrMissingField}
		}
		if rp.Name == nil {
			return Event{}, &DecodeError{Field: pPath + ".name", Err: ErrMissingField}
		}
		ev.Performers = append(ev.Performers, Performer{
			ID:        *rp.ID,
			Name:      *rp.Name,
			ShortName: deref(rp.ShortName),
			Type:      deref(rp.Type),
			Score:     rp.Score,
		})
	}

	return ev, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
