package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// emptyPayload is the "source unavailable" sentinel stored for a category
// whose fetch failed.
var emptyPayload = []byte("{}")

// EmptyPayload returns a fresh copy of the "{}" sentinel.
func EmptyPayload() json.RawMessage {
	return append(json.RawMessage(nil), emptyPayload...)
}

// DataSnapshot is the raw payload of every category from one aggregation.
// It has no mutators; a refresh builds a new snapshot instead.
type DataSnapshot struct {
	payloads  map[Category]json.RawMessage
	fetchedAt time.Time
}

// NewSnapshot copies payloads into a new snapshot. Categories missing from
// payloads, and nil or blank payloads, are stored as "{}".
func NewSnapshot(payloads map[Category]json.RawMessage, fetchedAt time.Time) *DataSnapshot {
	s := &DataSnapshot{
		payloads:  make(map[Category]json.RawMessage, len(Categories)),
		fetchedAt: fetchedAt,
	}
	for _, c := range Categories {
		p := bytes.TrimSpace(payloads[c])
		if len(p) == 0 {
			s.payloads[c] = EmptyPayload()
			continue
		}
		s.payloads[c] = append(json.RawMessage(nil), p...)
	}
	return s
}

// EmptySnapshot has "{}" for every category.
func EmptySnapshot() *DataSnapshot {
	return NewSnapshot(nil, time.Time{})
}

// Payload returns a copy of the category's raw payload.
func (s *DataSnapshot) Payload(c Category) json.RawMessage {
	if s == nil {
		return EmptyPayload()
	}
	p, ok := s.payloads[c]
	if !ok {
		return EmptyPayload()
	}
	return append(json.RawMessage(nil), p...)
}

// Available reports whether the category holds anything but the empty sentinel.
func (s *DataSnapshot) Available(c Category) bool {
	if s == nil {
		return false
	}
	p, ok := s.payloads[c]
	return ok && !bytes.Equal(p, emptyPayload)
}

// AvailableCategories lists, in draw order, the categories whose fetch succeeded.
func (s *DataSnapshot) AvailableCategories() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if s.Available(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *DataSnapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}

type snapshotFile struct {
	FetchedAt time.Time                    `json:"fetched_at"`
	Sources   map[Category]json.RawMessage `json:"sources"`
}

func (s *DataSnapshot) MarshalJSON() ([]byte, error) {
	f := snapshotFile{
		FetchedAt: s.FetchedAt(),
		Sources:   make(map[Category]json.RawMessage, len(Categories)),
	}
	for _, c := range Categories {
		f.Sources[c] = s.Payload(c)
	}
	return json.Marshal(f)
}

// DecodeSnapshot reads a snapshot written by MarshalJSON.
func DecodeSnapshot(r io.Reader) (*DataSnapshot, error) {
	var f snapshotFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	for c := range f.Sources {
		if !c.Valid() {
			return nil, fmt.Errorf("snapshot has unknown category %q", c)
		}
	}
	return NewSnapshot(f.Sources, f.FetchedAt), nil
}
