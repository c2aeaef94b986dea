package domain

import (
	"slices"
	"time"
)

// NoReflection is returned in place of a reflection when the completion
// service answers without any text.
const NoReflection = "No response from Claude"

// Entry represents a journal entry and the reflection generated for it
type Entry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
	IsPinned  bool      `json:"isPinned"`
	Tags      []string  `json:"tags"`
}

// Clone returns a copy of e that shares no memory with it
func (e Entry) Clone() Entry {
	e.Tags = slices.Clone(e.Tags)
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}

// HasTag reports whether the entry carries tag
func (e Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Filter selects entries for a derived view
type Filter struct {
	// Search is matched case-insensitively against prompt and response.
	Search string `json:"search,omitempty"`
	// Tags must all be present on a matching entry.
	Tags []string `json:"tags,omitempty"`
}
