package domain

import "strings"

// Status represents the lifecycle states a post moves through.
type Status string

const (
	// StatusDraft indicates an essay still being written; drafts never appear
	// in public listings or feeds.
	StatusDraft Status = "draft"
	// StatusPublished identifies an essay visible to readers.
	StatusPublished Status = "published"
	// StatusArchived marks an essay retained for history but pulled from
	// listings.
	StatusArchived Status = "archived"
)

// NormalizeStatus coerces arbitrary status strings into a known state,
// defaulting to draft for empty input.
func NormalizeStatus(input string) Status {
	if strings.TrimSpace(input) == "" {
		return StatusDraft
	}
	status := Status(strings.ToLower(strings.TrimSpace(input)))
	if status.Valid() {
		return status
	}
	return status
}

// Valid reports whether the status is one of the recognized lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// Visible reports whether posts in this state belong in public listings.
func (s Status) Visible() bool {
	return s == StatusPublished
}

func (s Status) String() string {
	return string(s)
}
