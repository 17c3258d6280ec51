package models

import (
	"fmt"
)

// EngagementKind distinguishes the social signals an account can toggle on a bet
type EngagementKind string

const (
	EngagementLike     EngagementKind = "like"
	EngagementBookmark EngagementKind = "bookmark"
)

// Table returns the relation table backing the engagement kind
func (k EngagementKind) Table() (string, error) {
	switch k {
	case EngagementLike:
		return "likes", nil
	case EngagementBookmark:
		return "bookmarks", nil
	default:
		return "", fmt.Errorf("unknown engagement kind %q", k)
	}
}

// EngagementResult reports the state after a toggle
type EngagementResult struct {
	Kind    EngagementKind
	BetID   int64
	Active  bool  // Whether the actor's relation exists after the call
	Changed bool  // Whether the call inserted or deleted a row
	Count   int64 // Total relations of this kind on the bet
}
