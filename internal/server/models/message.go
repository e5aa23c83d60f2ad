package models

import "time"

// Message is a posted entry. PubDate is the sole feed sort key. Flagged rows
// are hidden from every feed query; the flag itself is set by moderation
// tooling outside this service.
type Message struct {
	ID       int64
	AuthorID int64
	Text     string
	PubDate  time.Time
	Flagged  bool
}
