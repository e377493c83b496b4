package storage

import "time"

type Publication struct {
	Scope       string // guild id; empty for global commands
	Name        string
	Hash        string
	PublishedAt time.Time
}

// JournalEntry is one dispatched command or event.
type JournalEntry struct {
	ID         string
	Kind       string // command | event
	Key        string // command name or event type
	GuildID    string
	UserID     string
	Outcome    string
	Error      string
	Duration   time.Duration
	ReceivedAt time.Time
}
