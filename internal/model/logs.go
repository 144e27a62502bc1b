// internal/model/logs.go
package model

import "time"

// TimestampLayout renders UTC times the way the log panes show them
// (ISO-8601 with millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Kind selects the pane an entry is appended to
type Kind int

const (
	KindLog Kind = iota
	KindDialog
)

func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindDialog:
		return "dialog"
	default:
		return "unknown"
	}
}

// Category tags who a line is attributed to. It is decided when the line is
// formatted and never derived from the text afterwards.
type Category int

const (
	CategoryOther Category = iota
	CategoryUser
	CategoryBot
)

func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategoryBot:
		return "bot"
	default:
		return "other"
	}
}

// LogEntry represents a single line in one of the panes
type LogEntry struct {
	Timestamp time.Time
	Text      string
	Kind      Kind
	Category  Category
}

// Line returns the entry as displayed: "<timestamp> - <text>"
func (e LogEntry) Line() string {
	return e.Timestamp.UTC().Format(TimestampLayout) + " - " + e.Text
}
