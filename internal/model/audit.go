package model

import "time"

const (
	EventSCTIssued    = "sct_issued"
	EventSTHPublished = "sth_published"
)

// LogEvent records something the log signed.
type LogEvent struct {
	Time      time.Time `json:"-"`
	Ts        int64     `json:"ts"` // Unix timestamp in milliseconds
	Kind      string    `json:"kind"`
	ID        string    `json:"id,omitempty"`
	EntryType string    `json:"entry_type,omitempty"`
	TreeSize  *uint64   `json:"tree_size,omitempty"`
	Timestamp uint64    `json:"timestamp"`
}

func NewLogEvent(kind string, at time.Time) LogEvent {
	return LogEvent{Time: at, Ts: at.UnixMilli(), Kind: kind}
}
