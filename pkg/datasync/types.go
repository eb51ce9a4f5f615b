package datasync

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("item not found")
	ErrDuplicateID = errors.New("item id already exists")
	ErrInvalid     = errors.New("invalid item")
)

// Collection names a synced list of domain records.
type Collection string

const (
	Crops  Collection = "crops"
	News   Collection = "news"
	Market Collection = "market"
	Ads    Collection = "ads"
)

var AllCollections = []Collection{Crops, News, Market, Ads}

// Table is the remote table backing the collection.
func (c Collection) Table() string {
	switch c {
	case News:
		return "news_items"
	case Market:
		return "market_items"
	}
	return string(c)
}

func ParseCollection(s string) (Collection, bool) {
	for _, c := range AllCollections {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSeeded     Phase = "seeded"     // local or default data in memory
	PhaseRefreshing Phase = "refreshing" // remote fetch in flight
	PhaseSynced     Phase = "synced"     // at least one remote fetch succeeded
	PhaseOffline    Phase = "offline"    // every remote fetch failed
	PhaseClosed     Phase = "closed"
)

type EventKind string

const (
	EventSeeded      EventKind = "seeded"
	EventRefreshing  EventKind = "refreshing"
	EventRefreshed   EventKind = "refreshed" // remote rows replaced a collection
	EventSynced      EventKind = "synced"
	EventOffline     EventKind = "offline"
	EventMutated     EventKind = "mutated"
	EventWriteFailed EventKind = "write_failed"
	EventReset       EventKind = "reset"
)

type Event struct {
	Kind       EventKind
	Phase      Phase
	Collection Collection
	ID         string
	Err        error
}

// Status reports where the store stands relative to the remote copy.
// Remote writes are best-effort: a failed write is counted here and never retried.
type Status struct {
	Phase         Phase     `json:"phase"`
	Loading       bool      `json:"loading"`
	LastRefresh   time.Time `json:"last_refresh,omitempty"`
	PendingWrites int64     `json:"pending_writes"`
	FailedWrites  int64     `json:"failed_writes"`
	LastError     string    `json:"last_error,omitempty"`
}

type record interface{ GetID() string }
