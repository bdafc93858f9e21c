// Package story defines the story data model shared by the fetcher, the
// orchestrator and the renderer.
package story

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ID identifies a story on the remote feed.
type ID = uint64

// Story is a fetched feed entry. It is never mutated after creation.
type Story struct {
	ID          ID
	Title       string
	URL         string
	Score       int
	Descendants int
	Time        time.Time
	By          string
}

// Host returns the host part of the story URL without a leading "www.".
// Self posts have no URL and return an empty host.
func (s Story) Host() string {
	if s.URL == "" {
		return ""
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// CommentsURL returns the discussion page of the story given the item page prefix,
// for example "https://news.ycombinator.com/item?id=".
func (s Story) CommentsURL(itemPagePrefix string) string {
	return itemPagePrefix + strconv.FormatUint(s.ID, 10)
}

// LoadStatus is the fetch state of one buffer slot.
type LoadStatus int32

const (
	NotStarted LoadStatus = iota
	Started
	Failed
	Completed
)

func (s LoadStatus) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Started:
		return "started"
	case Failed:
		return "failed"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}
