package hn

import (
	"time"

	"github.com/cristianoliveira/hnreader/internal/story"
)

// item is the wire shape of /item/<id>.json. Only story fields are kept.
type item struct {
	ID          uint64 `json:"id"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

func (it *item) toStory() story.Story {
	s := story.Story{
		ID:          it.ID,
		Title:       it.Title,
		URL:         it.URL,
		Score:       it.Score,
		Descendants: it.Descendants,
		By:          it.By,
	}
	if it.Time > 0 {
		s.Time = time.Unix(it.Time, 0).UTC()
	}
	return s
}
