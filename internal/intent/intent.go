// Package intent maps key presses to navigation intents and feeds them to the
// orchestrator one at a time.
package intent

// Intent is a navigation request from the user.
type Intent int

const (
	NextStory Intent = iota
	NextStorySkip
	PrevStory
	PrevStorySkip
	NextPage
	NextPageSkip
	PrevPage
	PrevPageSkip
	Open
	OpenComments
	Refresh
	Quit
)

var names = map[Intent]string{
	NextStory:     "next-story",
	NextStorySkip: "next-story-skip",
	PrevStory:     "prev-story",
	PrevStorySkip: "prev-story-skip",
	NextPage:      "next-page",
	NextPageSkip:  "next-page-skip",
	PrevPage:      "prev-page",
	PrevPageSkip:  "prev-page-skip",
	Open:          "open",
	OpenComments:  "open-comments",
	Refresh:       "refresh",
	Quit:          "quit",
}

func (i Intent) String() string {
	if name, ok := names[i]; ok {
		return name
	}
	return "unknown"
}
