package render

// Region identifies a painted story on the surface.
type Region int

// NoRegion is passed as the source of the first highlight of a page.
const NoRegion Region = -1

// Surface is the display the consumer paints on.
type Surface interface {
	ClearScreen()
	// ShowStory appends a story row. comments is nil when the count is hidden.
	ShowStory(title string, score int, host string, comments *int) Region
	ShowPagePosition(page, total int)
	// SwapHighlight removes emphasis from from, adds it to to and scrolls to
	// into view.
	SwapHighlight(from, to Region)
}
