package directory

// DefaultEndThreshold is the fraction of a viewport's height within which
// reaching the end of the list asks for another page.
const DefaultEndThreshold = 0.5

// ShouldLoadMore reports whether a viewport of the given height, scrolled to
// offset, is within threshold viewports of the end of a list of total rows.
// It works on the filtered list the user is looking at; an empty list always
// triggers so that a narrow filter keeps pulling pages.
func ShouldLoadMore(total, offset, viewport int, threshold float64) bool {
	if total <= 0 {
		return true
	}
	if viewport <= 0 {
		viewport = 1
	}
	if offset < 0 {
		offset = 0
	}
	remaining := total - (offset + viewport)
	return float64(remaining) <= threshold*float64(viewport)
}
