package decode

import "github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"

// flattenRoutes concatenates an ordered list of Routes into a single list of
// Lines, collapsing the duplicate line that appears at every junction (each
// route's End and the next route's Start sit on the same candidate's line).
func flattenRoutes(routes []model.Route) []model.Line {
	var lines []model.Line
	for _, r := range routes {
		for _, l := range r.Lines() {
			if n := len(lines); n > 0 && lines[n-1].ID() == l.ID() {
				continue
			}
			lines = append(lines, l)
		}
	}
	return lines
}

// TrimOffsets implements spec.md §4.H: it removes positiveOffset metres from
// the head of the assembled route and negativeOffset metres from the tail,
// popping whole lines as each offset outgrows the line it currently sits on,
// and returns the resulting LineLocation.
func TrimOffsets(routes []model.Route, positiveOffset, negativeOffset float64) (model.LineLocation, error) {
	if len(routes) == 0 {
		return model.LineLocation{}, newError(CodeOffsetTooLarge, "no routes to trim")
	}
	lines := flattenRoutes(routes)
	if len(lines) == 0 {
		return model.LineLocation{}, newError(CodeOffsetTooLarge, "assembled route has no lines")
	}

	startOffset := routes[0].AbsoluteStartOffset() + positiveOffset
	headIdx := 0
	for startOffset >= lines[headIdx].Length() {
		startOffset -= lines[headIdx].Length()
		headIdx++
		if headIdx >= len(lines) {
			return model.LineLocation{}, newError(CodeOffsetTooLarge, "positive offset exceeds assembled route length")
		}
	}

	endOffset := routes[len(routes)-1].AbsoluteEndOffset() + negativeOffset
	tailIdx := len(lines) - 1
	for endOffset >= lines[tailIdx].Length() {
		endOffset -= lines[tailIdx].Length()
		tailIdx--
		if tailIdx < headIdx {
			return model.LineLocation{}, newError(CodeOffsetTooLarge, "negative offset exceeds assembled route length")
		}
	}

	if headIdx > tailIdx {
		return model.LineLocation{}, newError(CodeOffsetTooLarge, "positive and negative offsets leave no surviving line")
	}
	if headIdx == tailIdx && startOffset+endOffset >= lines[headIdx].Length() {
		return model.LineLocation{}, newError(CodeOffsetTooLarge, "positive and negative offsets consume the entire surviving line")
	}

	surviving := append([]model.Line(nil), lines[headIdx:tailIdx+1]...)
	return model.LineLocation{
		Lines:        surviving,
		StartOffsetM: startOffset,
		EndOffsetM:   endOffset,
	}, nil
}
