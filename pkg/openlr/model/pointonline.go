package model

import (
	"fmt"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
)

// PointOnLine is a line plus a relative offset in [0.0, 1.0]. The zero value
// is not valid; construct with NewPointOnLine or FromAbsoluteOffset.
type PointOnLine struct {
	Line           Line
	RelativeOffset float64
}

// NewPointOnLine validates relativeOffset before constructing a PointOnLine.
func NewPointOnLine(line Line, relativeOffset float64) (PointOnLine, error) {
	if line == nil {
		return PointOnLine{}, fmt.Errorf("model: PointOnLine requires a non-nil line")
	}
	if relativeOffset < 0 || relativeOffset > 1 {
		return PointOnLine{}, fmt.Errorf("model: relative offset %.6f out of [0,1]", relativeOffset)
	}
	return PointOnLine{Line: line, RelativeOffset: relativeOffset}, nil
}

// FromAbsoluteOffset constructs a PointOnLine from a metric offset into the
// line, clamping to the line's length.
func FromAbsoluteOffset(line Line, absoluteOffsetM float64) (PointOnLine, error) {
	length := line.Length()
	if length <= 0 {
		return NewPointOnLine(line, 0)
	}
	rel := absoluteOffsetM / length
	if rel < 0 {
		rel = 0
	} else if rel > 1 {
		rel = 1
	}
	return NewPointOnLine(line, rel)
}

// DistanceFromStart is RelativeOffset * Line.Length().
func (p PointOnLine) DistanceFromStart() float64 {
	return p.RelativeOffset * p.Line.Length()
}

// DistanceToEnd is (1 - RelativeOffset) * Line.Length().
func (p PointOnLine) DistanceToEnd() float64 {
	return (1 - p.RelativeOffset) * p.Line.Length()
}

// Position projects p's relative offset onto the line's geometry using
// tool's geodesic interpolation.
func (p PointOnLine) Position(tool geo.Tool) geo.Location {
	return tool.Interpolate(p.Line.Geometry(), p.DistanceFromStart())
}

// Split divides the line's geometry at p, returning the geometry before and
// after the point.
func (p PointOnLine) Split(tool geo.Tool) (before, after []geo.Location) {
	return tool.SplitLine(p.Line.Geometry(), p.DistanceFromStart())
}

// Route is a start PointOnLine, an ordered list of whole in-between Lines,
// and an end PointOnLine, forming a connected directed walk. Construct with
// NewRoute, which enforces the connectivity and collapsed-duplicate
// invariants.
type Route struct {
	Start         PointOnLine
	PathInBetween []Line
	End           PointOnLine
}

// NewRoute validates that start.line, pathInBetween..., end.line form a
// connected walk (consecutive lines share a node), collapses consecutive
// duplicate line ids, and checks the same-line ordering invariant.
func NewRoute(start PointOnLine, pathInBetween []Line, end PointOnLine) (Route, error) {
	lines := append([]Line{start.Line}, pathInBetween...)
	lines = append(lines, end.Line)

	collapsed := make([]Line, 0, len(lines))
	for _, l := range lines {
		if n := len(collapsed); n > 0 && collapsed[n-1].ID() == l.ID() {
			continue
		}
		collapsed = append(collapsed, l)
	}

	for i := 0; i+1 < len(collapsed); i++ {
		if collapsed[i].EndNode().ID() != collapsed[i+1].StartNode().ID() {
			return Route{}, fmt.Errorf("model: route not connected between line %v and line %v",
				collapsed[i].ID(), collapsed[i+1].ID())
		}
	}

	if start.Line.ID() == end.Line.ID() && start.RelativeOffset > end.RelativeOffset {
		return Route{}, fmt.Errorf("model: same-line route requires start offset %.6f <= end offset %.6f",
			start.RelativeOffset, end.RelativeOffset)
	}

	var mid []Line
	if len(collapsed) > 2 {
		mid = collapsed[1 : len(collapsed)-1]
	}
	return Route{Start: start, PathInBetween: mid, End: end}, nil
}

// Lines returns the full ordered, duplicate-collapsed list of lines this
// route traverses, including the partial start and end lines.
func (r Route) Lines() []Line {
	all := append([]Line{r.Start.Line}, r.PathInBetween...)
	all = append(all, r.End.Line)
	out := make([]Line, 0, len(all))
	for _, l := range all {
		if n := len(out); n > 0 && out[n-1].ID() == l.ID() {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Length is the route's total walked length: the sum of the traversed
// lines' lengths, minus the part of the start line before Start and the
// part of the end line after End.
func (r Route) Length() float64 {
	lines := r.Lines()
	var total float64
	for _, l := range lines {
		total += l.Length()
	}
	total -= r.Start.DistanceFromStart()
	total -= r.End.DistanceToEnd()
	return total
}

// AbsoluteStartOffset is the metric distance from the start of the route's
// first line to Start.
func (r Route) AbsoluteStartOffset() float64 {
	return r.Start.DistanceFromStart()
}

// AbsoluteEndOffset is the metric distance from End to the end of the
// route's last line.
func (r Route) AbsoluteEndOffset() float64 {
	return r.End.DistanceToEnd()
}

// Shape returns the route's full geometry: the start line's tail, the
// in-between lines' full geometries, and the end line's head, joined into
// one polyline.
func (r Route) Shape(tool geo.Tool) ([]geo.Location, error) {
	_, startTail := r.Start.Split(tool)
	endHead, _ := r.End.Split(tool)

	if r.Start.Line.ID() == r.End.Line.ID() && len(r.PathInBetween) == 0 {
		mid, _ := tool.SplitLine(startTail, r.End.DistanceFromStart()-r.Start.DistanceFromStart())
		return mid, nil
	}

	paths := make([][]geo.Location, 0, len(r.PathInBetween)+2)
	paths = append(paths, startTail)
	for _, l := range r.PathInBetween {
		paths = append(paths, l.Geometry())
	}
	paths = append(paths, endHead)
	return tool.JoinLines(paths)
}

// Candidate is a PointOnLine nominated for an LRP, annotated with its
// overall score and the four sub-scores that produced it. Created by
// candidate nomination, consumed by the tail matcher, and discarded once
// decoding completes.
type Candidate struct {
	PointOnLine
	Score     float64
	GeoScore  float64
	FRCScore  float64
	FOWScore  float64
	BearScore float64
}

// LineLocation is the decoder's final output.
type LineLocation struct {
	Lines []Line
	// StartOffsetM is the absolute distance, in metres, into Lines[0].
	StartOffsetM float64
	// EndOffsetM is the absolute distance, in metres, before the end of
	// Lines[len(Lines)-1].
	EndOffsetM float64
}
