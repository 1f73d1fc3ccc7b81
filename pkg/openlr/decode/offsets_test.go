package decode

import (
	"errors"
	"iter"
	"testing"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

type oNode struct{ id any }

func (n *oNode) ID() any                       { return n.id }
func (n *oNode) Position() geo.Location        { return geo.Location{} }
func (n *oNode) Incoming() iter.Seq[model.Line] { return func(func(model.Line) bool) {} }
func (n *oNode) Outgoing() iter.Seq[model.Line] { return func(func(model.Line) bool) {} }
func (n *oNode) Incident() iter.Seq[model.Line] { return func(func(model.Line) bool) {} }

type oLine struct {
	id         any
	start, end *oNode
	length     float64
}

func (l *oLine) ID() any                  { return l.id }
func (l *oLine) StartNode() model.Node    { return l.start }
func (l *oLine) EndNode() model.Node      { return l.end }
func (l *oLine) FRC() model.FRC           { return model.FRC3 }
func (l *oLine) FOW() model.FOW           { return model.FOWSingleCarriageway }
func (l *oLine) Geometry() []geo.Location { return []geo.Location{{}, {}} }
func (l *oLine) Length() float64          { return l.length }

// buildTwoLineRoute builds a single Route spanning two whole lines (ab, bc),
// each 100m long, entered and exited at their very ends.
func buildTwoLineRoute(t *testing.T) model.Route {
	t.Helper()
	a, b, c := &oNode{"a"}, &oNode{"b"}, &oNode{"c"}
	ab := &oLine{id: "ab", start: a, end: b, length: 100}
	bc := &oLine{id: "bc", start: b, end: c, length: 100}

	start, err := model.NewPointOnLine(ab, 0)
	if err != nil {
		t.Fatalf("NewPointOnLine: %v", err)
	}
	end, err := model.NewPointOnLine(bc, 1)
	if err != nil {
		t.Fatalf("NewPointOnLine: %v", err)
	}
	route, err := model.NewRoute(start, nil, end)
	if err != nil {
		t.Fatalf("NewRoute: %v", err)
	}
	return route
}

func TestTrimOffsetsNoTrim(t *testing.T) {
	route := buildTwoLineRoute(t)
	loc, err := TrimOffsets([]model.Route{route}, 0, 0)
	if err != nil {
		t.Fatalf("TrimOffsets failed: %v", err)
	}
	if len(loc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(loc.Lines))
	}
	if loc.StartOffsetM != 0 || loc.EndOffsetM != 0 {
		t.Errorf("expected zero offsets, got start=%v end=%v", loc.StartOffsetM, loc.EndOffsetM)
	}
}

func TestTrimOffsetsPopsHeadLine(t *testing.T) {
	route := buildTwoLineRoute(t)
	// 150m positive offset eats all of ab (100m) plus 50m of bc.
	loc, err := TrimOffsets([]model.Route{route}, 150, 0)
	if err != nil {
		t.Fatalf("TrimOffsets failed: %v", err)
	}
	if len(loc.Lines) != 1 || loc.Lines[0].ID() != "bc" {
		t.Fatalf("expected only bc to survive, got %+v", loc.Lines)
	}
	if loc.StartOffsetM != 50 {
		t.Errorf("expected 50m into bc, got %v", loc.StartOffsetM)
	}
}

func TestTrimOffsetsExceedsRouteLength(t *testing.T) {
	route := buildTwoLineRoute(t)
	_, err := TrimOffsets([]model.Route{route}, 500, 0)
	if err == nil {
		t.Fatal("expected an OffsetTooLarge error")
	}
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.Error, got %T", err)
	}
	if derr.Code != CodeOffsetTooLarge {
		t.Errorf("expected CodeOffsetTooLarge, got %v", derr.Code)
	}
}

func TestTrimOffsetsHeadAndTailLeaveNothing(t *testing.T) {
	route := buildTwoLineRoute(t)
	// head eats ab entirely and 60m of bc; tail eats 50m from the end of bc,
	// leaving headIdx==tailIdx with combined offsets exceeding bc's length.
	_, err := TrimOffsets([]model.Route{route}, 160, 50)
	if err == nil {
		t.Fatal("expected the surviving line to be fully consumed")
	}
}

func TestTrimOffsetsEmptyRoutes(t *testing.T) {
	_, err := TrimOffsets(nil, 0, 0)
	if err == nil {
		t.Fatal("expected an error for no routes")
	}
}
