package model

import (
	"iter"
	"testing"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
)

// fakeNode/fakeLine give model_test.go a minimal Node/Line pair without
// depending on pkg/openlr/memmap, which itself depends on this package.
type fakeNode struct {
	id  any
	pos geo.Location
}

func (n fakeNode) ID() any                { return n.id }
func (n fakeNode) Position() geo.Location { return n.pos }
func (n fakeNode) Incoming() iter.Seq[Line] { return func(func(Line) bool) {} }
func (n fakeNode) Outgoing() iter.Seq[Line] { return func(func(Line) bool) {} }
func (n fakeNode) Incident() iter.Seq[Line] { return func(func(Line) bool) {} }

type fakeLine struct {
	id         any
	start, end fakeNode
	frc        FRC
	fow        FOW
	geometry   []geo.Location
	length     float64
}

func (l fakeLine) ID() any                   { return l.id }
func (l fakeLine) StartNode() Node           { return l.start }
func (l fakeLine) EndNode() Node             { return l.end }
func (l fakeLine) FRC() FRC                  { return l.frc }
func (l fakeLine) FOW() FOW                  { return l.fow }
func (l fakeLine) Geometry() []geo.Location  { return l.geometry }
func (l fakeLine) Length() float64           { return l.length }

func straightLine(id any, length float64) fakeLine {
	start := fakeNode{id: "start-" + id.(string), pos: geo.Location{Latitude: 0, Longitude: 0}}
	end := fakeNode{id: "end-" + id.(string), pos: geo.Location{Latitude: 0, Longitude: 1}}
	return fakeLine{
		id:    id,
		start: start,
		end:   end,
		frc:   FRC0,
		fow:   FOWMotorway,
		geometry: []geo.Location{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 1},
		},
		length: length,
	}
}

func TestLineLocationReferenceValidate(t *testing.T) {
	dnp := 300.0
	good := LineLocationReference{
		Points: []LRP{
			{FRC: FRC0, FOW: FOWMotorway, DNP: &dnp, Last: false},
			{FRC: FRC0, FOW: FOWMotorway, DNP: nil, Last: true},
		},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("expected valid reference, got error: %v", err)
	}

	tooShort := LineLocationReference{Points: []LRP{{Last: true}}}
	if err := tooShort.Validate(); err == nil {
		t.Error("expected error for a single-point reference")
	}

	missingDNP := LineLocationReference{
		Points: []LRP{
			{FRC: FRC0, DNP: nil, Last: false},
			{FRC: FRC0, DNP: nil, Last: true},
		},
	}
	if err := missingDNP.Validate(); err == nil {
		t.Error("expected error when a non-last point is missing its DNP")
	}

	dnpOnLast := LineLocationReference{
		Points: []LRP{
			{FRC: FRC0, DNP: &dnp, Last: false},
			{FRC: FRC0, DNP: &dnp, Last: true},
		},
	}
	if err := dnpOnLast.Validate(); err == nil {
		t.Error("expected error when the last point carries a DNP")
	}
}

func TestSameFamily(t *testing.T) {
	tests := []struct {
		a, b FOW
		want bool
	}{
		{FOWMotorway, FOWSlipRoad, true},
		{FOWSingleCarriageway, FOWMultipleCarriageway, true},
		{FOWRoundabout, FOWTrafficSquare, true},
		{FOWMotorway, FOWSingleCarriageway, false},
		{FOWOther, FOWOther, false},
		{FOWUndefined, FOWUndefined, false},
	}
	for _, tt := range tests {
		if got := SameFamily(tt.a, tt.b); got != tt.want {
			t.Errorf("SameFamily(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFOWRoundTrip(t *testing.T) {
	for f := FOWUndefined; f <= FOWOther; f++ {
		name := f.String()
		got, err := ParseFOW(name)
		if err != nil {
			t.Errorf("ParseFOW(%q) failed: %v", name, err)
		}
		if got != f {
			t.Errorf("ParseFOW(%q) = %v, want %v", name, got, f)
		}
	}
	if _, err := ParseFOW("not-a-fow"); err == nil {
		t.Error("expected error for unknown FOW name")
	}
}

func TestNewPointOnLineValidation(t *testing.T) {
	line := straightLine("l1", 300)

	if _, err := NewPointOnLine(line, 0.5); err != nil {
		t.Errorf("unexpected error for valid offset: %v", err)
	}
	if _, err := NewPointOnLine(line, -0.1); err == nil {
		t.Error("expected error for negative offset")
	}
	if _, err := NewPointOnLine(line, 1.1); err == nil {
		t.Error("expected error for offset > 1")
	}
}

func TestPointOnLineDistances(t *testing.T) {
	line := straightLine("l1", 300)
	p, err := NewPointOnLine(line, 0.25)
	if err != nil {
		t.Fatalf("NewPointOnLine failed: %v", err)
	}
	if got, want := p.DistanceFromStart(), 75.0; got != want {
		t.Errorf("DistanceFromStart() = %v, want %v", got, want)
	}
	if got, want := p.DistanceToEnd(), 225.0; got != want {
		t.Errorf("DistanceToEnd() = %v, want %v", got, want)
	}
}

func TestNewRouteSingleLine(t *testing.T) {
	line := straightLine("l1", 300)
	start, _ := NewPointOnLine(line, 0.1)
	end, _ := NewPointOnLine(line, 0.9)

	route, err := NewRoute(start, nil, end)
	if err != nil {
		t.Fatalf("NewRoute failed: %v", err)
	}
	if len(route.Lines()) != 1 {
		t.Errorf("expected 1 line, got %d", len(route.Lines()))
	}
	wantLen := 300*0.9 - 300*0.1
	if got := route.Length(); got != wantLen {
		t.Errorf("Length() = %v, want %v", got, wantLen)
	}

	// start offset after end offset on the same line must be rejected.
	if _, err := NewRoute(end, nil, start); err == nil {
		t.Error("expected error when same-line start offset exceeds end offset")
	}
}

func TestNewRouteConnectivity(t *testing.T) {
	a := straightLine("a", 100)
	b := fakeLine{
		id:    "b",
		start: a.end,
		end:   fakeNode{id: "far", pos: geo.Location{Latitude: 1, Longitude: 1}},
		frc:   FRC0, fow: FOWMotorway,
		geometry: []geo.Location{{Latitude: 0, Longitude: 1}, {Latitude: 1, Longitude: 1}},
		length:   150,
	}
	disconnected := fakeLine{
		id:    "c",
		start: fakeNode{id: "elsewhere", pos: geo.Location{Latitude: 9, Longitude: 9}},
		end:   fakeNode{id: "elsewhere-end", pos: geo.Location{Latitude: 9, Longitude: 10}},
		frc:   FRC0, fow: FOWMotorway,
		geometry: []geo.Location{{Latitude: 9, Longitude: 9}, {Latitude: 9, Longitude: 10}},
		length:   80,
	}

	start, _ := NewPointOnLine(a, 0)
	end, _ := NewPointOnLine(b, 1)
	if _, err := NewRoute(start, nil, end); err != nil {
		t.Errorf("expected connected route to validate, got: %v", err)
	}

	badEnd, _ := NewPointOnLine(disconnected, 1)
	if _, err := NewRoute(start, nil, badEnd); err == nil {
		t.Error("expected error for disconnected route")
	}
}
