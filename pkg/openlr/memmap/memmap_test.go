package memmap

import (
	"strings"
	"testing"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

func buildTriangle(t *testing.T) *Map {
	t.Helper()
	m := New(geo.WGS84{})
	m.AddNode("a", geo.Location{Latitude: 0, Longitude: 0})
	m.AddNode("b", geo.Location{Latitude: 0, Longitude: 0.001})
	m.AddNode("c", geo.Location{Latitude: 0.001, Longitude: 0.001})

	if err := m.AddBidirectionalLine("ab", "ba", "a", "b", model.FRC3, model.FOWSingleCarriageway,
		[]geo.Location{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 0.001}}); err != nil {
		t.Fatalf("AddBidirectionalLine: %v", err)
	}
	if _, err := m.AddLine("bc", "b", "c", model.FRC3, model.FOWSingleCarriageway,
		[]geo.Location{{Latitude: 0, Longitude: 0.001}, {Latitude: 0.001, Longitude: 0.001}}); err != nil {
		t.Fatalf("AddLine bc: %v", err)
	}
	return m
}

func TestAddBidirectionalLineReversesGeometry(t *testing.T) {
	m := buildTriangle(t)

	fwd, err := m.GetLine("ab")
	if err != nil {
		t.Fatalf("GetLine ab: %v", err)
	}
	rev, err := m.GetLine("ba")
	if err != nil {
		t.Fatalf("GetLine ba: %v", err)
	}
	if fwd.StartNode().ID() != rev.EndNode().ID() || fwd.EndNode().ID() != rev.StartNode().ID() {
		t.Errorf("expected ba to reverse ab's endpoints, got fwd=%v->%v rev=%v->%v",
			fwd.StartNode().ID(), fwd.EndNode().ID(), rev.StartNode().ID(), rev.EndNode().ID())
	}
	if fwd.Length() != rev.Length() {
		t.Errorf("expected equal lengths for forward/reverse, got %v vs %v", fwd.Length(), rev.Length())
	}
}

func TestNodeIncidentCombinesInAndOut(t *testing.T) {
	m := buildTriangle(t)
	b, err := m.GetNode("b")
	if err != nil {
		t.Fatalf("GetNode b: %v", err)
	}
	var ids []string
	for l := range b.Incident() {
		ids = append(ids, l.ID().(string))
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 incident lines (ab in, ba out, bc out), got %v", ids)
	}
}

func TestFindLinesCloseToRespectsRadius(t *testing.T) {
	m := buildTriangle(t)
	// ~22m off the ab/ba line (which runs along latitude 0).
	near := geo.Location{Latitude: 0.0002, Longitude: 0.0005}

	var found []string
	for l := range m.FindLinesCloseTo(near, 50) {
		found = append(found, l.ID().(string))
	}
	if len(found) == 0 {
		t.Fatal("expected the ab/ba lines within 50m of a nearby point")
	}
	for l := range m.FindLinesCloseTo(near, 1) {
		t.Errorf("expected no lines within 1m of a point ~22m off the line, got %v", l.ID())
	}
}

func TestGetLinesDeterministicOrder(t *testing.T) {
	m := buildTriangle(t)
	var first, second []string
	for l := range m.GetLines() {
		first = append(first, l.ID().(string))
	}
	for l := range m.GetLines() {
		second = append(second, l.ID().(string))
	}
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Errorf("expected stable iteration order, got %v then %v", first, second)
	}
}

func TestLoadJSONRoundTrip(t *testing.T) {
	doc := strings.NewReader(`{
		"nodes": [
			{"id": "a", "lat": 0, "lon": 0},
			{"id": "b", "lat": 0, "lon": 0.001}
		],
		"lines": [
			{"id": "ab", "start_node": "a", "end_node": "b", "frc": 3, "fow": "single_carriageway",
			 "geometry": [[0, 0], [0.001, 0]]}
		]
	}`)

	m, err := LoadJSON(doc, geo.WGS84{})
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	line, err := m.GetLine("ab")
	if err != nil {
		t.Fatalf("GetLine ab: %v", err)
	}
	if line.FRC() != model.FRC3 {
		t.Errorf("expected FRC3, got %v", line.FRC())
	}
	if line.FOW() != model.FOWSingleCarriageway {
		t.Errorf("expected single_carriageway, got %v", line.FOW())
	}
	if line.Length() <= 0 {
		t.Errorf("expected a positive length, got %v", line.Length())
	}
}

func TestLoadJSONUnknownFOWFails(t *testing.T) {
	doc := strings.NewReader(`{
		"nodes": [{"id": "a", "lat": 0, "lon": 0}, {"id": "b", "lat": 0, "lon": 0.001}],
		"lines": [{"id": "ab", "start_node": "a", "end_node": "b", "frc": 3, "fow": "nonsense",
		           "geometry": [[0, 0], [0.001, 0]]}]
	}`)
	if _, err := LoadJSON(doc, geo.WGS84{}); err == nil {
		t.Fatal("expected an error for an unrecognized form of way")
	}
}
