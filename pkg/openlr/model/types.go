// Package model defines the value types and map-reader contract the OpenLR
// decoder operates over: functional road class and form of way, location
// reference points, the Node/Line/MapReader interfaces, and the
// PointOnLine/Route/LineLocation types derived from them.
package model

import (
	"fmt"
	"iter"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
)

// FRC is a functional road class: 0 is the most important (motorway), 7 the
// least.
type FRC uint8

const (
	FRC0 FRC = iota
	FRC1
	FRC2
	FRC3
	FRC4
	FRC5
	FRC6
	FRC7
)

func (f FRC) String() string {
	if f > FRC7 {
		return fmt.Sprintf("FRC%d(invalid)", uint8(f))
	}
	return fmt.Sprintf("FRC%d", uint8(f))
}

// Valid reports whether f is within the defined 0-7 range.
func (f FRC) Valid() bool {
	return f <= FRC7
}

// FOW is a form of way: the categorical shape of a road.
type FOW uint8

const (
	FOWUndefined FOW = iota
	FOWMotorway
	FOWMultipleCarriageway
	FOWSingleCarriageway
	FOWRoundabout
	FOWTrafficSquare
	FOWSlipRoad
	FOWOther
)

var fowNames = map[FOW]string{
	FOWUndefined:           "undefined",
	FOWMotorway:            "motorway",
	FOWMultipleCarriageway: "multiple_carriageway",
	FOWSingleCarriageway:   "single_carriageway",
	FOWRoundabout:          "roundabout",
	FOWTrafficSquare:       "traffic_square",
	FOWSlipRoad:            "slip_road",
	FOWOther:               "other",
}

var fowByName = func() map[string]FOW {
	m := make(map[string]FOW, len(fowNames))
	for k, v := range fowNames {
		m[v] = k
	}
	return m
}()

func (f FOW) String() string {
	if name, ok := fowNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FOW%d(invalid)", uint8(f))
}

// ParseFOW looks up a FOW by its wire/config name (as produced by String).
func ParseFOW(name string) (FOW, error) {
	f, ok := fowByName[name]
	if !ok {
		return 0, fmt.Errorf("model: unknown form of way %q", name)
	}
	return f, nil
}

// fowFamily groups FOW values that are considered related for scoring
// purposes: a motorway and its slip road are "the same family", as are a
// single- and multiple-carriageway road.
var fowFamily = map[FOW]string{
	FOWMotorway:            "motorway",
	FOWSlipRoad:            "motorway",
	FOWSingleCarriageway:   "carriageway",
	FOWMultipleCarriageway: "carriageway",
	FOWRoundabout:          "roundabout",
	FOWTrafficSquare:       "roundabout",
	FOWUndefined:           "",
	FOWOther:               "",
}

// SameFamily reports whether two forms of way belong to the same road
// family (e.g. motorway/slip-road, single-/multiple-carriageway).
// FOWUndefined and FOWOther never match any family, including themselves.
func SameFamily(a, b FOW) bool {
	fa, fb := fowFamily[a], fowFamily[b]
	return fa != "" && fa == fb
}

// LRP is a Location Reference Point: one entry of a decoded OpenLR line
// location reference.
type LRP struct {
	Position geo.Location
	FRC      FRC
	FOW      FOW
	// Bearing is in degrees, [0, 360), clockwise from north, measured along
	// the road a fixed bear_dist from the LRP.
	Bearing float64
	// LFRCNP is the lowest FRC permitted on the route to the next LRP. Zero
	// value on the last LRP, where it is unused.
	LFRCNP FRC
	// DNP is the distance in metres to the next LRP. Nil on the last LRP.
	DNP  *float64
	Last bool
}

// LineLocationReference is the already-decoded input to Decode: an ordered
// chain of LRPs plus the head/tail trim offsets.
type LineLocationReference struct {
	Points []LRP
	// PositiveOffset trims metres from the start of the first line.
	PositiveOffset float64
	// NegativeOffset trims metres from the end of the last line.
	NegativeOffset float64
}

// Validate checks the structural invariants a LineLocationReference must
// satisfy before decoding: at least two points, exactly the last flagged
// Last, DNP present on every non-last point and absent on the last.
func (r LineLocationReference) Validate() error {
	if len(r.Points) < 2 {
		return fmt.Errorf("model: line location reference needs at least 2 points, got %d", len(r.Points))
	}
	for i, p := range r.Points {
		isLast := i == len(r.Points)-1
		if p.Last != isLast {
			return fmt.Errorf("model: point %d has Last=%v, want %v", i, p.Last, isLast)
		}
		if isLast {
			if p.DNP != nil {
				return fmt.Errorf("model: last point must not carry a DNP")
			}
		} else if p.DNP == nil {
			return fmt.Errorf("model: point %d is missing its DNP", i)
		}
		if !p.FRC.Valid() {
			return fmt.Errorf("model: point %d has invalid FRC %d", i, p.FRC)
		}
	}
	return nil
}

// Node is a map-graph vertex: identified by a comparable id, with a
// position and iterators over its incident lines. Implementations must use
// genuinely comparable ID values, since IDs are used as map keys during
// decoding.
type Node interface {
	ID() any
	Position() geo.Location
	Incoming() iter.Seq[Line]
	Outgoing() iter.Seq[Line]
	Incident() iter.Seq[Line]
}

// Line is a directed map-graph edge: identified by a comparable id, with
// start/end nodes, FRC/FOW attributes, a polyline geometry, and a length
// that must equal the geodesic length of that geometry.
type Line interface {
	ID() any
	StartNode() Node
	EndNode() Node
	FRC() FRC
	FOW() FOW
	Geometry() []geo.Location
	Length() float64
}

// MapReader is the read-only data source the decoder queries. It promises
// no mutation and no caching semantics; implementations may back it with an
// in-memory graph, an R-tree, or a spatial database.
type MapReader interface {
	GetLine(id any) (Line, error)
	GetNode(id any) (Node, error)
	GetLines() iter.Seq[Line]
	GetNodes() iter.Seq[Node]
	// FindLinesCloseTo yields every line whose minimum distance to coord is
	// at most radiusM; order is unspecified and extra lines are tolerated.
	// The returned sequence must be safe to abandon early (range-break)
	// without leaking resources.
	FindLinesCloseTo(coord geo.Location, radiusM float64) iter.Seq[Line]
	// FindNodesCloseTo is the Node analogue of FindLinesCloseTo.
	FindNodesCloseTo(coord geo.Location, radiusM float64) iter.Seq[Node]
}
