// Package geo provides ellipsoidal (WGS84) geometry helpers used by the
// OpenLR decoder: point-to-point distance and bearing, interpolation and
// extrapolation along a path, and splitting/joining polylines.
package geo

import (
	"fmt"
	"math"
)

// Location is a WGS84 longitude/latitude pair in degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Equal reports whether two locations are identical to the given tolerance
// in degrees.
func (l Location) Equal(o Location, eps float64) bool {
	return math.Abs(l.Latitude-o.Latitude) <= eps && math.Abs(l.Longitude-o.Longitude) <= eps
}

// Tool is the set of geodesy primitives the decoder needs. The default
// implementation, WGS84, is ellipsoidal; callers targeting a different datum
// or wanting to defer to a faster/approximate implementation can supply
// their own.
type Tool interface {
	// Distance returns the geodesic distance between a and b, in metres.
	Distance(a, b Location) float64
	// Bearing returns the initial forward azimuth from a to b, in radians,
	// in [-pi, pi]. Undefined when a == b.
	Bearing(a, b Location) float64
	// LineStringLength returns the sum of Distance over consecutive vertices.
	LineStringLength(path []Location) float64
	// Interpolate walks d metres along path from path[0] and returns the
	// resulting point. Returns the last vertex if d is at or beyond the
	// path's length.
	Interpolate(path []Location, d float64) Location
	// Extrapolate returns the point d metres from p at azimuth theta
	// (radians).
	Extrapolate(p Location, d, theta float64) Location
	// SplitLine splits path at metric offset d. Either half may be nil if
	// it would degenerate to a single point.
	SplitLine(path []Location, d float64) (first, second []Location)
	// JoinLines concatenates contiguous paths into one. Returns
	// ErrDisconnectedGeometries if consecutive endpoints don't match.
	JoinLines(paths [][]Location) ([]Location, error)
}

// ErrDisconnectedGeometries is returned by JoinLines when consecutive
// polylines do not share an endpoint.
type ErrDisconnectedGeometries struct {
	Index int
}

func (e *ErrDisconnectedGeometries) Error() string {
	return fmt.Sprintf("geo: disconnected geometries at segment %d", e.Index)
}

// sameVertex returns true if two vertices are close enough to be considered
// the same point (used to avoid duplicating a vertex at a split point and to
// validate join continuity).
func sameVertex(a, b Location) bool {
	const eps = 1e-9
	return a.Equal(b, eps)
}
