package geo

import (
	"math"

	geod "github.com/starboard-nz/go-geodesy"
)

// WGS84 is the default Tool implementation. It computes ellipsoidal
// distances and bearings with Vincenty's formulae, via
// github.com/starboard-nz/go-geodesy, the same family of solutions the
// decoder's original Python implementation obtained from geographiclib.
type WGS84 struct{}

func (WGS84) vincenty(l Location) geod.LatLonEllipsoidalVincenty {
	return geod.NewLatLonEllipsodialVincenty(l.Latitude, l.Longitude, geod.WGS84())
}

// Distance returns the ellipsoidal distance between a and b, in metres.
func (t WGS84) Distance(a, b Location) float64 {
	d := t.vincenty(a).DistanceTo(geod.LatLon{Lat: b.Latitude, Lon: b.Longitude})
	return float64(d.Metre())
}

// Bearing returns the initial forward azimuth from a to b, in radians, in
// [-pi, pi].
func (t WGS84) Bearing(a, b Location) float64 {
	deg := float64(t.vincenty(a).InitialBearingTo(geod.LatLon{Lat: b.Latitude, Lon: b.Longitude}))
	rad := deg * math.Pi / 180.0
	for rad > math.Pi {
		rad -= 2 * math.Pi
	}
	for rad < -math.Pi {
		rad += 2 * math.Pi
	}
	return rad
}

// Extrapolate returns the point d metres from p at azimuth theta (radians).
func (t WGS84) Extrapolate(p Location, d, theta float64) Location {
	deg := theta * 180.0 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	dest := t.vincenty(p).DestinationPoint(d, geod.Degrees(deg))
	return Location{Latitude: dest.Lat, Longitude: dest.Lon}
}

// LineStringLength sums Distance over consecutive vertex pairs.
func (t WGS84) LineStringLength(path []Location) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += t.Distance(path[i], path[i+1])
	}
	return total
}

// Interpolate walks d metres along path from path[0]. A negative d
// extrapolates backwards from path[0] along the reverse of the first
// segment's azimuth; this isn't exercised by a well-formed candidate search
// but keeps bearing computation near a line's very start well-defined.
func (t WGS84) Interpolate(path []Location, d float64) Location {
	if len(path) == 0 {
		return Location{}
	}
	if len(path) == 1 {
		return path[0]
	}
	if d == 0 {
		return path[0]
	}
	if d < 0 {
		brg := t.Bearing(path[0], path[1])
		return t.Extrapolate(path[0], -d, brg+math.Pi)
	}
	remaining := d
	for i := 0; i+1 < len(path); i++ {
		segLen := t.Distance(path[i], path[i+1])
		if remaining < segLen {
			brg := t.Bearing(path[i], path[i+1])
			return t.Extrapolate(path[i], remaining, brg)
		}
		remaining -= segLen
	}
	return path[len(path)-1]
}

// SplitLine splits path at metric offset d. d <= 0 returns (nil, path); d >=
// length returns (path, nil). The split point is never duplicated as a
// vertex of both halves.
func (t WGS84) SplitLine(path []Location, d float64) (first, second []Location) {
	if len(path) == 0 {
		return nil, nil
	}
	if d <= 0 {
		return nil, path
	}
	total := t.LineStringLength(path)
	if d >= total {
		return path, nil
	}

	remaining := d
	var firstPart []Location
	var splitPoint Location
	found := false

	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		if !found {
			firstPart = append(firstPart, from)
			segLen := t.Distance(from, to)
			if remaining < segLen {
				splitPoint = t.Interpolate([]Location{from, to}, remaining)
				if !sameVertex(splitPoint, from) {
					firstPart = append(firstPart, splitPoint)
				}
				second = append(second, splitPoint, to)
				found = true
			} else {
				remaining -= segLen
			}
		} else {
			second = append(second, to)
		}
	}

	if !found {
		return path, nil
	}
	if len(firstPart) < 2 {
		firstPart = nil
	}
	if len(second) < 2 {
		second = nil
	}
	return firstPart, second
}

// JoinLines concatenates contiguous paths into a single polyline.
func (t WGS84) JoinLines(paths [][]Location) ([]Location, error) {
	var result []Location
	var last Location
	haveLast := false

	for i, p := range paths {
		if len(p) == 0 {
			continue
		}
		if haveLast {
			if !sameVertex(p[0], last) {
				return nil, &ErrDisconnectedGeometries{Index: i}
			}
			result = append(result, p[1:]...)
		} else {
			result = append(result, p...)
		}
		last = p[len(p)-1]
		haveLast = true
	}
	return result, nil
}
