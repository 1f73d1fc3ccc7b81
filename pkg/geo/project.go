package geo

import "math"

// Project finds the point on path nearest to loc and returns its position
// as a relative offset in [0.0, 1.0] along the path's geodesic length.
//
// The nearest segment is located with a planar (equirectangular) projection
// local to each segment -- accurate enough for the short segments a road
// network's lines are made of -- and the winning segment's parametric
// offset is then converted to a length fraction using the same geodesic
// distance function used everywhere else, so the result is consistent with
// LineStringLength and Interpolate.
func Project(path []Location, loc Location, tool Tool) float64 {
	if len(path) == 0 {
		return 0
	}
	if len(path) == 1 {
		return 0
	}

	bestDist := math.Inf(1)
	bestSeg := 0
	bestT := 0.0

	cosLat := math.Cos(loc.Latitude * math.Pi / 180.0)

	for i := 0; i+1 < len(path); i++ {
		p1, p2 := path[i], path[i+1]

		dx := (p2.Longitude - p1.Longitude) * cosLat
		dy := p2.Latitude - p1.Latitude
		wx := (loc.Longitude - p1.Longitude) * cosLat
		wy := loc.Latitude - p1.Latitude

		segLenSq := dx*dx + dy*dy
		t := 0.0
		if segLenSq > 0 {
			t = (wx*dx + wy*dy) / segLenSq
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}

		candidate := Location{
			Latitude:  p1.Latitude + t*(p2.Latitude-p1.Latitude),
			Longitude: p1.Longitude + t*(p2.Longitude-p1.Longitude),
		}
		d := tool.Distance(loc, candidate)
		if d < bestDist {
			bestDist = d
			bestSeg = i
			bestT = t
		}
	}

	total := tool.LineStringLength(path)
	if total == 0 {
		return 0
	}

	var consumed float64
	for i := 0; i < bestSeg; i++ {
		consumed += tool.Distance(path[i], path[i+1])
	}
	consumed += bestT * tool.Distance(path[bestSeg], path[bestSeg+1])

	offset := consumed / total
	if offset < 0 {
		offset = 0
	} else if offset > 1 {
		offset = 1
	}
	return offset
}
