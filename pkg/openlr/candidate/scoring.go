// Package candidate nominates and scores PointOnLine anchors for a Location
// Reference Point against a target map.
package candidate

import (
	"math"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/observer"
)

// angularDiff returns the smallest non-negative angular difference between
// two angles in degrees, folded into [0, 180].
func angularDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ComputeBearing computes a candidate's bearing per spec.md §4.E.1: measured
// backwards from the candidate point if isLast, forwards otherwise, over
// bearDist metres (or to the line's start/end, whichever comes first). The
// edge cases (isLast with o==0, or not-last with o==L) return 0, letting the
// candidate be scored poorly without being rejected outright.
func ComputeBearing(point model.PointOnLine, isLast bool, bearDist float64, tool geo.Tool) float64 {
	o := point.DistanceFromStart()
	length := point.Line.Length()

	if isLast && o == 0 {
		return 0
	}
	if !isLast && o == length {
		return 0
	}

	origin := point.Position(tool)
	geometry := point.Line.Geometry()

	var target geo.Location
	if isLast {
		target = tool.Interpolate(geometry, math.Max(0, o-bearDist))
	} else {
		target = tool.Interpolate(geometry, o+bearDist)
	}

	if origin.Equal(target, 1e-12) {
		return 0
	}

	rad := tool.Bearing(origin, target)
	deg := rad * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Breakdown is the per-candidate sub-score computation, before
// config.MinScore filtering. RejectBearing reports whether the bearing
// deviation alone exceeds config.MaxBearDeviation, the one sub-score that
// causes outright rejection rather than merely lowering the total.
type Breakdown struct {
	observer.ScoreBreakdown
	BearingDeviationDeg float64
	RejectBearing       bool
}

// Score computes the four sub-scores and their weighted total for a
// candidate point against lrp, per spec.md §4.E.
func Score(lrp model.LRP, point model.PointOnLine, isLast bool, cfg config.Config, tool geo.Tool) Breakdown {
	candPos := point.Position(tool)
	d := tool.Distance(lrp.Position, candPos)
	geoScore := math.Max(0, 1-d/cfg.SearchRadius)

	frcDiff := math.Abs(float64(point.Line.FRC()) - float64(lrp.FRC))
	frcScore := math.Max(0, 1-frcDiff/7)

	fowScore := cfg.FOWScore(lrp.FOW, point.Line.FOW())

	candBearing := ComputeBearing(point, isLast, cfg.BearDist, tool)
	deviation := angularDiff(lrp.Bearing, candBearing)
	bearScore := math.Max(0, 1-deviation/180)
	rejectBearing := deviation > cfg.MaxBearDeviation

	wsum := cfg.WGeo + cfg.WFRC + cfg.WFOW + cfg.WBear
	if wsum == 0 {
		wsum = 1
	}
	total := (cfg.WGeo*geoScore + cfg.WFRC*frcScore + cfg.WFOW*fowScore + cfg.WBear*bearScore) / wsum

	return Breakdown{
		ScoreBreakdown: observer.ScoreBreakdown{
			Total: total, Geo: geoScore, FRC: frcScore, FOW: fowScore, Bear: bearScore,
		},
		BearingDeviationDeg: deviation,
		RejectBearing:       rejectBearing,
	}
}
