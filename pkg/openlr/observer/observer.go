// Package observer defines the decoder's reporting hook: a polymorphic
// capability set for candidates considered, rejected, scored, and routed,
// plus no-op, collecting, logging, and metrics implementations.
package observer

import "github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"

// RejectReason names why a candidate was discarded.
type RejectReason string

const (
	RejectBearing RejectReason = "bearing"
	RejectFRC     RejectReason = "frc"
	RejectScore   RejectReason = "score"
)

// RouteFailReason names why a routing attempt between a candidate pair
// failed.
type RouteFailReason string

const (
	RouteFailNotFound RouteFailReason = "not_found"
	RouteFailLength   RouteFailReason = "length"
)

// ScoreBreakdown carries a candidate's four sub-scores and its total, for
// CandidateScored.
type ScoreBreakdown struct {
	Total, Geo, FRC, FOW, Bear float64
}

// Observer is the decoder's reporting hook. The decoder holds it by
// reference for the duration of one decode call; implementations must not
// depend on any method's return value, since these are one-way
// notifications, not control-flow hooks.
type Observer interface {
	// CandidateFound reports a single candidate surviving nomination for
	// lrpIndex before scoring is applied.
	CandidateFound(lrpIndex int, lrp model.LRP, candidate model.PointOnLine)
	// CandidateRejected reports a candidate discarded for a generic reason
	// (currently only RejectScore; bearing and FRC rejections use their own
	// dedicated methods, matching spec.md §4.D/§4.E's named rejection
	// events).
	CandidateRejected(lrpIndex int, lrp model.LRP, candidate model.PointOnLine, reason RejectReason)
	// CandidateRejectedBearing reports a candidate whose bearing deviation
	// exceeded config.MaxBearDeviation.
	CandidateRejectedBearing(lrpIndex int, lrp model.LRP, candidate model.PointOnLine, deviationDeg float64)
	// CandidateRejectedFRC reports a candidate whose FRC was too far from
	// the LRP's (FRC sub-score 0). Nominate still scores such a candidate
	// and keeps it if its total reaches config.MinScore.
	CandidateRejectedFRC(lrpIndex int, lrp model.LRP, candidate model.PointOnLine)
	// CandidateScored reports the sub-score breakdown computed for a
	// surviving candidate.
	CandidateScored(lrpIndex int, candidate model.Candidate, breakdown ScoreBreakdown)
	// NoCandidatesFound reports that nomination for lrpIndex produced no
	// candidate meeting config.MinScore.
	NoCandidatesFound(lrpIndex int, lrp model.LRP)
	// CandidatesFound reports the final surviving candidate count for
	// lrpIndex, after scoring and filtering.
	CandidatesFound(lrpIndex int, lrp model.LRP, count int)
	// RouteSuccess reports a routing attempt between lrpIndex and
	// lrpIndex+1 that produced an accepted route.
	RouteSuccess(lrpIndex int, route model.Route)
	// RouteFail reports a routing attempt that failed for reason.
	RouteFail(lrpIndex int, reason RouteFailReason)
	// RouteFailLength reports a route that was found but whose length fell
	// outside [d_min, d_max].
	RouteFailLength(lrpIndex int, gotLength, dMin, dMax float64)
	// MatchingFail reports that every candidate for lrpIndex was exhausted
	// without a route forward, and the search is backtracking (or failing
	// outright if lrpIndex is the first LRP).
	MatchingFail(lrpIndex int)
}

// Noop is the default Observer: every method is a no-op.
type Noop struct{}

func (Noop) CandidateFound(int, model.LRP, model.PointOnLine)                      {}
func (Noop) CandidateRejected(int, model.LRP, model.PointOnLine, RejectReason)      {}
func (Noop) CandidateRejectedBearing(int, model.LRP, model.PointOnLine, float64)    {}
func (Noop) CandidateRejectedFRC(int, model.LRP, model.PointOnLine)                 {}
func (Noop) CandidateScored(int, model.Candidate, ScoreBreakdown)                   {}
func (Noop) NoCandidatesFound(int, model.LRP)                                       {}
func (Noop) CandidatesFound(int, model.LRP, int)                                    {}
func (Noop) RouteSuccess(int, model.Route)                                          {}
func (Noop) RouteFail(int, RouteFailReason)                                         {}
func (Noop) RouteFailLength(int, float64, float64, float64)                         {}
func (Noop) MatchingFail(int)                                                       {}

// multi fans a single Observer call out to every observer it wraps.
type multi struct {
	observers []Observer
}

// Multi composes several observers into one, each receiving every event.
func Multi(obs ...Observer) Observer {
	return multi{observers: obs}
}

func (m multi) CandidateFound(i int, lrp model.LRP, c model.PointOnLine) {
	for _, o := range m.observers {
		o.CandidateFound(i, lrp, c)
	}
}

func (m multi) CandidateRejected(i int, lrp model.LRP, c model.PointOnLine, reason RejectReason) {
	for _, o := range m.observers {
		o.CandidateRejected(i, lrp, c, reason)
	}
}

func (m multi) CandidateRejectedBearing(i int, lrp model.LRP, c model.PointOnLine, deviationDeg float64) {
	for _, o := range m.observers {
		o.CandidateRejectedBearing(i, lrp, c, deviationDeg)
	}
}

func (m multi) CandidateRejectedFRC(i int, lrp model.LRP, c model.PointOnLine) {
	for _, o := range m.observers {
		o.CandidateRejectedFRC(i, lrp, c)
	}
}

func (m multi) CandidateScored(i int, c model.Candidate, breakdown ScoreBreakdown) {
	for _, o := range m.observers {
		o.CandidateScored(i, c, breakdown)
	}
}

func (m multi) NoCandidatesFound(i int, lrp model.LRP) {
	for _, o := range m.observers {
		o.NoCandidatesFound(i, lrp)
	}
}

func (m multi) CandidatesFound(i int, lrp model.LRP, count int) {
	for _, o := range m.observers {
		o.CandidatesFound(i, lrp, count)
	}
}

func (m multi) RouteSuccess(i int, route model.Route) {
	for _, o := range m.observers {
		o.RouteSuccess(i, route)
	}
}

func (m multi) RouteFail(i int, reason RouteFailReason) {
	for _, o := range m.observers {
		o.RouteFail(i, reason)
	}
}

func (m multi) RouteFailLength(i int, gotLength, dMin, dMax float64) {
	for _, o := range m.observers {
		o.RouteFailLength(i, gotLength, dMin, dMax)
	}
}

func (m multi) MatchingFail(i int) {
	for _, o := range m.observers {
		o.MatchingFail(i)
	}
}
