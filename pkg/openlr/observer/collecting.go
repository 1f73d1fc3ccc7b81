package observer

import "github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"

// EventKind names the kind of event recorded by Collecting.
type EventKind string

const (
	EventCandidateFound            EventKind = "candidate_found"
	EventCandidateRejected         EventKind = "candidate_rejected"
	EventCandidateRejectedBearing  EventKind = "candidate_rejected_bearing"
	EventCandidateRejectedFRC      EventKind = "candidate_rejected_frc"
	EventCandidateScored           EventKind = "candidate_scored"
	EventNoCandidatesFound         EventKind = "no_candidates_found"
	EventCandidatesFound           EventKind = "candidates_found"
	EventRouteSuccess              EventKind = "route_success"
	EventRouteFail                 EventKind = "route_fail"
	EventRouteFailLength           EventKind = "route_fail_length"
	EventMatchingFail              EventKind = "matching_fail"
)

// Event is one recorded Observer call. Only the fields relevant to Kind are
// populated; the rest are zero.
type Event struct {
	Kind            EventKind
	LRPIndex        int
	LRP             model.LRP
	Candidate       model.PointOnLine
	ScoredCandidate model.Candidate
	Breakdown       ScoreBreakdown
	RejectReason    RejectReason
	BearingDevDeg   float64
	CandidateCount  int
	Route           model.Route
	RouteFailReason RouteFailReason
	RouteLength     float64
	DMin, DMax      float64
}

// Collecting retains every event in order, for tests and callers that want
// to replay a decode's decision trail.
type Collecting struct {
	Events []Event
}

func (c *Collecting) CandidateFound(i int, lrp model.LRP, cand model.PointOnLine) {
	c.Events = append(c.Events, Event{Kind: EventCandidateFound, LRPIndex: i, LRP: lrp, Candidate: cand})
}

func (c *Collecting) CandidateRejected(i int, lrp model.LRP, cand model.PointOnLine, reason RejectReason) {
	c.Events = append(c.Events, Event{Kind: EventCandidateRejected, LRPIndex: i, LRP: lrp, Candidate: cand, RejectReason: reason})
}

func (c *Collecting) CandidateRejectedBearing(i int, lrp model.LRP, cand model.PointOnLine, deviationDeg float64) {
	c.Events = append(c.Events, Event{Kind: EventCandidateRejectedBearing, LRPIndex: i, LRP: lrp, Candidate: cand, BearingDevDeg: deviationDeg})
}

func (c *Collecting) CandidateRejectedFRC(i int, lrp model.LRP, cand model.PointOnLine) {
	c.Events = append(c.Events, Event{Kind: EventCandidateRejectedFRC, LRPIndex: i, LRP: lrp, Candidate: cand})
}

func (c *Collecting) CandidateScored(i int, cand model.Candidate, breakdown ScoreBreakdown) {
	c.Events = append(c.Events, Event{Kind: EventCandidateScored, LRPIndex: i, ScoredCandidate: cand, Breakdown: breakdown})
}

func (c *Collecting) NoCandidatesFound(i int, lrp model.LRP) {
	c.Events = append(c.Events, Event{Kind: EventNoCandidatesFound, LRPIndex: i, LRP: lrp})
}

func (c *Collecting) CandidatesFound(i int, lrp model.LRP, count int) {
	c.Events = append(c.Events, Event{Kind: EventCandidatesFound, LRPIndex: i, LRP: lrp, CandidateCount: count})
}

func (c *Collecting) RouteSuccess(i int, route model.Route) {
	c.Events = append(c.Events, Event{Kind: EventRouteSuccess, LRPIndex: i, Route: route})
}

func (c *Collecting) RouteFail(i int, reason RouteFailReason) {
	c.Events = append(c.Events, Event{Kind: EventRouteFail, LRPIndex: i, RouteFailReason: reason})
}

func (c *Collecting) RouteFailLength(i int, gotLength, dMin, dMax float64) {
	c.Events = append(c.Events, Event{Kind: EventRouteFailLength, LRPIndex: i, RouteLength: gotLength, DMin: dMin, DMax: dMax})
}

func (c *Collecting) MatchingFail(i int) {
	c.Events = append(c.Events, Event{Kind: EventMatchingFail, LRPIndex: i})
}
