package observer

import (
	"log/slog"

	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

// Logging wraps a *slog.Logger, reporting each event at Debug, except
// NoCandidatesFound and MatchingFail, which log at Info, matching the
// structured-logging idiom used throughout this module family.
type Logging struct {
	Logger *slog.Logger
}

func (l Logging) CandidateFound(i int, lrp model.LRP, cand model.PointOnLine) {
	l.Logger.Debug("candidate found", "lrp_index", i, "line", cand.Line.ID(), "relative_offset", cand.RelativeOffset)
}

func (l Logging) CandidateRejected(i int, lrp model.LRP, cand model.PointOnLine, reason RejectReason) {
	l.Logger.Debug("candidate rejected", "lrp_index", i, "line", cand.Line.ID(), "reason", reason)
}

func (l Logging) CandidateRejectedBearing(i int, lrp model.LRP, cand model.PointOnLine, deviationDeg float64) {
	l.Logger.Debug("candidate rejected: bearing", "lrp_index", i, "line", cand.Line.ID(), "deviation_deg", deviationDeg)
}

func (l Logging) CandidateRejectedFRC(i int, lrp model.LRP, cand model.PointOnLine) {
	l.Logger.Debug("candidate rejected: frc", "lrp_index", i, "line", cand.Line.ID())
}

func (l Logging) CandidateScored(i int, cand model.Candidate, breakdown ScoreBreakdown) {
	l.Logger.Debug("candidate scored", "lrp_index", i, "line", cand.Line.ID(),
		"score", breakdown.Total, "geo", breakdown.Geo, "frc", breakdown.FRC,
		"fow", breakdown.FOW, "bear", breakdown.Bear)
}

func (l Logging) NoCandidatesFound(i int, lrp model.LRP) {
	l.Logger.Info("no candidates found", "lrp_index", i)
}

func (l Logging) CandidatesFound(i int, lrp model.LRP, count int) {
	l.Logger.Debug("candidates found", "lrp_index", i, "count", count)
}

func (l Logging) RouteSuccess(i int, route model.Route) {
	l.Logger.Debug("route accepted", "lrp_index", i, "length", route.Length())
}

func (l Logging) RouteFail(i int, reason RouteFailReason) {
	l.Logger.Debug("route attempt failed", "lrp_index", i, "reason", reason)
}

func (l Logging) RouteFailLength(i int, gotLength, dMin, dMax float64) {
	l.Logger.Debug("route rejected: length out of bounds", "lrp_index", i,
		"length", gotLength, "d_min", dMin, "d_max", dMax)
}

func (l Logging) MatchingFail(i int) {
	l.Logger.Info("matching failed, backtracking", "lrp_index", i)
}
