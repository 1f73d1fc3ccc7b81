package observer

import (
	"strconv"

	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/monitoring"
)

// Metrics reports candidate and routing events to the module's Prometheus
// counter vectors (pkg/openlr/monitoring), directly modeled on the wider
// module family's MCPRequestsTotal/ExternalServiceRequestsTotal pattern,
// with lrp_index/reason label dimensions in place of tool/status.
type Metrics struct{}

func idx(i int) string { return strconv.Itoa(i) }

func (Metrics) CandidateFound(i int, lrp model.LRP, cand model.PointOnLine) {
	monitoring.CandidatesFoundTotal.WithLabelValues(idx(i)).Inc()
}

func (Metrics) CandidateRejected(i int, lrp model.LRP, cand model.PointOnLine, reason RejectReason) {
	monitoring.CandidatesRejectedTotal.WithLabelValues(idx(i), string(reason)).Inc()
}

func (Metrics) CandidateRejectedBearing(i int, lrp model.LRP, cand model.PointOnLine, deviationDeg float64) {
	monitoring.CandidatesRejectedTotal.WithLabelValues(idx(i), string(RejectBearing)).Inc()
}

func (Metrics) CandidateRejectedFRC(i int, lrp model.LRP, cand model.PointOnLine) {
	monitoring.CandidatesRejectedTotal.WithLabelValues(idx(i), string(RejectFRC)).Inc()
}

func (Metrics) CandidateScored(int, model.Candidate, ScoreBreakdown) {}

func (Metrics) NoCandidatesFound(i int, lrp model.LRP) {
	monitoring.MatchingFailuresTotal.WithLabelValues(idx(i)).Inc()
}

func (Metrics) CandidatesFound(int, model.LRP, int) {}

func (Metrics) RouteSuccess(i int, route model.Route) {
	monitoring.RoutesTotal.WithLabelValues(idx(i), "success").Inc()
}

func (Metrics) RouteFail(i int, reason RouteFailReason) {
	monitoring.RoutesTotal.WithLabelValues(idx(i), string(reason)).Inc()
}

func (Metrics) RouteFailLength(i int, gotLength, dMin, dMax float64) {
	monitoring.RoutesTotal.WithLabelValues(idx(i), string(RouteFailLength)).Inc()
}

func (Metrics) MatchingFail(i int) {
	monitoring.MatchingFailuresTotal.WithLabelValues(idx(i)).Inc()
}
