package candidate

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/observer"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/tracing"
)

// endpointEpsilon is how close a projection must land to a line's endpoint
// to be treated as "at the end" for the outgoing/incoming alternative
// candidates of step 3.
const endpointEpsilon = 1e-6

// Nominate finds and scores candidate anchors for lrp against reader, per
// spec.md §4.D. Surviving candidates (total score >= cfg.MinScore) are
// returned ordered by descending score. lrpIndex is used only for observer
// reporting and logging.
func Nominate(ctx context.Context, lrpIndex int, lrp model.LRP, reader model.MapReader, cfg config.Config, obs observer.Observer, isLast bool, tool geo.Tool, logger *slog.Logger) ([]model.Candidate, error) {
	ctx, span := tracing.StartSpan(ctx, "candidate.Nominate",
		trace.WithAttributes(attribute.Int(tracing.AttrLRPIndex, lrpIndex)))
	defer span.End()

	if obs == nil {
		obs = observer.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	points, err := nominatePoints(ctx, lrp, reader, cfg, isLast, tool)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(points))
	for _, point := range points {
		logger.Debug("candidate nominated", "lrp_index", lrpIndex, "line", point.Line.ID(), "relative_offset", point.RelativeOffset)
		obs.CandidateFound(lrpIndex, lrp, point)

		breakdown := Score(lrp, point, isLast, cfg, tool)
		if breakdown.RejectBearing {
			obs.CandidateRejectedBearing(lrpIndex, lrp, point, breakdown.BearingDeviationDeg)
			continue
		}
		if breakdown.FRC == 0 {
			obs.CandidateRejectedFRC(lrpIndex, lrp, point)
		}

		cand := model.Candidate{
			PointOnLine: point,
			Score:       breakdown.Total,
			GeoScore:    breakdown.Geo,
			FRCScore:    breakdown.FRC,
			FOWScore:    breakdown.FOW,
			BearScore:   breakdown.Bear,
		}
		obs.CandidateScored(lrpIndex, cand, breakdown.ScoreBreakdown)

		if breakdown.Total < cfg.MinScore {
			obs.CandidateRejected(lrpIndex, lrp, point, observer.RejectScore)
			continue
		}
		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	if len(candidates) == 0 {
		obs.NoCandidatesFound(lrpIndex, lrp)
	} else {
		obs.CandidatesFound(lrpIndex, lrp, len(candidates))
	}
	span.SetAttributes(attribute.Int(tracing.AttrCandidateCount, len(candidates)))

	return candidates, nil
}

// nominatePoints implements steps 1-3 of spec.md §4.D: query close lines,
// project the LRP onto each, and emit the outgoing/incoming alternative
// anchors when a projection lands at a line's end (its start, for the last
// LRP).
func nominatePoints(ctx context.Context, lrp model.LRP, reader model.MapReader, cfg config.Config, isLast bool, tool geo.Tool) ([]model.PointOnLine, error) {
	seen := make(map[any]map[float64]bool)
	var points []model.PointOnLine

	add := func(line model.Line, relOffset float64) {
		byOffset, ok := seen[line.ID()]
		if !ok {
			byOffset = make(map[float64]bool)
			seen[line.ID()] = byOffset
		}
		if byOffset[relOffset] {
			return
		}
		byOffset[relOffset] = true
		point, err := model.NewPointOnLine(line, relOffset)
		if err != nil {
			return
		}
		points = append(points, point)
	}

	for line := range reader.FindLinesCloseTo(lrp.Position, cfg.SearchRadius) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		relOffset := geo.Project(line.Geometry(), lrp.Position, tool)
		add(line, relOffset)

		if relOffset >= 1-endpointEpsilon && !isLast {
			for out := range line.EndNode().Outgoing() {
				add(out, 0.0)
			}
		}
		if relOffset <= endpointEpsilon && isLast {
			for in := range line.StartNode().Incoming() {
				add(in, 1.0)
			}
		}
	}

	return points, nil
}
