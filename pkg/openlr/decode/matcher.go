package decode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/candidate"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/observer"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/router"
)

// matchFrame is one level of the tail matcher's explicit backtracking
// stack, per spec.md §4.G/§9 ("a stack of per-LRP iterators is equivalent
// [to recursion] and avoids stack-depth concerns on long references"). It
// represents the choice of candidate for lrpIndex: cursor walks
// candidates in descending score order; chosen/route are populated once
// cursor lands on a candidate that (for lrpIndex > 0) the router could
// reach from the previous frame's chosen candidate within the DNP bounds.
type matchFrame struct {
	lrpIndex   int
	candidates []model.Candidate
	cursor     int
	chosen     model.Candidate
	route      model.Route // the route from the previous frame into chosen; zero for lrpIndex 0
}

// matcher drives the tail-matcher search across one LineLocationReference.
type matcher struct {
	ref     model.LineLocationReference
	reader  model.MapReader
	cfg     config.Config
	obs     observer.Observer
	tool    geo.Tool
	logger  *slog.Logger
	cache   *candidateCache
	heurist *router.HeuristicCache
}

// Match runs the tail matcher (spec.md §4.G) over ref, returning the
// ordered list of accepted Routes connecting every consecutive LRP pair, or
// the decode.Error naming the first LRP pair that could not be matched.
func Match(ctx context.Context, ref model.LineLocationReference, reader model.MapReader, cfg config.Config, obs observer.Observer, tool geo.Tool, logger *slog.Logger) ([]model.Route, error) {
	heurist, err := router.NewHeuristicCache(cfg.MaxRouteNodes * 4)
	if err != nil {
		return nil, wrapError(CodeInvalidReference, "building router heuristic cache", err)
	}

	m := &matcher{
		ref:     ref,
		reader:  reader,
		cfg:     cfg,
		obs:     obs,
		tool:    tool,
		logger:  logger,
		cache:   newCandidateCache("decode"),
		heurist: heurist,
	}
	return m.run(ctx)
}

func (m *matcher) nominate(ctx context.Context, lrpIndex int) ([]model.Candidate, error) {
	if cached, ok := m.cache.get(lrpIndex); ok {
		return cached, nil
	}
	isLast := lrpIndex == len(m.ref.Points)-1
	cands, err := candidate.Nominate(ctx, lrpIndex, m.ref.Points[lrpIndex], m.reader, m.cfg, m.obs, isLast, m.tool, m.logger)
	if err != nil {
		return nil, err
	}
	m.cache.set(lrpIndex, cands)
	return cands, nil
}

func (m *matcher) run(ctx context.Context) ([]model.Route, error) {
	lastIndex := len(m.ref.Points) - 1

	cands0, err := m.nominate(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(cands0) == 0 {
		return nil, newLRPPairError(CodeNoCandidatesForLRP, 0, 0, "no candidates survived nomination for the first LRP")
	}

	stack := []matchFrame{{lrpIndex: 0, candidates: cands0, cursor: -1}}
	// firstFailFrom/firstFailTo record the first LRP pair whose candidates
	// were exhausted, which is what a failed search reports.
	firstFailFrom, firstFailTo, haveFail := 0, 0, false

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("decode: %w", ctx.Err())
		default:
		}

		top := &stack[len(stack)-1]
		advanced := false

		for top.cursor+1 < len(top.candidates) {
			top.cursor++
			cand := top.candidates[top.cursor]

			if top.lrpIndex == 0 {
				top.chosen = cand
				advanced = true
				break
			}

			prev := stack[len(stack)-2]
			prevLRP := m.ref.Points[prev.lrpIndex]
			route, ok := m.tryRoute(ctx, prev.lrpIndex, prev.chosen, cand, prevLRP)
			if !ok {
				continue
			}
			top.chosen = cand
			top.route = route
			advanced = true
			break
		}

		if !advanced {
			m.obs.MatchingFail(top.lrpIndex)
			failedAt := top.lrpIndex
			if !haveFail && failedAt > 0 {
				firstFailFrom, firstFailTo, haveFail = failedAt-1, failedAt, true
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return nil, newLRPPairError(CodeMatchingFailed, firstFailFrom, firstFailTo,
					"exhausted every candidate without completing the chain")
			}
			continue
		}

		if top.lrpIndex == lastIndex {
			return collectRoutes(stack), nil
		}

		nextCands, err := m.nominate(ctx, top.lrpIndex+1)
		if err != nil {
			return nil, err
		}
		if len(nextCands) == 0 {
			return nil, newLRPPairError(CodeNoCandidatesForLRP, top.lrpIndex, top.lrpIndex+1,
				"no candidates survived nomination for this LRP")
		}
		stack = append(stack, matchFrame{lrpIndex: top.lrpIndex + 1, candidates: nextCands, cursor: -1})
	}

	return nil, newLRPPairError(CodeMatchingFailed, 0, lastIndex, "exhausted the first LRP's candidates")
}

// tryRoute attempts to route from the chosen candidate at fromIndex to cand,
// per spec.md §4.G steps 3-4: it derives [d_min, d_max] from fromLRP's DNP
// and tolerances, runs the A* router bounded by fromLRP's LFRCNP, and
// accepts only if the resulting Route's length falls inside the bound.
func (m *matcher) tryRoute(ctx context.Context, fromIndex int, from, to model.Candidate, fromLRP model.LRP) (model.Route, bool) {
	if fromLRP.DNP == nil {
		return model.Route{}, false
	}
	dnp := *fromLRP.DNP
	dMin := dnp*(1-m.cfg.DNPRelTol) - m.cfg.DNPAbsTol
	if dMin < 0 {
		dMin = 0
	}
	dMax := dnp*(1+m.cfg.DNPRelTol) + m.cfg.DNPAbsTol

	budget := dMax - from.DistanceToEnd() - to.DistanceFromStart()
	if budget < 0 {
		m.obs.RouteFailLength(fromIndex, from.DistanceToEnd()+to.DistanceFromStart(), dMin, dMax)
		return model.Route{}, false
	}

	opts := router.Options{
		MaxDistance: budget,
		MaxLFRC:     fromLRP.LFRCNP,
		MaxNodes:    m.cfg.MaxRouteNodes,
	}

	lines, err := router.FindPath(ctx, from.PointOnLine, to.PointOnLine, opts, m.tool, m.heurist)
	if err != nil {
		m.obs.RouteFail(fromIndex, observer.RouteFailNotFound)
		return model.Route{}, false
	}

	route, err := model.NewRoute(from.PointOnLine, lines, to.PointOnLine)
	if err != nil {
		m.obs.RouteFail(fromIndex, observer.RouteFailNotFound)
		return model.Route{}, false
	}

	length := route.Length()
	if length < dMin || length > dMax {
		m.obs.RouteFailLength(fromIndex, length, dMin, dMax)
		return model.Route{}, false
	}

	m.obs.RouteSuccess(fromIndex, route)
	return route, true
}

// collectRoutes reads the accepted Route out of every non-root frame, in
// LRP order, once the stack has reached the last LRP successfully.
func collectRoutes(stack []matchFrame) []model.Route {
	routes := make([]model.Route, 0, len(stack)-1)
	for _, f := range stack[1:] {
		routes = append(routes, f.route)
	}
	return routes
}
