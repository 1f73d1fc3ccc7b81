// Package router implements the length-constrained A* shortest-path search
// between a candidate pair's exit and entry points, per spec.md §4.F.
package router

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

// ErrPathNotFound is returned when the priority queue is exhausted without
// reaching the sink and without any branch having been pruned by d_max.
var ErrPathNotFound = errors.New("router: no path found")

// ErrPathTooLong is returned when the queue is exhausted after at least one
// branch was pruned by d_max, or when the search expands more than
// Options.MaxNodes nodes.
var ErrPathTooLong = errors.New("router: no path within distance bound")

// HeuristicCache memoizes the admissible A* heuristic (geodesic distance
// from a node to the sink node), keyed by (fromNodeID, toNodeID), scoped to
// one Decode call. Per spec.md §9, "a per-call cache keyed by (node_id,
// target_node_id) is sufficient" -- no process-wide cache is required.
type HeuristicCache struct {
	cache *lru.Cache[[2]any, float64]
}

// NewHeuristicCache builds a HeuristicCache holding up to size entries.
func NewHeuristicCache(size int) (*HeuristicCache, error) {
	c, err := lru.New[[2]any, float64](size)
	if err != nil {
		return nil, fmt.Errorf("router: building heuristic cache: %w", err)
	}
	return &HeuristicCache{cache: c}, nil
}

func (h *HeuristicCache) get(from, to model.Node, tool geo.Tool) float64 {
	if h == nil {
		return tool.Distance(from.Position(), to.Position())
	}
	key := [2]any{from.ID(), to.ID()}
	if v, ok := h.cache.Get(key); ok {
		return v
	}
	d := tool.Distance(from.Position(), to.Position())
	h.cache.Add(key, d)
	return d
}

// Options bounds an A* search.
type Options struct {
	// MaxDistance is d_max: any expansion whose g+h exceeds this is
	// abandoned.
	MaxDistance float64
	// MaxLFRC is lfrcnp: lines with a finer (higher) FRC than this are
	// skipped.
	MaxLFRC model.FRC
	// LineFilter, if non-nil, additionally excludes a line from expansion
	// when it returns false.
	LineFilter func(model.Line) bool
	// MaxNodes upper-bounds the number of nodes expanded, a safety valve
	// against pathological graphs (config.MaxRouteNodes).
	MaxNodes int
}

type queueItem struct {
	node   model.Node
	g      float64
	f      float64
	via    model.Line // the line used to reach node, nil at the source
	parent *queueItem
	index  int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].g != pq[j].g {
		return pq[i].g < pq[j].g
	}
	return fmt.Sprint(pq[i].via.ID()) < fmt.Sprint(pq[j].via.ID())
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath searches for an ordered list of intermediate lines forming a
// simple directed walk from exit's line's end node to entry's line's start
// node, per spec.md §4.F. The returned lines do not include exit.Line or
// entry.Line; the caller composes the full Route by prepending exit's tail
// and appending entry's head.
//
// If exit.Line and entry.Line are the same line, the route is the trivial
// intra-line case: FindPath returns an empty (non-nil only when
// meaningful) slice immediately, since no intermediate lines are needed.
func FindPath(ctx context.Context, exit, entry model.PointOnLine, opts Options, tool geo.Tool, heuristic *HeuristicCache) ([]model.Line, error) {
	if exit.Line.ID() == entry.Line.ID() {
		return nil, nil
	}

	source := exit.Line.EndNode()
	sink := entry.Line.StartNode()

	if source.ID() == sink.ID() {
		return nil, nil
	}

	pq := &priorityQueue{}
	heap.Init(pq)

	start := &queueItem{node: source, g: 0, f: heuristic.get(source, sink, tool)}
	heap.Push(pq, start)

	best := map[any]float64{source.ID(): 0}
	visited := 0
	pruned := false

	for pq.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("router: %w", ctx.Err())
		default:
		}

		current := heap.Pop(pq).(*queueItem)
		if g, ok := best[current.node.ID()]; ok && current.g > g {
			continue // stale entry superseded by a better g-score
		}

		if current.node.ID() == sink.ID() {
			return reconstruct(current), nil
		}

		visited++
		if opts.MaxNodes > 0 && visited > opts.MaxNodes {
			return nil, ErrPathTooLong
		}

		for line := range current.node.Outgoing() {
			if line.FRC() > opts.MaxLFRC {
				continue
			}
			if opts.LineFilter != nil && !opts.LineFilter(line) {
				continue
			}
			if onPath(current, line) {
				continue
			}

			next := line.EndNode()
			g := current.g + line.Length()
			h := heuristic.get(next, sink, tool)
			f := g + h

			if opts.MaxDistance > 0 && f > opts.MaxDistance {
				pruned = true
				continue
			}

			if existing, ok := best[next.ID()]; ok && existing <= g {
				continue
			}
			best[next.ID()] = g
			heap.Push(pq, &queueItem{node: next, g: g, f: f, via: line, parent: current})
		}
	}

	if pruned {
		return nil, ErrPathTooLong
	}
	return nil, ErrPathNotFound
}

// onPath reports whether line already appears in the path leading to item,
// enforcing the "no repeats" filter.
func onPath(item *queueItem, line model.Line) bool {
	for n := item; n != nil; n = n.parent {
		if n.via != nil && n.via.ID() == line.ID() {
			return true
		}
	}
	return false
}

func reconstruct(item *queueItem) []model.Line {
	var lines []model.Line
	for n := item; n != nil && n.via != nil; n = n.parent {
		lines = append([]model.Line{n.via}, lines...)
	}
	return lines
}
