// Package memmap is a small in-memory model.MapReader, good enough to
// build the exact topologies spec.md §8's fixtures and end-to-end
// scenarios describe (a straight segment, an L-shaped intersection, a
// wrong-way one-way line, ...) without needing a real map extract. It is a
// reference/test adapter, not part of the core decoder.
package memmap

import (
	"fmt"
	"iter"
	"sort"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

// Node is a memmap graph vertex.
type Node struct {
	id       any
	position geo.Location
	incoming []model.Line
	outgoing []model.Line
}

func (n *Node) ID() any                    { return n.id }
func (n *Node) Position() geo.Location     { return n.position }
func (n *Node) Incoming() iter.Seq[model.Line] { return slices(n.incoming) }
func (n *Node) Outgoing() iter.Seq[model.Line] { return slices(n.outgoing) }
func (n *Node) Incident() iter.Seq[model.Line] {
	return func(yield func(model.Line) bool) {
		for _, l := range n.incoming {
			if !yield(l) {
				return
			}
		}
		for _, l := range n.outgoing {
			if !yield(l) {
				return
			}
		}
	}
}

func slices(lines []model.Line) iter.Seq[model.Line] {
	return func(yield func(model.Line) bool) {
		for _, l := range lines {
			if !yield(l) {
				return
			}
		}
	}
}

// Line is a memmap graph edge.
type Line struct {
	id         any
	start, end *Node
	frc        model.FRC
	fow        model.FOW
	geometry   []geo.Location
	length     float64
}

func (l *Line) ID() any                  { return l.id }
func (l *Line) StartNode() model.Node    { return l.start }
func (l *Line) EndNode() model.Node      { return l.end }
func (l *Line) FRC() model.FRC           { return l.frc }
func (l *Line) FOW() model.FOW           { return l.fow }
func (l *Line) Geometry() []geo.Location { return l.geometry }
func (l *Line) Length() float64          { return l.length }

// Map is an in-memory, mutation-via-builder-methods MapReader.
type Map struct {
	nodes map[any]*Node
	lines map[any]*Line
	tool  geo.Tool
}

// New builds an empty Map. tool computes line lengths from geometry as
// lines are added; it defaults to geo.WGS84{} when nil.
func New(tool geo.Tool) *Map {
	if tool == nil {
		tool = geo.WGS84{}
	}
	return &Map{nodes: make(map[any]*Node), lines: make(map[any]*Line), tool: tool}
}

// AddNode registers a node at position, keyed by id. Calling AddNode twice
// with the same id overwrites the position but keeps existing edges.
func (m *Map) AddNode(id any, position geo.Location) *Node {
	if n, ok := m.nodes[id]; ok {
		n.position = position
		return n
	}
	n := &Node{id: id, position: position}
	m.nodes[id] = n
	return n
}

// AddLine adds a directed edge from startID to endID with the given
// attributes and geometry (which must start at startID's position and end
// at endID's position). Its length is computed from geometry via the Map's
// geo.Tool, per model.Line's length invariant.
func (m *Map) AddLine(id, startID, endID any, frc model.FRC, fow model.FOW, geometry []geo.Location) (*Line, error) {
	start, ok := m.nodes[startID]
	if !ok {
		return nil, fmt.Errorf("memmap: unknown start node %v", startID)
	}
	end, ok := m.nodes[endID]
	if !ok {
		return nil, fmt.Errorf("memmap: unknown end node %v", endID)
	}
	if len(geometry) < 2 {
		return nil, fmt.Errorf("memmap: line %v needs at least 2 geometry points", id)
	}
	l := &Line{
		id: id, start: start, end: end, frc: frc, fow: fow,
		geometry: geometry, length: m.tool.LineStringLength(geometry),
	}
	m.lines[id] = l
	start.outgoing = append(start.outgoing, l)
	end.incoming = append(end.incoming, l)
	return l, nil
}

// AddBidirectionalLine is AddLine plus its reverse edge (idRev), for
// two-way roads: reversing the geometry for the return direction.
func (m *Map) AddBidirectionalLine(id, idRev, aID, bID any, frc model.FRC, fow model.FOW, geometry []geo.Location) error {
	if _, err := m.AddLine(id, aID, bID, frc, fow, geometry); err != nil {
		return err
	}
	reversed := make([]geo.Location, len(geometry))
	for i, p := range geometry {
		reversed[len(geometry)-1-i] = p
	}
	_, err := m.AddLine(idRev, bID, aID, frc, fow, reversed)
	return err
}

func (m *Map) GetLine(id any) (model.Line, error) {
	l, ok := m.lines[id]
	if !ok {
		return nil, fmt.Errorf("memmap: no such line %v", id)
	}
	return l, nil
}

func (m *Map) GetNode(id any) (model.Node, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("memmap: no such node %v", id)
	}
	return n, nil
}

func (m *Map) GetLines() iter.Seq[model.Line] {
	ids := sortedKeys(m.lines)
	return func(yield func(model.Line) bool) {
		for _, id := range ids {
			if !yield(m.lines[id]) {
				return
			}
		}
	}
}

func (m *Map) GetNodes() iter.Seq[model.Node] {
	ids := sortedKeys(m.nodes)
	return func(yield func(model.Node) bool) {
		for _, id := range ids {
			if !yield(m.nodes[id]) {
				return
			}
		}
	}
}

func (m *Map) FindLinesCloseTo(coord geo.Location, radiusM float64) iter.Seq[model.Line] {
	ids := sortedKeys(m.lines)
	return func(yield func(model.Line) bool) {
		for _, id := range ids {
			l := m.lines[id]
			if minDistanceToLine(coord, l.geometry, m.tool) <= radiusM {
				if !yield(l) {
					return
				}
			}
		}
	}
}

func (m *Map) FindNodesCloseTo(coord geo.Location, radiusM float64) iter.Seq[model.Node] {
	ids := sortedKeys(m.nodes)
	return func(yield func(model.Node) bool) {
		for _, id := range ids {
			n := m.nodes[id]
			if m.tool.Distance(coord, n.position) <= radiusM {
				if !yield(n) {
					return
				}
			}
		}
	}
}

func minDistanceToLine(coord geo.Location, geometry []geo.Location, tool geo.Tool) float64 {
	rel := geo.Project(geometry, coord, tool)
	total := tool.LineStringLength(geometry)
	point := tool.Interpolate(geometry, rel*total)
	return tool.Distance(coord, point)
}

// sortedKeys returns m's keys in a stable, deterministic order (ids are
// formatted for comparison, since `any` isn't orderable), so GetLines,
// GetNodes, FindLinesCloseTo and FindNodesCloseTo produce reproducible
// iteration order across runs -- useful for deterministic tests even though
// the MapReader contract doesn't require it.
func sortedKeys[V any](m map[any]V) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}
