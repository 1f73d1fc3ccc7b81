package memmap

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

// fileNode/fileLine are the on-disk JSON shapes LoadJSON reads: a flat list
// of nodes and a flat list of directed lines, the simplest format that can
// express the E1-E6 fixtures and round-trip/backtracking test graphs
// spec.md §8 describes.
type fileNode struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type fileLine struct {
	ID        string       `json:"id"`
	StartNode string       `json:"start_node"`
	EndNode   string       `json:"end_node"`
	FRC       int          `json:"frc"`
	FOW       string       `json:"fow"`
	Geometry  [][2]float64 `json:"geometry"` // [lon, lat] pairs
}

type fileMap struct {
	Nodes []fileNode `json:"nodes"`
	Lines []fileLine `json:"lines"`
}

// LoadJSON builds a Map from the flat node/line JSON document r. Each line
// is one-way; encode a two-way road as two lines with reversed geometry
// (see Map.AddBidirectionalLine for the equivalent builder call).
func LoadJSON(r io.Reader, tool geo.Tool) (*Map, error) {
	var doc fileMap
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("memmap: decoding map file: %w", err)
	}

	m := New(tool)
	for _, n := range doc.Nodes {
		m.AddNode(n.ID, geo.Location{Latitude: n.Lat, Longitude: n.Lon})
	}
	for _, l := range doc.Lines {
		fow, err := model.ParseFOW(l.FOW)
		if err != nil {
			return nil, fmt.Errorf("memmap: line %s: %w", l.ID, err)
		}
		geometry := make([]geo.Location, len(l.Geometry))
		for i, p := range l.Geometry {
			geometry[i] = geo.Location{Longitude: p[0], Latitude: p[1]}
		}
		if _, err := m.AddLine(l.ID, l.StartNode, l.EndNode, model.FRC(l.FRC), fow, geometry); err != nil {
			return nil, fmt.Errorf("memmap: line %s: %w", l.ID, err)
		}
	}
	return m, nil
}
