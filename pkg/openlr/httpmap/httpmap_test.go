package httpmap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

func TestGetNodeParsesWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nodes/a" {
			t.Errorf("expected /nodes/a, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(wireNode{ID: "a", Lat: 1.5, Lon: -2.5})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	n, err := c.GetNode("a")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if n.ID() != "a" {
		t.Errorf("expected id a, got %v", n.ID())
	}
	if n.Position().Latitude != 1.5 || n.Position().Longitude != -2.5 {
		t.Errorf("unexpected position: %+v", n.Position())
	}
}

func TestGetLineParsesGeometryAndAttributes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(wireLine{
			ID: "ab", StartNode: "a", EndNode: "b",
			FRC: 3, FOW: "single_carriageway",
			Geometry: [][2]float64{{0, 0}, {1, 1}},
			LengthM:  150,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	l, err := c.GetLine("ab")
	if err != nil {
		t.Fatalf("GetLine failed: %v", err)
	}
	if l.FRC() != model.FRC3 {
		t.Errorf("expected FRC3, got %v", l.FRC())
	}
	if l.FOW() != model.FOWSingleCarriageway {
		t.Errorf("expected single_carriageway, got %v", l.FOW())
	}
	if l.Length() != 150 {
		t.Errorf("expected length 150, got %v", l.Length())
	}
	geometry := l.Geometry()
	if len(geometry) != 2 || geometry[0].Longitude != 0 || geometry[1].Latitude != 1 {
		t.Errorf("unexpected geometry: %+v", geometry)
	}
}

func TestGetLineRejectsUnknownFOW(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(wireLine{ID: "ab", FOW: "nonsense"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.GetLine("ab"); err == nil {
		t.Fatal("expected an error for an unrecognized form of way")
	}
}

func TestGetNodePropagatesClientErrorWithoutRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.GetNode("missing"); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if attempts != 1 {
		t.Errorf("expected no retry on a 4xx response, got %d attempts", attempts)
	}
}

func TestGetNodeRetriesServerErrorThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(wireNode{ID: "a"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.Retry.InitialDelay = time.Millisecond
	c.Retry.MaxDelay = time.Millisecond
	c.Retry.MaxAttempts = 5

	n, err := c.GetNode("a")
	if err != nil {
		t.Fatalf("expected the request to eventually succeed, got %v", err)
	}
	if n.ID() != "a" {
		t.Errorf("expected id a, got %v", n.ID())
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestGetNodeExhaustsRetriesOnPersistentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.Retry.InitialDelay = time.Millisecond
	c.Retry.MaxDelay = time.Millisecond
	c.Retry.MaxAttempts = 2

	if _, err := c.GetNode("a"); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
}

func TestRemoteNodeIncidentCombinesIncomingAndOutgoing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/nodes/b" {
			json.NewEncoder(w).Encode(wireNode{ID: "b"})
			return
		}
		switch r.URL.Query().Get("direction") {
		case "incoming":
			json.NewEncoder(w).Encode([]wireLine{{ID: "ab", StartNode: "a", EndNode: "b", FOW: "single_carriageway"}})
		case "outgoing":
			json.NewEncoder(w).Encode([]wireLine{{ID: "bc", StartNode: "b", EndNode: "c", FOW: "single_carriageway"}})
		default:
			t.Errorf("unexpected direction %q", r.URL.Query().Get("direction"))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	n, err := c.GetNode("b")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	var ids []string
	for l := range n.Incident() {
		ids = append(ids, l.ID().(string))
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 incident lines, got %v", ids)
	}
}

func TestFindLinesCloseToSendsRadiusQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lines" {
			t.Errorf("expected /lines, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("radius") != "25" {
			t.Errorf("expected radius=25, got %s", r.URL.Query().Get("radius"))
		}
		json.NewEncoder(w).Encode([]wireLine{{ID: "ab", FOW: "single_carriageway"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var ids []string
	for l := range c.FindLinesCloseTo(geo.Location{Latitude: 1, Longitude: 2}, 25) {
		ids = append(ids, l.ID().(string))
	}
	if len(ids) != 1 || ids[0] != "ab" {
		t.Errorf("expected [ab], got %v", ids)
	}
}

func TestGetLinesAndGetNodesAreEmpty(t *testing.T) {
	c := NewClient("http://unused.invalid")
	for range c.GetLines() {
		t.Error("expected no lines from unbounded enumeration")
	}
	for range c.GetNodes() {
		t.Error("expected no nodes from unbounded enumeration")
	}
}
