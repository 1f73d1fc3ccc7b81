// Package httpmap is a reference model.MapReader backed by a JSON HTTP
// service, rate-limited and retried the same way the module family
// throttles calls to Nominatim/Overpass/OSRM (pkg/osm/client.go,
// pkg/core/http.go). It is a reference/demo adapter: spec.md §1 places the
// map reader's internals out of the core decoder's scope, but a production
// decoder is commonly pointed at a map service over HTTP rather than an
// in-process graph, so this module supplies one concrete implementation of
// the contract rather than leaving it entirely to callers.
package httpmap

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
)

// RetryOptions configures exponential-backoff retries for a single HTTP
// request, mirroring pkg/core/http.go's RetryOptions/DefaultRetryOptions
// shape.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions matches the module family's defaults.
var DefaultRetryOptions = RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     10 * time.Second,
	Multiplier:   2.0,
}

// Client is a model.MapReader backed by a JSON HTTP map service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retry   RetryOptions
	// Limiter throttles outbound requests, the way pkg/osm/client.go
	// throttles Nominatim/Overpass/OSRM calls with one rate.Limiter per
	// backend. It must be non-nil; NewClient sets 5 requests/second,
	// burst 5.
	Limiter *rate.Limiter
}

// NewClient builds a Client against baseURL with sensible defaults.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Retry:   DefaultRetryOptions,
		Limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("httpmap: rate limiter: %w", err)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	delay := c.Retry.InitialDelay
	for attempt := 0; attempt < c.Retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("httpmap: %w", ctx.Err())
			}
			delay = time.Duration(float64(delay) * c.Retry.Multiplier)
			if delay > c.Retry.MaxDelay {
				delay = c.Retry.MaxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("httpmap: building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body := resp.Body
		if resp.StatusCode >= 500 {
			body.Close()
			lastErr = fmt.Errorf("httpmap: server error %d from %s", resp.StatusCode, u)
			continue
		}
		if resp.StatusCode >= 400 {
			body.Close()
			return fmt.Errorf("httpmap: client error %d from %s", resp.StatusCode, u)
		}
		err = json.NewDecoder(body).Decode(out)
		body.Close()
		if err != nil {
			return fmt.Errorf("httpmap: decoding response from %s: %w", u, err)
		}
		return nil
	}
	return fmt.Errorf("httpmap: exhausted %d attempts against %s: %w", c.Retry.MaxAttempts, u, lastErr)
}

// wireNode/wireLine are the JSON shapes this adapter expects the backend to
// serve; a real deployment would generate these from the backend's own
// schema.
type wireNode struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type wireLine struct {
	ID        string         `json:"id"`
	StartNode string         `json:"start_node"`
	EndNode   string         `json:"end_node"`
	FRC       int            `json:"frc"`
	FOW       string         `json:"fow"`
	Geometry  [][2]float64   `json:"geometry"` // [lon, lat] pairs
	LengthM   float64        `json:"length_m"`
}

func (c *Client) GetNode(id any) (model.Node, error) {
	var wn wireNode
	if err := c.get(context.Background(), "/nodes/"+fmt.Sprint(id), nil, &wn); err != nil {
		return nil, err
	}
	return &remoteNode{client: c, id: wn.ID, position: geo.Location{Latitude: wn.Lat, Longitude: wn.Lon}}, nil
}

func (c *Client) GetLine(id any) (model.Line, error) {
	var wl wireLine
	if err := c.get(context.Background(), "/lines/"+fmt.Sprint(id), nil, &wl); err != nil {
		return nil, err
	}
	return c.lineFromWire(wl)
}

func (c *Client) lineFromWire(wl wireLine) (model.Line, error) {
	fow, err := model.ParseFOW(wl.FOW)
	if err != nil {
		return nil, fmt.Errorf("httpmap: line %s: %w", wl.ID, err)
	}
	geometry := make([]geo.Location, len(wl.Geometry))
	for i, p := range wl.Geometry {
		geometry[i] = geo.Location{Longitude: p[0], Latitude: p[1]}
	}
	return &remoteLine{
		client: c, id: wl.ID, startID: wl.StartNode, endID: wl.EndNode,
		frc: model.FRC(wl.FRC), fow: fow, geometry: geometry, length: wl.LengthM,
	}, nil
}

// GetLines and GetNodes are not practical to support as unbounded
// enumeration over a remote service; this adapter only supports spatial and
// by-id lookups, which is what the decoder actually calls.
func (c *Client) GetLines() iter.Seq[model.Line] { return func(func(model.Line) bool) {} }
func (c *Client) GetNodes() iter.Seq[model.Node] { return func(func(model.Node) bool) {} }

func (c *Client) FindLinesCloseTo(coord geo.Location, radiusM float64) iter.Seq[model.Line] {
	return func(yield func(model.Line) bool) {
		query := url.Values{
			"lat":    {strconv.FormatFloat(coord.Latitude, 'f', -1, 64)},
			"lon":    {strconv.FormatFloat(coord.Longitude, 'f', -1, 64)},
			"radius": {strconv.FormatFloat(radiusM, 'f', -1, 64)},
		}
		var wls []wireLine
		if err := c.get(context.Background(), "/lines", query, &wls); err != nil {
			return
		}
		for _, wl := range wls {
			l, err := c.lineFromWire(wl)
			if err != nil {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

func (c *Client) FindNodesCloseTo(coord geo.Location, radiusM float64) iter.Seq[model.Node] {
	return func(yield func(model.Node) bool) {
		query := url.Values{
			"lat":    {strconv.FormatFloat(coord.Latitude, 'f', -1, 64)},
			"lon":    {strconv.FormatFloat(coord.Longitude, 'f', -1, 64)},
			"radius": {strconv.FormatFloat(radiusM, 'f', -1, 64)},
		}
		var wns []wireNode
		if err := c.get(context.Background(), "/nodes", query, &wns); err != nil {
			return
		}
		for _, wn := range wns {
			if !yield(&remoteNode{client: c, id: wn.ID, position: geo.Location{Latitude: wn.Lat, Longitude: wn.Lon}}) {
				return
			}
		}
	}
}

// remoteNode/remoteLine fetch their incident edges and end nodes from the
// service on each access, since the wire node/line payloads only carry ids.
type remoteNode struct {
	client   *Client
	id       string
	position geo.Location
}

func (n *remoteNode) ID() any                { return n.id }
func (n *remoteNode) Position() geo.Location { return n.position }

func (n *remoteNode) Incoming() iter.Seq[model.Line] { return n.client.linesFor(n.id, "incoming") }
func (n *remoteNode) Outgoing() iter.Seq[model.Line] { return n.client.linesFor(n.id, "outgoing") }
func (n *remoteNode) Incident() iter.Seq[model.Line] {
	return func(yield func(model.Line) bool) {
		for l := range n.client.linesFor(n.id, "incoming") {
			if !yield(l) {
				return
			}
		}
		for l := range n.client.linesFor(n.id, "outgoing") {
			if !yield(l) {
				return
			}
		}
	}
}

func (c *Client) linesFor(nodeID string, direction string) iter.Seq[model.Line] {
	return func(yield func(model.Line) bool) {
		var wls []wireLine
		query := url.Values{"node": {nodeID}, "direction": {direction}}
		if err := c.get(context.Background(), "/lines", query, &wls); err != nil {
			return
		}
		for _, wl := range wls {
			l, err := c.lineFromWire(wl)
			if err != nil {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

type remoteLine struct {
	client         *Client
	id             string
	startID, endID string
	frc            model.FRC
	fow            model.FOW
	geometry       []geo.Location
	length         float64
}

func (l *remoteLine) ID() any { return l.id }
func (l *remoteLine) StartNode() model.Node {
	n, err := l.client.GetNode(l.startID)
	if err != nil {
		return &remoteNode{client: l.client, id: l.startID}
	}
	return n
}
func (l *remoteLine) EndNode() model.Node {
	n, err := l.client.GetNode(l.endID)
	if err != nil {
		return &remoteNode{client: l.client, id: l.endID}
	}
	return n
}
func (l *remoteLine) FRC() model.FRC           { return l.frc }
func (l *remoteLine) FOW() model.FOW           { return l.fow }
func (l *remoteLine) Geometry() []geo.Location { return l.geometry }
func (l *remoteLine) Length() float64          { return l.length }
