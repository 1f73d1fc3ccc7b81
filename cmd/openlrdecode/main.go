// Command openlrdecode is a thin, deliberately minimal CLI wrapper around
// pkg/openlr/decode.Decode. spec.md §1 places the top-level entry point out
// of the core decoder's scope; this exists only so the module is runnable
// end to end, not as a product surface -- it supplements the gap the
// original implementation's single.py ad-hoc benchmarking harness left,
// per SPEC_FULL.md's "Design notes" supplement.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/NERVsystems/openlr-dereferencer/pkg/coords"
	"github.com/NERVsystems/openlr-dereferencer/pkg/geo"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/config"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/decode"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/memmap"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/observer"
)

// wireLRP is the JSON shape a LineLocationReference input file is read as,
// matching the struct shapes spec.md §3/§6.1 leaves for a binary OpenLR
// codec (out of scope here) to emit. Position may be given either as
// separate lat/lon fields or as a single Coord string in any format
// pkg/coords recognizes (MGRS, UTM, DMS, or decimal degrees); Coord wins
// when both are present.
type wireLRP struct {
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Coord    string   `json:"coord,omitempty"`
	FRC      int      `json:"frc"`
	FOW      string   `json:"fow"`
	Bearing  float64  `json:"bearing"`
	LFRCNP   int      `json:"lfrcnp"`
	DNP      *float64 `json:"dnp,omitempty"`
	Last     bool     `json:"last"`
}

type wireReference struct {
	Points         []wireLRP `json:"points"`
	PositiveOffset float64   `json:"positive_offset"`
	NegativeOffset float64   `json:"negative_offset"`
}

func main() {
	var (
		mapPath    = flag.String("map", "", "path to a memmap JSON map file")
		refPath    = flag.String("reference", "", "path to a JSON-encoded LineLocationReference")
		configPath = flag.String("config", "", "path to a YAML decoder config (defaults to config.Default())")
		verbose    = flag.Bool("verbose", false, "log candidate/route decisions at debug level")
	)
	flag.Parse()

	if *mapPath == "" || *refPath == "" {
		fmt.Fprintln(os.Stderr, "usage: openlrdecode -map FILE -reference FILE [-config FILE] [-verbose]")
		os.Exit(2)
	}

	if err := run(*mapPath, *refPath, *configPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "openlrdecode:", err)
		os.Exit(1)
	}
}

func run(mapPath, refPath, configPath string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mapFile, err := os.Open(mapPath)
	if err != nil {
		return fmt.Errorf("opening map file: %w", err)
	}
	defer mapFile.Close()

	tool := geo.WGS84{}
	reader, err := memmap.LoadJSON(mapFile, tool)
	if err != nil {
		return fmt.Errorf("loading map: %w", err)
	}

	refFile, err := os.Open(refPath)
	if err != nil {
		return fmt.Errorf("opening reference file: %w", err)
	}
	defer refFile.Close()

	ref, err := decodeReferenceJSON(refFile)
	if err != nil {
		return fmt.Errorf("loading reference: %w", err)
	}

	cfg := config.Default()
	if configPath != "" {
		cfgFile, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("opening config file: %w", err)
		}
		defer cfgFile.Close()
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	obs := observer.Logging{Logger: logger}
	loc, err := decode.DecodeWithLogger(context.Background(), ref, reader, cfg, obs, tool, logger)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	return printLineLocation(loc)
}

func decodeReferenceJSON(r interface{ Read([]byte) (int, error) }) (model.LineLocationReference, error) {
	var doc wireReference
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return model.LineLocationReference{}, err
	}
	points := make([]model.LRP, len(doc.Points))
	for i, p := range doc.Points {
		fow, err := model.ParseFOW(p.FOW)
		if err != nil {
			return model.LineLocationReference{}, fmt.Errorf("point %d: %w", i, err)
		}
		position := geo.Location{Latitude: p.Lat, Longitude: p.Lon}
		if p.Coord != "" {
			parsed, err := coords.Parse(p.Coord)
			if err != nil {
				return model.LineLocationReference{}, fmt.Errorf("point %d: coord %q: %w", i, p.Coord, err)
			}
			position = parsed.Location
		}
		points[i] = model.LRP{
			Position: position,
			FRC:      model.FRC(p.FRC),
			FOW:      fow,
			Bearing:  p.Bearing,
			LFRCNP:   model.FRC(p.LFRCNP),
			DNP:      p.DNP,
			Last:     p.Last,
		}
	}
	return model.LineLocationReference{
		Points:         points,
		PositiveOffset: doc.PositiveOffset,
		NegativeOffset: doc.NegativeOffset,
	}, nil
}

func printLineLocation(loc model.LineLocation) error {
	type outLine struct {
		ID any `json:"id"`
	}
	out := struct {
		Lines        []outLine `json:"lines"`
		StartOffsetM float64   `json:"start_offset_m"`
		EndOffsetM   float64   `json:"end_offset_m"`
	}{
		StartOffsetM: loc.StartOffsetM,
		EndOffsetM:   loc.EndOffsetM,
	}
	for _, l := range loc.Lines {
		out.Lines = append(out.Lines, outLine{ID: l.ID()})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
